package dto

// LoginRequest is the dashboard login form.
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=8"`
}

// LoginResponse returns the bearer token plus the identity the dashboard
// shows in its header.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"` // seconds
	AdminName   string `json:"admin_name"`
	AdminEmail  string `json:"admin_email"`
}
