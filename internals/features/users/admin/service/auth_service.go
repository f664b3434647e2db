package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"super40_backend/internals/configs"
	"super40_backend/internals/features/users/admin/dto"
	"super40_backend/internals/features/users/admin/model"
	authMiddleware "super40_backend/internals/middlewares/auth"
)

// ErrInvalidCredentials is returned for unknown email, wrong password and
// deactivated accounts alike.
var ErrInvalidCredentials = errors.New("invalid email or password")

const tokenTTL = 24 * time.Hour

type AuthService struct {
	DB *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{DB: db}
}

func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// NewAccessToken signs an HS256 token for the given admin.
func NewAccessToken(adminID, email, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   adminID,
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Login verifies email+password and returns a signed bearer token.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var admin model.AdminUserModel
	err := s.DB.WithContext(ctx).
		Where("admin_email = ? AND is_active = TRUE", email).
		First(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// burn a bcrypt round so the timing does not leak whether the
			// account exists
			_ = bcrypt.CompareHashAndPassword(
				[]byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"),
				[]byte(req.Password),
			)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !CheckPassword(admin.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := NewAccessToken(admin.AdminID.String(), admin.AdminEmail, configs.JWTSecret, tokenTTL)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(tokenTTL.Seconds()),
		AdminName:   admin.AdminName,
		AdminEmail:  admin.AdminEmail,
	}, nil
}

// Logout blacklists the presented token until its own expiry.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	expiredAt := time.Now().Add(tokenTTL)

	// best effort: trust the token's own exp when it parses
	parsed, _, err := jwt.NewParser().ParseUnverified(rawToken, jwt.MapClaims{})
	if err == nil {
		if claims, ok := parsed.Claims.(jwt.MapClaims); ok {
			if exp, ok := claims["exp"].(float64); ok {
				expiredAt = time.Unix(int64(exp), 0)
			}
		}
	}

	entry := model.TokenBlacklistModel{
		TokenHash: authMiddleware.TokenHash(rawToken),
		ExpiredAt: expiredAt,
	}
	err = s.DB.WithContext(ctx).Create(&entry).Error
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		// already blacklisted; logout is idempotent
		return nil
	}
	return err
}
