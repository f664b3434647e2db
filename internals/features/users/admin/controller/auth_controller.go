package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"super40_backend/internals/features/users/admin/dto"
	"super40_backend/internals/features/users/admin/service"
	helper "super40_backend/internals/helpers"
)

type AuthController struct {
	Service  *service.AuthService
	validate *validator.Validate
}

func NewAuthController(svc *service.AuthService) *AuthController {
	return &AuthController{Service: svc, validate: validator.New()}
}

func (ctl *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request payload")
	}
	if err := ctl.validate.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Email and password are required")
	}

	resp, err := ctl.Service.Login(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid email or password")
		}
		log.Printf("[AUTH] login failed: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal server error")
	}
	return helper.JsonOK(c, "Login successful", resp)
}

// Logout blacklists the current token. Mounted behind the JWT middleware,
// which stores the raw token in locals.
func (ctl *AuthController) Logout(c *fiber.Ctx) error {
	raw, _ := c.Locals("access_token").(string)
	if raw == "" {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Missing token")
	}
	if err := ctl.Service.Logout(c.Context(), raw); err != nil {
		log.Printf("[AUTH] logout failed: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal server error")
	}
	return helper.JsonOK(c, "Logged out", nil)
}

// Me echoes the authenticated identity for the dashboard header.
func (ctl *AuthController) Me(c *fiber.Ctx) error {
	return helper.JsonOK(c, "OK", fiber.Map{
		"admin_id":    c.Locals("admin_id"),
		"admin_email": c.Locals("admin_email"),
	})
}
