package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"super40_backend/internals/configs"
	helper "super40_backend/internals/helpers"
)

// TokenHash is the representation stored in token_blacklists; the raw token
// never touches the database.
func TokenHash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// AuthJWT guards staff routes: Bearer token (cookie fallback), HS256
// signature + expiry check, then the sign-out blacklist.
func AuthJWT(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Get("Authorization"))
		if strings.HasPrefix(raw, "Bearer ") {
			raw = strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
		} else {
			raw = strings.TrimSpace(c.Cookies("access_token"))
		}
		if raw == "" {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Missing access token")
		}

		secret := strings.TrimSpace(configs.JWTSecret)
		if secret == "" {
			return helper.JsonError(c, fiber.StatusInternalServerError, "JWT_SECRET is not set")
		}

		tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !tok.Valid {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid or expired token")
		}

		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid token claims")
		}
		sub, _ := claims["sub"].(string)
		adminID, err := uuid.Parse(sub)
		if err != nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid token subject")
		}

		var blacklisted bool
		if err := db.Raw(
			`SELECT EXISTS(SELECT 1 FROM token_blacklists WHERE token_hash = ? AND deleted_at IS NULL)`,
			TokenHash(raw),
		).Scan(&blacklisted).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "DB error")
		}
		if blacklisted {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Token has been signed out")
		}

		c.Locals("admin_id", adminID)
		if email, ok := claims["email"].(string); ok {
			c.Locals("admin_email", email)
		}
		c.Locals("access_token", raw)
		return c.Next()
	}
}

// GetAdminID reads the authenticated staff id set by AuthJWT.
func GetAdminID(c *fiber.Ctx) (uuid.UUID, error) {
	id, ok := c.Locals("admin_id").(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Not authenticated")
	}
	return id, nil
}
