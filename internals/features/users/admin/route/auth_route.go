package route

import (
	"github.com/gofiber/fiber/v2"

	"super40_backend/internals/features/users/admin/controller"
	"super40_backend/internals/middlewares"
)

// AuthPublicRoutes mounts login under its own tight limiter.
func AuthPublicRoutes(api fiber.Router, ctl *controller.AuthController) {
	api.Post("/login", middlewares.LoginRateLimiter(), ctl.Login)
}

// AuthProtectedRoutes mounts the endpoints that need a valid token.
func AuthProtectedRoutes(admin fiber.Router, ctl *controller.AuthController) {
	admin.Post("/logout", ctl.Logout)
	admin.Get("/me", ctl.Me)
}
