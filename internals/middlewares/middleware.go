package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"super40_backend/internals/middlewares/logger"
)

// SetupMiddlewares wires the base middleware chain. Route-specific limiters
// and auth guards are attached where routes are registered.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(logger.LoggerMiddleware())
	app.Use(GlobalRateLimiter())
}
