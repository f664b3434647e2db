package route

import (
	"github.com/gofiber/fiber/v2"

	"super40_backend/internals/features/admission/applications/controller"
	"super40_backend/internals/middlewares"
)

// ApplicationPublicRoutes mounts the applicant-facing endpoints. Both carry
// their own limiter: submission is expensive (uploads), the status check is
// a guessing surface.
func ApplicationPublicRoutes(api fiber.Router, ctl *controller.ApplicationController) {
	apps := api.Group("/applications")
	apps.Post("/", middlewares.SubmitRateLimiter(), ctl.Submit)
	apps.Post("/status", middlewares.StatusLookupRateLimiter(), ctl.Status)
}

// ApplicationAdminRoutes mounts the dashboard endpoints; the caller wraps
// the group in JWT auth.
func ApplicationAdminRoutes(admin fiber.Router, ctl *controller.ApplicationController) {
	apps := admin.Group("/applications")
	apps.Get("/", ctl.List)
	apps.Get("/stream", ctl.Stream)
	apps.Get("/:id", ctl.Detail)
	apps.Post("/:id/approve", ctl.Approve)
	apps.Post("/:id/reject", ctl.Reject)
}
