package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	admissionController "super40_backend/internals/features/admission/applications/controller"
	admissionRepo "super40_backend/internals/features/admission/applications/repository"
	admissionRoute "super40_backend/internals/features/admission/applications/route"
	admissionService "super40_backend/internals/features/admission/applications/service"
	adminController "super40_backend/internals/features/users/admin/controller"
	adminRoute "super40_backend/internals/features/users/admin/route"
	adminService "super40_backend/internals/features/users/admin/service"

	database "super40_backend/internals/databases"
	helper "super40_backend/internals/helpers/oss"
	authMiddleware "super40_backend/internals/middlewares/auth"
)

// SetupRoutes wires every feature under three groups:
//
//	/api/auth    login (public, tight limiter)
//	/api/public  applicant endpoints (submit + status check)
//	/api/a       staff dashboard, JWT-protected
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	var blobs helper.BlobService
	if b, err := helper.NewOSSBlobServiceFromEnv("uploads"); err != nil {
		log.Printf("⚠️  OSS unavailable, uploads disabled: %v", err)
	} else {
		blobs = b
	}

	var hub *admissionRepo.ChangeHub
	if h, err := admissionRepo.NewChangeHub(database.ListenerDSN()); err != nil {
		log.Printf("⚠️  Change feed unavailable, dashboard stream falls back to polling: %v", err)
	} else {
		hub = h
	}

	appSvc := admissionService.NewApplicationService(
		admissionRepo.NewApplicationRepository(db),
		blobs,
		admissionService.NewBrevoNotifierFromEnv(),
	)
	appCtl := admissionController.NewApplicationController(appSvc, hub)
	authCtl := adminController.NewAuthController(adminService.NewAuthService(db))

	authAPI := app.Group("/api/auth")
	adminRoute.AuthPublicRoutes(authAPI, authCtl)

	publicAPI := app.Group("/api/public")
	admissionRoute.ApplicationPublicRoutes(publicAPI, appCtl)

	adminAPI := app.Group("/api/a", authMiddleware.AuthJWT(db))
	adminRoute.AuthProtectedRoutes(adminAPI, authCtl)
	admissionRoute.ApplicationAdminRoutes(adminAPI, appCtl)

	log.Println("✅ Routes registered")
}
