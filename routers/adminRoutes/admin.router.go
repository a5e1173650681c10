package adminRoutes

import (
	adminController "propfund/controllers/admin"
	"propfund/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin")

	adminGroup.Get("/reports/compliance", middleware.JWTMiddleware,
		middleware.CheckPermissionMiddleware("view-reports"), adminController.GetComplianceReport)
	adminGroup.Get("/security-events", middleware.JWTMiddleware, adminController.ListSecurityEvents)
	adminGroup.Post("/users/:id/lock", middleware.JWTMiddleware, adminController.LockUser)
	adminGroup.Post("/users/:id/unlock", middleware.JWTMiddleware, adminController.UnlockUser)
	adminGroup.Post("/kyc/:id/verify", middleware.JWTMiddleware, adminController.VerifyKYC)
}
