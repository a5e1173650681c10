package kycRoutes

import (
	kycController "propfund/controllers/kyc"
	"propfund/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupKycRoutes(app *fiber.App) {
	kycGroup := app.Group("/kyc")

	kycGroup.Post("/submit", middleware.JWTMiddleware, kycController.SubmitKYC)
}
