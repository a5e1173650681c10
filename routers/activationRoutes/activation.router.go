package activationRoutes

import (
	activationController "propfund/controllers/activation"
	"propfund/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupActivationRoutes(app *fiber.App) {
	activationGroup := app.Group("/activation")

	activationGroup.Post("/evaluate", middleware.JWTMiddleware, activationController.EvaluateActivation)
	activationGroup.Get("/status", middleware.JWTMiddleware, activationController.GetActivationStatus)
}
