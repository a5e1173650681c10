package authRoutes

import (
	authController "propfund/controllers/auth"
	"propfund/middleware"
	authValidator "propfund/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/signup", authValidator.Signup(), authController.Signup)
	authGroup.Post("/login", authValidator.Login(), authController.Login)
	authGroup.Post("/change-password", authValidator.ChangePassword(), middleware.JWTMiddleware, authController.ChangePassword)
}
