package bankRoutes

import (
	bankController "propfund/controllers/bank"
	"propfund/middleware"
	bankValidator "propfund/validators/bank"

	"github.com/gofiber/fiber/v2"
)

func SetupBankRoutes(app *fiber.App) {
	bankGroup := app.Group("/bank")

	bankGroup.Post("/add", bankValidator.Add(), middleware.JWTMiddleware, bankController.AddBankDetails)
	bankGroup.Get("/list", middleware.JWTMiddleware, bankController.ListBankDetails)
}
