package walletRoutes

import (
	walletController "propfund/controllers/wallet"
	"propfund/middleware"
	walletValidator "propfund/validators/wallet"

	"github.com/gofiber/fiber/v2"
)

func SetupWalletRoutes(app *fiber.App) {
	walletGroup := app.Group("/wallet")

	// User routes
	walletGroup.Get("/balance", middleware.JWTMiddleware, walletController.GetWalletBalance)
	walletGroup.Post("/deposit", walletValidator.Deposit(), middleware.JWTMiddleware, walletController.Deposit)
	walletGroup.Post("/withdraw", walletValidator.Withdraw(), middleware.JWTMiddleware, walletController.Withdraw)
	walletGroup.Get("/history", middleware.JWTMiddleware, walletController.GetWalletHistory)

	// Admin routes
	adminGroup := walletGroup.Group("/admin")
	adminGroup.Get("/transactions", middleware.JWTMiddleware, walletController.GetAllTransactions)
	adminGroup.Post("/transactions/:id/approve", middleware.JWTMiddleware,
		middleware.CheckPermissionMiddleware("approve-transactions"), walletController.ApproveTransaction)
	adminGroup.Post("/transactions/:id/reject", walletValidator.Reject(), middleware.JWTMiddleware,
		middleware.CheckPermissionMiddleware("approve-transactions"), walletController.RejectTransaction)
}
