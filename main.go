package main

import (
	"log"

	"propfund/config"
	"propfund/database"
	"propfund/middleware"
	"propfund/reports"
	activationRoutes "propfund/routers/activationRoutes"
	adminRoutes "propfund/routers/adminRoutes"
	authRoutes "propfund/routers/authRoutes"
	bankRoutes "propfund/routers/bankRoutes"
	kycRoutes "propfund/routers/kycRoutes"
	walletRoutes "propfund/routers/walletRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Every request passes the security gateway before reaching a handler
	gateway := middleware.NewGateway(database.Database.Db)
	defer gateway.Close()
	app.Use(gateway.Handler())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	authRoutes.SetupAuthRoutes(app)
	walletRoutes.SetupWalletRoutes(app)
	bankRoutes.SetupBankRoutes(app)
	kycRoutes.SetupKycRoutes(app)
	activationRoutes.SetupActivationRoutes(app)
	adminRoutes.SetupAdminRoutes(app)

	// Nightly compliance reports
	scheduler := reports.StartScheduler(database.Database.Db)
	defer scheduler.Stop()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
