package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"tefa-hub/internal/adapters/http/middleware"
	"tefa-hub/internal/adapters/http/routes"
	"tefa-hub/internal/adapters/persistence/models"
	"tefa-hub/internal/config"
	"tefa-hub/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "tefa-hub/docs" // Swagger docs
)

// @title TEFA Hub API
// @version 1.0
// @description API pesanan proyek Teaching Factory SMK Assyifa
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email tefa@smkassyifa.sch.id

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host tefa.smkassyifa.sch.id
// @BasePath /api/v1
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed demo accounts, catalog and orders into empty collections
	if err := config.SeedBootstrapData(db); err != nil {
		log.Printf("⚠️ Warning: Failed to seed bootstrap data: %v", err)
	}

	// Start deadline reminder cron (08:30 daily)
	reminderService := services.NewReminderService(db)
	reminderService.Start()
	defer reminderService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "TEFA Hub API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	watchService := routes.Setup(app, db, cfg)

	// Prime the snapshot hub so the first subscriber sees data
	watchService.PublishAll(context.Background())

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
