package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"caseportal/internal/adapters/http/middleware"
	"caseportal/internal/adapters/http/routes"
	"caseportal/internal/adapters/persistence/models"
	"caseportal/internal/adapters/persistence/repositories"
	"caseportal/internal/config"
	"caseportal/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	_ "caseportal/docs" // Swagger docs
)

// @title Case Portal API
// @version 1.0
// @description Citizen case portal: step-up applicant login and admin case management
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@caseportal.local

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath /api/v1

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

	// Build the storage layer: MySQL via GORM, or the in-process memory store
	deps, db, err := buildStore(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize store: %v", err)
	}
	if db != nil {
		defer config.CloseDatabase(db)
	}

	// Seed the default admin (and a demo application in dev mode)
	seeder := config.NewSeeder(deps.AppRepo, deps.AdminRepo, cfg)
	if err := seeder.Run(context.Background()); err != nil {
		log.Printf("⚠️ Warning: Failed to seed data: %v", err)
	}

	// Background sweeps: expired OTP cleanup and biometrics expiry
	cronService := services.NewCronService(deps.AppRepo)
	cronService.Start()
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Case Portal API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, deps, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// buildStore connects the configured driver and returns wired repositories.
// The *gorm.DB return is nil for the memory driver.
func buildStore(cfg *config.Config) (routes.Deps, *gorm.DB, error) {
	mailer := services.NewSMTPMailer(cfg.SMTP)

	if cfg.Store.Driver == "memory" {
		log.Println("✅ Using in-memory store")
		store := repositories.NewMemoryStore()
		return routes.Deps{
			AppRepo:      store.Applications(),
			QuestionRepo: store.SecurityQuestions(),
			AdminRepo:    store.Admins(),
			Mailer:       mailer,
		}, nil, nil
	}

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		return routes.Deps{}, nil, err
	}

	if err := models.AutoMigrate(db); err != nil {
		return routes.Deps{}, nil, err
	}
	log.Println("✅ Database migration completed")

	return routes.Deps{
		DB:           db,
		AppRepo:      repositories.NewApplicationRepository(db),
		QuestionRepo: repositories.NewSecurityQuestionRepository(db),
		AdminRepo:    repositories.NewAdminRepository(db),
		Mailer:       mailer,
	}, db, nil
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
