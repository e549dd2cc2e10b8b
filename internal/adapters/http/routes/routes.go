package routes

import (
	"caseportal/internal/adapters/http/handlers"
	"caseportal/internal/adapters/http/middleware"
	"caseportal/internal/adapters/persistence/repositories"
	"caseportal/internal/config"
	"caseportal/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Deps carries the already-constructed storage layer into route setup. DB is
// nil when running on the memory store.
type Deps struct {
	DB           *gorm.DB
	AppRepo      repositories.ApplicationRepository
	QuestionRepo repositories.SecurityQuestionRepository
	AdminRepo    repositories.AdminRepository
	Mailer       services.Mailer
}

// Setup configures all routes for the application
func Setup(app *fiber.App, deps Deps, cfg *config.Config) {
	// Initialize services
	authService := services.NewAuthService(deps.AppRepo, deps.AdminRepo, cfg)
	otpService := services.NewOTPService(deps.AppRepo, deps.Mailer, cfg)
	questionService := services.NewSecurityQuestionService(deps.QuestionRepo, deps.AppRepo)
	appService := services.NewApplicationService(deps.AppRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(deps.DB)
	authHandler := handlers.NewAuthHandler(authService, otpService, questionService, cfg)
	adminHandler := handlers.NewAdminHandler(authService, cfg)
	applicationHandler := handlers.NewApplicationHandler(appService)
	questionHandler := handlers.NewSecurityQuestionHandler(questionService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAuthRoutes(apiV1, authHandler, cfg)
	setupAdminRoutes(apiV1, adminHandler, applicationHandler, questionHandler, cfg)
}

// setupAuthRoutes configures the applicant login flow and session routes
func setupAuthRoutes(router fiber.Router, authHandler *handlers.AuthHandler, cfg *config.Config) {
	auth := router.Group("/auth")

	// Public: password check (step 1)
	auth.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)

	// Temp-token guarded: OTP resend (strict limit, brute-force surface)
	auth.Post("/otp/resend", middleware.StrictRateLimiter(), middleware.TempAuthMiddleware(cfg), authHandler.ResendOTP)

	// OTP verify reads the temp cookie itself so it can distinguish a missing
	// token from a bad code in its envelope
	auth.Post("/otp/verify", middleware.StrictRateLimiter(), authHandler.VerifyOTP)

	// Session guarded
	session := auth.Group("", middleware.SessionAuthMiddleware(cfg))
	session.Get("/me", authHandler.Me)
	session.Post("/logout", authHandler.Logout)
	session.Get("/security-questions", authHandler.ListSecurityQuestions)
	session.Post("/security-questions/verify", authHandler.VerifySecurityQuestion)
}

// setupAdminRoutes configures admin auth plus the application CRUD panel
func setupAdminRoutes(
	router fiber.Router,
	adminHandler *handlers.AdminHandler,
	applicationHandler *handlers.ApplicationHandler,
	questionHandler *handlers.SecurityQuestionHandler,
	cfg *config.Config,
) {
	admin := router.Group("/admin")

	admin.Post("/auth/login", middleware.AuthRateLimiter(), adminHandler.Login)
	admin.Post("/auth/logout", adminHandler.Logout)

	// Everything below requires the admin token
	panel := admin.Group("", middleware.AdminAuthMiddleware(cfg))

	apps := panel.Group("/applications")
	apps.Post("/", applicationHandler.Create)
	apps.Get("/", applicationHandler.List)
	apps.Get("/:id", applicationHandler.GetByID)
	apps.Put("/:id", applicationHandler.Update)
	apps.Delete("/:id", applicationHandler.Delete)

	apps.Post("/:id/messages", applicationHandler.AppendMessage)
	apps.Put("/:id/messages/read", applicationHandler.MarkMessagesRead)

	apps.Get("/:id/security-questions", questionHandler.List)
	apps.Post("/:id/security-questions", questionHandler.Add)
	apps.Put("/:id/security-questions/:qid", questionHandler.UpdateAnswer)
	apps.Delete("/:id/security-questions/:qid", questionHandler.Delete)
}
