package routes

import (
	"tefa-hub/internal/adapters/http/handlers"
	"tefa-hub/internal/adapters/http/middleware"
	"tefa-hub/internal/adapters/persistence/repositories"
	"tefa-hub/internal/config"
	"tefa-hub/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application. It returns the watch
// service so the caller can prime the snapshot hub at startup.
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) *services.WatchService {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	projectTypeRepo := repositories.NewProjectTypeRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(userRepo)
	catalogService := services.NewCatalogService(categoryRepo, projectTypeRepo)
	watchService := services.NewWatchService(orderRepo, userRepo, categoryRepo, projectTypeRepo)
	orderService := services.NewOrderService(orderRepo, userRepo, catalogService, watchService)
	reportService := services.NewReportService(orderRepo, userRepo)
	dashboardService := services.NewDashboardService(db)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService, watchService)
	catalogHandler := handlers.NewCatalogHandler(catalogService, watchService)
	orderHandler := handlers.NewOrderHandler(orderService)
	reportHandler := handlers.NewReportHandler(reportService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	streamHandler := handlers.NewStreamHandler(watchService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, healthHandler, authHandler, userHandler, catalogHandler,
		orderHandler, reportHandler, dashboardHandler, streamHandler, cfg)

	return watchService
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	catalogHandler *handlers.CatalogHandler,
	orderHandler *handlers.OrderHandler,
	reportHandler *handlers.ReportHandler,
	dashboardHandler *handlers.DashboardHandler,
	streamHandler *handlers.StreamHandler,
	cfg *config.Config,
) {
	// API Info
	router.Get("/", healthHandler.APIInfo)

	// Auth routes (public)
	authRoutes := router.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Public order board (no auth, no cost details)
	router.Get("/board", middleware.NoCacheHeaders(), orderHandler.OpenBoard)
	router.Get("/board/stats", middleware.NoCacheHeaders(), orderHandler.BoardStats)
	router.Get("/board/stream", streamHandler.BoardStream)

	// Public catalog reads (cached; writes are admin-only below)
	router.Get("/categories", middleware.CatalogCache(), catalogHandler.ListCategories)
	router.Get("/project-types", middleware.CatalogCache(), catalogHandler.ListProjectTypes)

	// User management routes (Admin only)
	userRoutes := router.Group("/users")
	userRoutes.Use(middleware.AuthMiddleware(cfg))
	userRoutes.Use(middleware.AdminOnly())
	setupUserRoutes(userRoutes, userHandler)

	// Student listing (staff)
	router.Get("/students", middleware.AuthMiddleware(cfg), middleware.TeacherOrAdmin(), userHandler.ListStudents)

	// Profile routes (Authenticated users)
	profileRoutes := router.Group("/profile")
	profileRoutes.Use(middleware.AuthMiddleware(cfg))
	setupProfileRoutes(profileRoutes, userHandler)

	// Catalog write routes (Admin only)
	catalogRoutes := router.Group("")
	catalogRoutes.Use(middleware.AuthMiddleware(cfg))
	catalogRoutes.Use(middleware.AdminOnly())
	setupCatalogRoutes(catalogRoutes, catalogHandler)

	// Order routes (Authenticated users; per-operation checks in service)
	orderRoutes := router.Group("/orders")
	orderRoutes.Use(middleware.AuthMiddleware(cfg))
	setupOrderRoutes(orderRoutes, orderHandler)

	// Report routes (Authenticated users)
	reportRoutes := router.Group("/reports")
	reportRoutes.Use(middleware.AuthMiddleware(cfg))
	setupReportRoutes(reportRoutes, reportHandler)

	// Dashboard routes (Admin only)
	dashboardRoutes := router.Group("/dashboard")
	dashboardRoutes.Use(middleware.AuthMiddleware(cfg))
	dashboardRoutes.Use(middleware.AdminOnly())
	dashboardRoutes.Get("/", dashboardHandler.AdminDashboard)

	// Snapshot stream (Authenticated users)
	router.Get("/stream", middleware.AuthMiddleware(cfg), streamHandler.Watch)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes (rate-limited against brute force)
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupUserRoutes configures user management routes (Admin only)
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.ListUsers)
	router.Post("/", handler.CreateUser)
	router.Get("/:id", handler.GetUser)
	router.Put("/:id", handler.UpdateUser)
	router.Delete("/:id", handler.DeleteUser)
}

// setupProfileRoutes configures profile routes (Authenticated)
func setupProfileRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Put("/", handler.UpdateProfile)
	router.Put("/password", middleware.StrictRateLimiter(), handler.ChangePassword)
}

// setupCatalogRoutes configures catalog write routes (Admin only)
func setupCatalogRoutes(router fiber.Router, handler *handlers.CatalogHandler) {
	router.Post("/categories", handler.CreateCategory)
	router.Delete("/categories/:id", handler.DeleteCategory)
	router.Post("/project-types", handler.CreateProjectType)
	router.Delete("/project-types/:id", handler.DeleteProjectType)
}

// setupOrderRoutes configures order lifecycle routes
func setupOrderRoutes(router fiber.Router, handler *handlers.OrderHandler) {
	router.Post("/", handler.CreateOrder)
	router.Get("/", middleware.NoCacheHeaders(), handler.ListOrders)
	router.Get("/:id", handler.GetOrder)

	// Lifecycle transitions
	router.Post("/:id/verify", middleware.RoleMiddleware("teacher"), handler.Verify)
	router.Post("/:id/claim", handler.Claim)
	router.Put("/:id/progress", handler.UpdateProgress)
	router.Post("/:id/submit", handler.Submit)
	router.Post("/:id/revision", handler.RequestRevision)
	router.Post("/:id/accept", handler.Accept)
	router.Put("/:id/team", middleware.RoleMiddleware("teacher"), handler.EditTeam)
}

// setupReportRoutes configures student report routes
func setupReportRoutes(router fiber.Router, handler *handlers.ReportHandler) {
	// Staff-wide report and CSV export
	router.Get("/students", middleware.TeacherOrAdmin(), handler.StudentReport)
	router.Get("/students/export", middleware.TeacherOrAdmin(), handler.ExportCSV)

	// Single-student stats (students may query themselves)
	router.Get("/students/:id", handler.StudentStats)
}
