package routes

import (
	"saas-starter-backend/internal/api/handlers"
	"saas-starter-backend/internal/api/middleware"
	"saas-starter-backend/internal/auth"
	"saas-starter-backend/internal/config"
	"saas-starter-backend/internal/email"
	"saas-starter-backend/internal/jobs"
	"saas-starter-backend/internal/monitoring"
	"saas-starter-backend/internal/repository"
	"saas-starter-backend/internal/service"
	"saas-starter-backend/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRoutes configures the full application router: API, auth provider
// integration, background-job endpoints, and the server-rendered pages.
// It returns the router together with the job registry so the caller can
// start the cron scheduler.
func SetupRoutes(db *gorm.DB, cfg *config.Config) (*gin.Engine, *jobs.Registry) {
	router := gin.New()

	monitor := monitoring.NewClient(cfg)

	// Middleware chain
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery(monitor))
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg))
	router.Use(middleware.Metrics())

	// Initialize validator
	validate := validator.New()

	// Initialize repositories
	organizationRepo := repository.NewOrganizationRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Initialize services
	organizationService := service.NewOrganizationService(organizationRepo, validate)
	userService := service.NewUserService(userRepo, validate)
	sessionService := auth.NewSessionService(cfg)
	emailClient := email.NewClient(cfg)

	// Background jobs: registry + dispatcher + built-in task definitions
	registry := jobs.NewRegistry()
	dispatcher := jobs.NewDispatcher(cfg)
	if err := jobs.RegisterBuiltinTasks(registry, emailClient, organizationRepo, userRepo); err != nil {
		logrus.WithError(err).Fatal("failed to register background tasks")
	}

	var events auth.EventSender
	if dispatcher.Enabled() {
		events = dispatcher
	}

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	userHandler := handlers.NewUserHandler(userService)
	organizationHandler := handlers.NewOrganizationHandler(organizationService)
	authHandler := auth.NewAuthHandler(sessionService, userService, events)
	authMiddleware := auth.NewAuthMiddleware(sessionService)
	invokeHandler := jobs.NewInvokeHandler(registry, cfg.JobsEventKey)
	webHandler := web.NewWebHandler(sessionService, userService, organizationService)

	// Health check routes
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/health/live", healthHandler.Live)

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger documentation route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Server-rendered pages
	router.SetHTMLTemplate(web.Templates())
	router.GET("/", webHandler.Home)
	router.GET("/login", webHandler.Login)
	router.GET("/dashboard", webHandler.Dashboard)
	router.GET("/auth/callback", authHandler.Callback)
	router.POST("/auth/logout", authHandler.Logout)

	// Auth provider webhook (signed, not session-authenticated)
	router.POST("/api/auth/webhook", authHandler.Webhook)

	// Durable-execution service endpoints (shared-key authenticated)
	if cfg.JobsEnabled() {
		jobsGroup := router.Group("/api/jobs")
		{
			jobsGroup.GET("/tasks", invokeHandler.List)
			jobsGroup.POST("/invoke", invokeHandler.Invoke)
		}
	}

	// API v1 routes - all endpoints require an authenticated session
	v1 := router.Group("/api/v1")
	v1.Use(authMiddleware.RequireAuth())
	{
		users := v1.Group("/users")
		{
			users.GET("", userHandler.ListUsers)
			users.GET("/me", userHandler.GetMe)
			users.GET("/:id", userHandler.GetUser)
		}

		organization := v1.Group("/organization")
		{
			organization.GET("", organizationHandler.GetCurrent)
			organization.PATCH("", organizationHandler.UpdateCurrent)
		}
	}

	// Catch-all route for undefined endpoints
	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"error":      "Endpoint not found",
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": c.GetString("request_id"),
		})
	})

	return router, registry
}

// SetupEdgeRoutes configures the globally distributed deployment's router:
// the read-only subset of the API surface behind the same auth middleware.
func SetupEdgeRoutes(db *gorm.DB, cfg *config.Config) *gin.Engine {
	router := gin.New()

	monitor := monitoring.NewClient(cfg)

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery(monitor))
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg))
	router.Use(middleware.Metrics())

	validate := validator.New()

	organizationRepo := repository.NewOrganizationRepository(db)
	userRepo := repository.NewUserRepository(db)
	organizationService := service.NewOrganizationService(organizationRepo, validate)
	userService := service.NewUserService(userRepo, validate)
	sessionService := auth.NewSessionService(cfg)

	healthHandler := handlers.NewHealthHandler(db)
	userHandler := handlers.NewUserHandler(userService)
	organizationHandler := handlers.NewOrganizationHandler(organizationService)
	authMiddleware := auth.NewAuthMiddleware(sessionService)

	router.GET("/health", healthHandler.Health)
	router.GET("/health/live", healthHandler.Live)

	v1 := router.Group("/api/v1")
	v1.Use(authMiddleware.RequireAuth())
	{
		v1.GET("/users", userHandler.ListUsers)
		v1.GET("/users/me", userHandler.GetMe)
		v1.GET("/users/:id", userHandler.GetUser)
		v1.GET("/organization", organizationHandler.GetCurrent)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"error":  "Endpoint not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	return router
}
