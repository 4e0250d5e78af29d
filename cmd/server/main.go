package main

import (
	"log"

	"saas-starter-backend/internal/api/routes"
	"saas-starter-backend/internal/config"
	"saas-starter-backend/internal/database"
	"saas-starter-backend/internal/jobs"
	"saas-starter-backend/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	_ "saas-starter-backend/docs" // This is needed for swag
)

//	@title			SaaS Starter Backend API
//	@version		1.0
//	@description	Backend API for the B2B SaaS starter scaffold: organization-scoped users mirrored from the hosted auth provider, background jobs, and server-rendered pages.

//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT

//	@host		localhost:8080
//	@BasePath	/

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the provider session token.

func main() {
	// Load environment variables from .env file in development
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using system environment variables")
	}

	// Initialize configuration; fails fast naming every missing key
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Set up logging
	logger.Setup(cfg.LogLevel)

	// Connect to the database
	db, err := database.Connect(cfg.DatabaseURL, nil)
	if err != nil {
		logrus.Fatal("Failed to connect to database:", err)
	}

	// Development keeps the schema in sync automatically; production runs
	// versioned migrations through saasctl before rollout.
	if cfg.IsDevelopment() {
		if err := database.Push(db); err != nil {
			logrus.Fatal("Failed to sync database schema:", err)
		}
	}

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router and job registry
	router, registry := routes.SetupRoutes(db, cfg)

	// Start the cron scheduler for scheduled tasks
	if cfg.JobsEnabled() {
		scheduler := jobs.NewScheduler(registry)
		if err := scheduler.Start(); err != nil {
			logrus.Fatal("Failed to start job scheduler:", err)
		}
		defer scheduler.Stop()
	}

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	logrus.Infof("Starting server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		logrus.Fatal("Failed to start server:", err)
	}
}
