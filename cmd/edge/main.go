package main

import (
	"log"

	"saas-starter-backend/internal/api/routes"
	"saas-starter-backend/internal/config"
	"saas-starter-backend/internal/database"
	"saas-starter-backend/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// The edge binary serves the read-only subset of the API surface from
// globally distributed nodes. Mutations, webhooks, and jobs stay on the
// primary deployment.
func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger.Setup(cfg.LogLevel)

	db, err := database.Connect(cfg.DatabaseURL, nil)
	if err != nil {
		logrus.Fatal("Failed to connect to database:", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := routes.SetupEdgeRoutes(db, cfg)

	port := cfg.EdgePort
	if port == "" {
		port = "8787"
	}

	logrus.Infof("Starting edge server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		logrus.Fatal("Failed to start edge server:", err)
	}
}
