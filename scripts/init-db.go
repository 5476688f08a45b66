package main

import (
	"log"

	"fabtech_dashboard/internal/config"
	"fabtech_dashboard/internal/database"
	"fabtech_dashboard/internal/logger"
	"fabtech_dashboard/internal/migrations"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	appLogger, err := logger.New(cfg.LogLevel, cfg.LogFormat, "fabtech-init-db")
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer appLogger.Sync()

	appLogger.Info("Initializing database...")

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL, cfg.LogLevel, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := migrations.RunMigrations(db, appLogger); err != nil {
		appLogger.Fatal("Failed to migrate database", zap.Error(err))
	}

	appLogger.Info("Database initialization completed successfully!")
}
