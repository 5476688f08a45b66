package main

import (
	"log"
	"time"

	"fabtech_dashboard/internal/config"
	"fabtech_dashboard/internal/database"
	"fabtech_dashboard/internal/handlers"
	"fabtech_dashboard/internal/logger"
	"fabtech_dashboard/internal/migrations"
	"fabtech_dashboard/internal/redis"
	"fabtech_dashboard/internal/repository"
	"fabtech_dashboard/internal/services"
	"fabtech_dashboard/pkg/backend"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	appLogger, err := logger.New(cfg.LogLevel, cfg.LogFormat, "fabtech-dashboard")
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer appLogger.Sync()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL, cfg.LogLevel, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if cfg.AutoMigrate {
		if err := migrations.RunMigrations(db, appLogger); err != nil {
			appLogger.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	// Initialize Redis
	redisClient, err := redis.Initialize(cfg.RedisURL, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Initialize backend client (auth + file storage)
	backendClient := backend.NewClient(
		cfg.BackendURL,
		cfg.BackendAnonKey,
		cfg.StorageBucket,
		time.Duration(cfg.RequestTimeout)*time.Second,
		appLogger,
	)

	// Initialize repositories
	customerRepo := repository.NewCustomerRepository(db, redisClient, appLogger)
	measurementRepo := repository.NewMeasurementRepository(db, redisClient, appLogger)

	// Initialize services
	customerService := services.NewCustomerService(customerRepo, appLogger)
	measurementService := services.NewMeasurementService(
		measurementRepo,
		redisClient,
		time.Duration(cfg.SelectionTTL)*time.Second,
		appLogger,
	)
	exportService := services.NewExportService(measurementRepo, appLogger)
	fileService := services.NewFileService(backendClient, appLogger)
	authService := services.NewAuthService(backendClient, cfg.ResetRedirect, appLogger)

	// Initialize handlers
	if err := handlers.RegisterValidators(); err != nil {
		appLogger.Fatal("Failed to register validators", zap.Error(err))
	}
	authHandler := handlers.NewAuthHandler(authService, appLogger)
	recordHandler := handlers.NewRecordHandler(customerService, appLogger)
	measurementHandler := handlers.NewMeasurementHandler(measurementService, exportService, appLogger)
	fileHandler := handlers.NewFileHandler(fileService, appLogger)

	// Setup routes
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), handlers.RequestLogger(appLogger))
	handlers.RegisterRoutes(router,
		handlers.AuthMiddleware([]byte(cfg.JWTSecret)),
		authHandler,
		recordHandler,
		measurementHandler,
		fileHandler,
	)

	// Start server
	appLogger.Info("Server starting", zap.String("port", cfg.ServerPort))
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		appLogger.Fatal("Failed to start server", zap.Error(err))
	}
}
