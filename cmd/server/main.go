package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"touristsafety/internal/config"
	"touristsafety/internal/handlers"
	"touristsafety/internal/middleware"
	"touristsafety/internal/repositories/mongodb"
	"touristsafety/internal/services"
	"touristsafety/internal/utils"
	"touristsafety/internal/zones"
	"touristsafety/pkg/cache"
	"touristsafety/pkg/database"
	"touristsafety/pkg/logger"
	"touristsafety/pkg/sms"
	"touristsafety/pkg/websocket"
	"touristsafety/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: cfg.App.LogFormat,
		Output: "stdout",
		Colors: config.IsDevelopment(),
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// MongoDB
	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		appLogger.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.Close()
	appLogger.Info("MongoDB connected")

	// Redis is optional; without it the repository reads straight from Mongo.
	var cacheService services.CacheService
	var redisCache *cache.RedisCache
	if cfg.Redis.Enabled {
		redisCache, err = cache.NewRedisCache(&cache.RedisConfig{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			appLogger.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisCache.Close()
		cacheService = services.NewCacheService(redisCache)
		appLogger.Info("Redis connected")
	}

	// Repositories
	caseRepo := mongodb.NewCaseRepository(db.Database, cacheService)
	{
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := caseRepo.EnsureIndexes(ctx); err != nil {
			appLogger.Fatalf("Failed to create indexes: %v", err)
		}
		cancel()
	}

	// SMS provider is chosen once at startup based on credential presence.
	var smsProvider sms.SMSProvider
	if cfg.SMS.IsConfigured() {
		smsProvider = sms.NewTwilioProvider(
			cfg.SMS.Twilio.AccountSID,
			cfg.SMS.Twilio.AuthToken,
			cfg.SMS.Twilio.FromNumber,
		)
		appLogger.WithField("from", cfg.SMS.Twilio.FromNumber).Info("Twilio SMS service configured")
	} else {
		smsProvider = sms.NewLogProvider(appLogger)
		appLogger.Info("Twilio not configured, SMS will be logged only")
	}

	// Live feeds
	wsHandler := websocket.NewHandler()

	// Services
	classifier := zones.NewClassifierFromConfig(cfg.Zones)
	notifier := services.NewNotificationService(wsHandler, smsProvider, appLogger)
	caseService := services.NewCaseService(caseRepo, notifier, classifier, cfg.Escalation.Window, appLogger)
	defer caseService.Shutdown()

	// Handlers
	caseHandler := handlers.NewCaseHandler(caseService)

	// Initialize Gin router
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(appLogger))

	// API routes
	api := router.Group("/api")
	routes.SetupTouristRoutes(api, caseHandler)

	// Live feed endpoint
	router.GET(cfg.WebSocket.Path, wsHandler.HandleWebSocket)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": utils.AppVersion,
		})
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		appLogger.Infof("Server running on port %d", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		appLogger.Errorf("Forced shutdown: %v", err)
	}
}
