package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/filemart/filemart-backend/config"
	"github.com/filemart/filemart-backend/internal/app/controller"
	"github.com/filemart/filemart-backend/internal/app/repository"
	"github.com/filemart/filemart-backend/internal/app/service"
	"github.com/filemart/filemart-backend/internal/db"
	"github.com/filemart/filemart-backend/internal/middleware"
	"github.com/filemart/filemart-backend/internal/router"
	"github.com/filemart/filemart-backend/internal/scheduler"
	"github.com/filemart/filemart-backend/internal/storage"
	"github.com/filemart/filemart-backend/internal/websocket"
	"github.com/filemart/filemart-backend/pkg/logger"
	"github.com/filemart/filemart-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting FILEMART Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis is optional; without it, logout tokens expire naturally
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, token blacklist disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer redis.Close()

	// Object storage
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Dashboard event hub
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	storeRepo := repository.NewStoreRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	imageRepo := repository.NewProductImageRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	bankAccountRepo := repository.NewBankAccountRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	storeService := service.NewStoreService(storeRepo)
	productService := service.NewProductService(productRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	bankAccountService := service.NewBankAccountService(bankAccountRepo)

	// Initialize controllers
	authController := controller.NewAuthController(authService, storeService)
	storeController := controller.NewStoreController(storeService)
	productController := controller.NewProductController(
		productService,
		storeService,
		userRepo,
		storeRepo,
		productRepo,
		imageRepo,
		s3Storage,
		hub,
	)
	categoryController := controller.NewCategoryController(categoryService, storeService)
	bankAccountController := controller.NewBankAccountController(bankAccountService, storeService)
	uploadController := controller.NewUploadController(s3Storage)
	wsController := controller.NewWSController(storeService, hub)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Nightly catalog reconciliation report
	catalogScheduler := scheduler.NewCatalogScheduler(db.GetDB())
	if err := catalogScheduler.Start(); err != nil {
		logger.Error("Failed to start catalog scheduler", err)
	}
	defer catalogScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		storeController,
		productController,
		categoryController,
		bankAccountController,
		uploadController,
		wsController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
