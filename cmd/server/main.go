package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nobarid/nobar-backend/config"
	"github.com/nobarid/nobar-backend/internal/app/controller"
	"github.com/nobarid/nobar-backend/internal/app/repository"
	"github.com/nobarid/nobar-backend/internal/app/service"
	"github.com/nobarid/nobar-backend/internal/db"
	"github.com/nobarid/nobar-backend/internal/middleware"
	"github.com/nobarid/nobar-backend/internal/router"
	"github.com/nobarid/nobar-backend/internal/scheduler"
	"github.com/nobarid/nobar-backend/internal/storage"
	ws "github.com/nobarid/nobar-backend/internal/websocket"
	"github.com/nobarid/nobar-backend/pkg/logger"
	"github.com/nobarid/nobar-backend/pkg/payment/midtrans"
	"github.com/nobarid/nobar-backend/pkg/redis"
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

	logger.Info("Starting NOBAR Backend Server", map[string]interface{}{
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

	// Redis is optional: without it logout tokens simply expire on their own
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, token revocation disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer redis.Close()

	// Payment gateway client
	gateway, err := midtrans.NewClient(midtrans.Config{
		ServerKey: cfg.Midtrans.ServerKey,
		BaseURL:   cfg.Midtrans.BaseURL,
		SnapURL:   cfg.Midtrans.SnapURL,
		FinishURL: cfg.Midtrans.FinishURL,
	})
	if err != nil {
		logger.Fatal("Failed to initialize payment gateway client", err)
	}

	// Object storage for verification photos
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	venueRepo := repository.NewVenueRepository(db.GetDB())
	licenseRepo := repository.NewLicenseRepository(db.GetDB())
	activityRepo := repository.NewActivityRepository(db.GetDB())
	verificationRepo := repository.NewVerificationRepository(db.GetDB())

	// Initialize services
	activityService := service.NewActivityService(activityRepo)
	authService := service.NewAuthService(userRepo, cfg.JWT)
	venueService := service.NewVenueService(venueRepo, activityService)
	licenseService := service.NewLicenseService(
		licenseRepo,
		venueRepo,
		gateway,
		activityService,
		cfg.Midtrans.ServerKey,
	)
	verificationService := service.NewVerificationService(verificationRepo, venueRepo, activityService)
	exportService := service.NewExportService(licenseRepo)

	// Live activity feed
	hub := ws.NewHub()
	go hub.Run()
	activityService.SetPublisher(hub)

	// Initialize controllers
	authController := controller.NewAuthController(authService, cfg.JWT.Secret)
	venueController := controller.NewVenueController(venueService)
	licenseController := controller.NewLicenseController(licenseService)
	paymentController := controller.NewPaymentController(licenseService)
	verificationController := controller.NewVerificationController(verificationService)
	adminController := controller.NewAdminController(exportService, activityService, hub)
	uploadController := controller.NewUploadController(s3Storage)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Stale order sweep
	orderExpiry := scheduler.NewOrderExpiryScheduler(licenseService)
	if err := orderExpiry.Start(); err != nil {
		logger.Fatal("Failed to start order expiry scheduler", err)
	}
	defer orderExpiry.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		venueController,
		licenseController,
		paymentController,
		verificationController,
		adminController,
		uploadController,
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
