package router

import (
	"github.com/gin-gonic/gin"
	"github.com/nobarid/nobar-backend/config"
	"github.com/nobarid/nobar-backend/internal/app/controller"
	"github.com/nobarid/nobar-backend/internal/middleware"
)

type Router struct {
	authController         *controller.AuthController
	venueController        *controller.VenueController
	licenseController      *controller.LicenseController
	paymentController      *controller.PaymentController
	verificationController *controller.VerificationController
	adminController        *controller.AdminController
	uploadController       *controller.UploadController
	authMiddleware         *middleware.AuthMiddleware
	config                 *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	venueController *controller.VenueController,
	licenseController *controller.LicenseController,
	paymentController *controller.PaymentController,
	verificationController *controller.VerificationController,
	adminController *controller.AdminController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:         authController,
		venueController:        venueController,
		licenseController:      licenseController,
		paymentController:      paymentController,
		verificationController: verificationController,
		adminController:        adminController,
		uploadController:       uploadController,
		authMiddleware:         authMiddleware,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "NOBAR API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.Me)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
		}

		venues := v1.Group("/venues")
		venues.Use(r.authMiddleware.Authenticate())
		{
			venues.GET("", r.venueController.List)
			venues.POST("", r.venueController.Register)
			venues.GET("/:id", r.venueController.Get)
			venues.PUT("/:id", r.venueController.Update)
		}

		licenses := v1.Group("/licenses")
		licenses.Use(r.authMiddleware.Authenticate())
		{
			licenses.GET("/:venueId", r.licenseController.GetLicense)
			licenses.POST("/:venueId/order", r.licenseController.CreateOrder)
			licenses.POST("/:venueId/confirm", r.licenseController.ConfirmPayment)
			licenses.POST("/:venueId/cancel", r.licenseController.CancelOrder)
		}

		// Gateway webhook: unauthenticated, verified by signature instead
		payments := v1.Group("/payments")
		{
			payments.POST("/notification", r.paymentController.HandleNotification)
		}

		verifications := v1.Group("/verifications")
		verifications.Use(r.authMiddleware.Authenticate())
		{
			verifications.GET("/queue",
				r.authMiddleware.RequireRole("surveyor", "admin"),
				r.verificationController.Queue,
			)
			verifications.GET("/:venueId", r.verificationController.GetByVenue)
			verifications.POST("/:venueId",
				r.authMiddleware.RequireRole("surveyor"),
				r.verificationController.RecordVisit,
			)
			verifications.PUT("/:venueId/review",
				r.authMiddleware.RequireRole("admin"),
				r.verificationController.Review,
			)
		}

		uploads := v1.Group("/uploads")
		uploads.Use(r.authMiddleware.Authenticate())
		uploads.Use(r.authMiddleware.RequireRole("surveyor", "admin"))
		{
			uploads.POST("/presign", r.uploadController.Presign)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate())
		admin.Use(r.authMiddleware.RequireRole("admin"))
		{
			admin.GET("/licenses/export", r.adminController.ExportLicenses)
			admin.GET("/activities", r.adminController.Activities)
			admin.GET("/activities/live", r.adminController.LiveActivities)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
