package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tourbooking-backend/internal/shared/middleware"
	"tourbooking-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", healthCheckHandler(c))

		setupBookingRoutes(v1, c)
		setupPaymentRoutes(v1, c)
		setupWebhookRoutes(v1, c)
		setupAdminRoutes(v1, c)
	}

	return router
}

// ========================================
// BOOKING ROUTES
// ========================================
func setupBookingRoutes(v1 *gin.RouterGroup, c *container.Container) {
	bookings := v1.Group("/bookings")
	{
		bookings.POST("", c.BookingHandler.CreateBooking)
		bookings.GET("/:reference", c.BookingHandler.GetBooking)
	}
}

// ========================================
// PAYMENT ROUTES
// ========================================
func setupPaymentRoutes(v1 *gin.RouterGroup, c *container.Container) {
	payments := v1.Group("/payments")
	{
		// Checkout page: signed auto-submit form to the hosted payment page
		payments.GET("/:reference/checkout", c.PaymentHandler.Checkout)

		// Browser return from the gateway (okUrl/failUrl both point here).
		// Any method: a GET with no payload classifies as no_data, not 404.
		payments.Any("/response", c.PaymentHandler.GatewayReturn)

		// Redirect-based completion signals
		payments.GET("/success", c.PaymentHandler.Success)
		payments.POST("/success", c.PaymentHandler.Success)
		payments.GET("/failure", c.PaymentHandler.Failure)
		payments.POST("/failure", c.PaymentHandler.Failure)
	}
}

// ========================================
// WEBHOOK ROUTES
// ========================================
func setupWebhookRoutes(v1 *gin.RouterGroup, c *container.Container) {
	// Registered with Any so non-POST calls get an explicit 405 from the
	// handler instead of a 404 from the router.
	v1.Any("/webhooks/nestpay", c.PaymentHandler.Webhook)
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin")
	admin.Use(
		middleware.AuthMiddleware(c.JWTManager),
		middleware.AdminMiddleware(),
	)
	{
		admin.GET("/payments", c.PaymentHandler.ListPayments)
		admin.GET("/bookings/:reference/payments", c.PaymentHandler.ListBookingPayments)
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "ok"
		if err := c.DB.HealthCheck(checkCtx); err != nil {
			dbStatus = "down"
		}

		redisStatus := "ok"
		if err := c.Cache.Ping(checkCtx); err != nil {
			redisStatus = "down"
		}

		status := http.StatusOK
		if dbStatus != "ok" {
			status = http.StatusServiceUnavailable
		}

		ctx.JSON(status, gin.H{
			"status":   dbStatus,
			"database": dbStatus,
			"redis":    redisStatus,
			"version":  c.Config.App.Version,
		})
	}
}
