package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"nemt-billing/internal/config"
	"nemt-billing/internal/infrastructure/metrics"
	"nemt-billing/internal/interfaces/http/handlers"
	"nemt-billing/internal/interfaces/http/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server HTTP server
type Server struct {
	config     *config.Config
	logger     *zap.Logger
	httpServer *http.Server
	router     *gin.Engine
}

// NewServer creates a new HTTP server
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	tripHandler *handlers.TripHandler,
	rateHandler *handlers.RateHandler,
	billingHandler *handlers.BillingHandler,
) *Server {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   "nemt-billing",
			"timestamp": time.Now().UTC(),
		})
	})

	// Prometheus metrics
	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(metrics.Handler()))
	}

	// API routes
	api := router.Group("/api/v1")

	// Trip routes
	trips := api.Group("/trips")
	{
		trips.POST("", tripHandler.CreateTrip)
		trips.GET("", tripHandler.ListTrips)
		trips.GET("/:id", tripHandler.GetTrip)
		trips.PATCH("/:id/status", tripHandler.ChangeStatus)
		trips.PATCH("/:id/payout-override", tripHandler.SetPayoutOverride)
	}

	// Driver rate and report routes
	drivers := api.Group("/drivers")
	{
		drivers.GET("/:id/rates", rateHandler.GetRateSchedule)
		drivers.PUT("/:id/rates", rateHandler.UpdateRateSchedule)
		drivers.PUT("/:id/deductions", rateHandler.UpdateDeductions)
		drivers.GET("/:id/earnings", billingHandler.GetDriverEarnings)
	}

	// Clinic report routes
	clinics := api.Group("/clinics")
	{
		clinics.GET("/:id/invoice", billingHandler.GetClinicInvoice)
	}

	server := &Server{
		config: cfg,
		logger: logger,
		router: router,
		httpServer: &http.Server{
			Addr:           fmt.Sprintf(":%d", cfg.Server.HTTPPort),
			Handler:        router,
			ReadTimeout:    cfg.Server.Timeout,
			WriteTimeout:   cfg.Server.Timeout,
			IdleTimeout:    2 * cfg.Server.Timeout,
			MaxHeaderBytes: 1 << 20, // 1 MB
		},
	}

	return server
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		zap.Int("port", s.config.Server.HTTPPort),
		zap.String("environment", s.config.Server.Environment),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping HTTP server")

	return s.httpServer.Shutdown(ctx)
}

// GetRouter returns the router for testing
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
