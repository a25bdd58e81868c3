package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"nemt-billing/internal/config"
	"nemt-billing/internal/domain/services"
	"nemt-billing/internal/infrastructure/cache"
	"nemt-billing/internal/infrastructure/database"
	"nemt-billing/internal/infrastructure/events"
	httpServer "nemt-billing/internal/interfaces/http"
	httpHandlers "nemt-billing/internal/interfaces/http/handlers"
	"nemt-billing/internal/repositories"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Application main application structure
type Application struct {
	config *config.Config
	logger *zap.Logger
	db     *database.DB

	// Infrastructure
	reportCache *cache.ReportCache
	natsBus     *events.NATSPublisher

	// Repositories
	tripRepo   repositories.TripRepository
	driverRepo repositories.DriverRepository
	clinicRepo repositories.ClinicRepository

	// Services
	tripService   services.TripService
	rateService   services.RateService
	reportService services.ReportService

	// Servers
	httpServer *httpServer.Server

	// Shutdown
	shutdown chan struct{}
	wg       sync.WaitGroup
}

func main() {
	app, err := NewApplication()
	if err != nil {
		fmt.Printf("Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	if err := app.Run(); err != nil {
		app.logger.Fatal("Application failed", zap.Error(err))
	}

	app.logger.Info("Application stopped gracefully")
}

// NewApplication creates a new application instance
func NewApplication() (*Application, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, err := initLogger(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Starting Billing Service",
		zap.String("version", "1.0.0"),
		zap.String("environment", cfg.Server.Environment),
		zap.Int("http_port", cfg.Server.HTTPPort),
	)

	db, err := database.NewPostgresDB(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	migrationsPath := filepath.Join("internal", "infrastructure", "database", "migrations")
	if err := db.RunMigrations(migrationsPath); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		// Migrations may already be applied; keep starting.
	}

	app := &Application{
		config:   cfg,
		logger:   logger,
		db:       db,
		shutdown: make(chan struct{}),
	}

	app.initInfrastructure()
	app.initRepositories()
	app.initServices()
	app.initServers()

	return app, nil
}

// initLogger initializes the logger
func initLogger(cfg config.LoggerConfig) (*zap.Logger, error) {
	var zapConfig zap.Config

	if cfg.Format == "json" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	zapConfig.Level.SetLevel(level)

	if cfg.OutputPath != "" && cfg.OutputPath != "stdout" {
		zapConfig.OutputPaths = []string{cfg.OutputPath}
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return logger, nil
}

// initInfrastructure initializes the report cache and event bus.
// Both are optional: billing keeps working without Redis or NATS,
// it just recomputes reports and drops events.
func (app *Application) initInfrastructure() {
	reportCache, err := cache.NewReportCache(&app.config.Redis, app.config.Billing.SummaryCacheTTL, app.logger)
	if err != nil {
		app.logger.Warn("Report cache unavailable, reports will be recomputed on every request",
			zap.Error(err),
		)
	} else {
		app.reportCache = reportCache
	}

	natsBus, err := events.NewNATSPublisher(&app.config.NATS, app.logger)
	if err != nil {
		app.logger.Warn("Event bus unavailable, billing events will be dropped",
			zap.Error(err),
		)
	} else {
		app.natsBus = natsBus
	}

	app.logger.Info("Infrastructure initialized")
}

// initRepositories initializes the repositories
func (app *Application) initRepositories() {
	app.tripRepo = repositories.NewTripRepository(app.db, app.logger)
	app.driverRepo = repositories.NewDriverRepository(app.db, app.logger)
	app.clinicRepo = repositories.NewClinicRepository(app.db, app.logger)

	app.logger.Info("Repositories initialized")
}

// initServices initializes the services
func (app *Application) initServices() {
	// A nil interface keeps the services' cache checks working when
	// Redis is down; a typed nil pointer would not.
	var summaryCache services.SummaryCache
	if app.reportCache != nil {
		summaryCache = app.reportCache
	}

	var eventBus services.EventPublisher = events.NewNoopPublisher()
	if app.natsBus != nil {
		eventBus = app.natsBus
	}

	app.tripService = services.NewTripService(
		app.tripRepo,
		app.driverRepo,
		app.clinicRepo,
		summaryCache,
		eventBus,
		app.logger,
	)

	app.rateService = services.NewRateService(
		app.driverRepo,
		summaryCache,
		eventBus,
		app.logger,
	)

	app.reportService = services.NewReportService(
		app.tripRepo,
		app.driverRepo,
		app.clinicRepo,
		summaryCache,
		app.logger,
	)

	app.logger.Info("Services initialized")
}

// initServers initializes the servers
func (app *Application) initServers() {
	tripHandler := httpHandlers.NewTripHandler(app.tripService, app.logger)
	rateHandler := httpHandlers.NewRateHandler(app.rateService, app.logger)
	billingHandler := httpHandlers.NewBillingHandler(app.reportService, app.logger)

	app.httpServer = httpServer.NewServer(
		app.config,
		app.logger,
		tripHandler,
		rateHandler,
		billingHandler,
	)

	app.logger.Info("Servers initialized")
}

// Run starts the application
func (app *Application) Run() error {
	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		if err := app.httpServer.Start(); err != nil {
			app.logger.Error("HTTP server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		app.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case <-app.shutdown:
		app.logger.Info("Received shutdown from internal source")
	}

	return app.gracefulShutdown()
}

// gracefulShutdown performs a graceful shutdown
func (app *Application) gracefulShutdown() error {
	app.logger.Info("Starting graceful shutdown")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	close(app.shutdown)

	if err := app.httpServer.Stop(ctx); err != nil {
		app.logger.Error("Failed to stop HTTP server", zap.Error(err))
	}

	done := make(chan struct{})
	go func() {
		app.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		app.logger.Info("All goroutines stopped")
	case <-ctx.Done():
		app.logger.Error("Shutdown timeout exceeded")
	}

	if app.natsBus != nil {
		if err := app.natsBus.Close(); err != nil {
			app.logger.Error("Failed to close NATS connection", zap.Error(err))
		}
	}

	if app.reportCache != nil {
		if err := app.reportCache.Close(); err != nil {
			app.logger.Error("Failed to close report cache", zap.Error(err))
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("Failed to close database connection", zap.Error(err))
	}

	app.logger.Info("Graceful shutdown completed")
	return nil
}
