package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock-signal-pipeline/internal/monitor/config"
	delivery "stock-signal-pipeline/internal/monitor/delivery/http"
	_ "stock-signal-pipeline/internal/monitor/docs"
	"stock-signal-pipeline/internal/monitor/repository"
	"stock-signal-pipeline/internal/monitor/service"
	"stock-signal-pipeline/pkg/logger"
	"stock-signal-pipeline/pkg/postgres"
	"stock-signal-pipeline/pkg/redis"
	"stock-signal-pipeline/pkg/utils"
	"stock-signal-pipeline/pkg/worklock"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the monitor service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Monitor Service", logger.Field("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize Redis
	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	// Two monitors would race restarts, so the monitor holds a lease too.
	leaseTTL, err := time.ParseDuration(cfg.Worker.LeaseTTL)
	if err != nil {
		appLogger.Fatal("Invalid lease TTL", logger.ErrorField(err))
	}
	lease, err := worklock.Acquire(ctx, redisClient, cfg.Worker.Role, leaseTTL)
	if err != nil {
		appLogger.Fatal("Failed to acquire role lease", logger.ErrorField(err))
	}
	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := lease.Release(releaseCtx); err != nil {
			appLogger.Error("Failed to release role lease", logger.ErrorField(err))
		}
	}()
	utils.GoSafe(func() { keepLease(ctx, lease, leaseTTL, appLogger, stop) })

	// Initialize repositories
	statusRepo := repository.NewSystemStatusRepository(db.DB)
	processRepo := repository.NewProcessRepository()
	resourceRepo := repository.NewResourceRepository()
	signalRepo := repository.NewTradingSignalRepository(db.DB)

	// Initialize services
	supervisorSvc := service.NewSupervisorService(
		cfg,
		appLogger,
		statusRepo,
		processRepo,
		resourceRepo,
		service.NewLeasePeeker(redisClient),
		service.NewExecRestarter(),
	)
	statusSvc := service.NewStatusService(statusRepo, appLogger)
	signalSvc := service.NewSignalService(signalRepo, appLogger)

	// Start the supervisor
	go supervisorSvc.Start(ctx)

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	// Initialize handlers and routes
	apiV1 := e.Group("/api/v1")

	statusHandler := delivery.NewStatusHandler(statusSvc, appLogger)
	statusGroup := apiV1.Group("/status")
	statusHandler.RegisterRoutes(statusGroup)

	signalHandler := delivery.NewSignalHandler(signalSvc, appLogger)
	signalsGroup := apiV1.Group("/signals")
	signalHandler.RegisterRoutes(signalsGroup)

	e.GET("/swagger/*", swagger.WrapHandler)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

// keepLease refreshes the role lease until ctx is cancelled. Losing the
// lease means another instance took the supervisor role, so this one stops.
func keepLease(ctx context.Context, lease *worklock.Lease, ttl time.Duration, appLogger *logger.Logger, stop context.CancelFunc) {
	ticker := time.NewTicker(ttl / 3)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := lease.Refresh(ctx); err != nil {
				if errors.Is(err, worklock.ErrLost) {
					appLogger.Error("Role lease lost, stopping", logger.ErrorField(err))
					stop()
					return
				}
				appLogger.Warn("Failed to refresh role lease", logger.ErrorField(err))
			}
		}
	}
}

// @title Pipeline Monitor API
// @version 1.0
// @description Operational status and signal outcome API for the stock signal pipeline.
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{Use: "monitor-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-monitor.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing monitor-service CLI: %s\n", err)
		os.Exit(1)
	}
}
