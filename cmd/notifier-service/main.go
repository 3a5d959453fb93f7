package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock-signal-pipeline/internal/notifier/config"
	"stock-signal-pipeline/internal/notifier/repository"
	"stock-signal-pipeline/internal/notifier/service"
	"stock-signal-pipeline/pkg/logger"
	"stock-signal-pipeline/pkg/postgres"
	"stock-signal-pipeline/pkg/redis"
	"stock-signal-pipeline/pkg/utils"
	"stock-signal-pipeline/pkg/telegram"
	"stock-signal-pipeline/pkg/worklock"

	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the notification service",
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

	appLogger.Info("Starting Notification Service", logger.Field("name", cfg.App.Name))

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

	// Acquire the role lease; a second instance of this role would double-send.
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

	// Initialize the Telegram notifier
	telegramNotifier, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
	}

	// Initialize repositories
	signalRepo := repository.NewTradingSignalRepository(db.DB)

	// Initialize and run the notification gate
	gateSvc, err := service.NewGateService(cfg, appLogger, signalRepo, telegramNotifier)
	if err != nil {
		appLogger.Fatal("Failed to initialize notification gate", logger.ErrorField(err))
	}
	gateSvc.Start(ctx)

	appLogger.Info("Notification service stopped")
}

// keepLease refreshes the role lease until ctx is cancelled. Losing the
// lease means another instance took the writer role, so this one stops.
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

func main() {
	rootCmd := &cobra.Command{Use: "notifier-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-notifier.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing notifier-service CLI: %s\n", err)
		os.Exit(1)
	}
}
