package main

import (
	"context"
	"log" // Use standard log only for initial fatal errors before logger is set up
	"os"
	"os/signal"
	"syscall"

	"swapBook/config"
	"swapBook/internal/adapters/logger"
	"swapBook/internal/adapters/sqlite"
	"swapBook/internal/app"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	// 2. Initialize Logger
	appLogger := logger.NewStdLogger(cfg.LogLevel)
	appLogger.Info(context.Background(), "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String()})

	// 3. Initialize Store (Database Adapter)
	store, err := sqlite.New(sqlite.Config{
		DBPath: cfg.DBPath,
		Logger: appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize trade store")
		log.Fatalf("FATAL: Failed to initialize trade store: %v", err) // Also log to stderr
	}
	defer func() {
		if err := store.Close(); err != nil {
			appLogger.Error(context.Background(), err, "Error closing trade store")
		}
	}()
	appLogger.Info(context.Background(), "Trade store initialized")

	// 4. Initialize Projection Engine
	engine, err := app.NewProjectionEngine(appLogger, store, store, cfg.ProjectionPollInterval, cfg.ProjectionBatchSize)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize projection engine")
		log.Fatalf("FATAL: Failed to initialize projection engine: %v", err)
	}
	appLogger.Info(context.Background(), "Projection engine initialized")

	// 5. Run until interrupted
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLogger.Info(ctx, "Shutdown signal received", map[string]interface{}{"signal": sig.String()})
		cancel()
	}()

	if err := engine.Run(ctx); err != nil {
		appLogger.Error(context.Background(), err, "Projection engine exited with error")
		log.Fatalf("FATAL: Projection engine exited with error: %v", err)
	}

	appLogger.Info(context.Background(), "Application finished gracefully.")
}
