package main

import (
	"context"
	"log" // Use standard log only for initial fatal errors before logger is set up

	"tickLabeler/config"
	"tickLabeler/internal/adapters/clickhouse"
	"tickLabeler/internal/adapters/logger"
	"tickLabeler/internal/adapters/sqlite"
	"tickLabeler/internal/adapters/tickcsv"
	"tickLabeler/internal/app"
	"tickLabeler/internal/ports"
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

	// 3. Initialize Repository (Database Adapter)
	repo, err := sqlite.NewRepository(sqlite.Config{
		DBPath: cfg.DBPath,
		Logger: appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize database repository")
		log.Fatalf("FATAL: Failed to initialize database repository: %v", err) // Also log to stderr
	}
	defer func() {
		if err := repo.Close(); err != nil {
			appLogger.Error(context.Background(), err, "Error closing database repository")
		}
	}()
	appLogger.Info(context.Background(), "Database repository initialized")

	// 4. Initialize Tick Slice Provider (optional)
	var ticks ports.TickSliceProvider
	switch cfg.TickSource {
	case config.TickSourceCSV:
		store, err := tickcsv.NewStore(cfg.TickSlicesDir, appLogger)
		if err != nil {
			appLogger.Error(context.Background(), err, "FATAL: Failed to initialize tick CSV store")
			log.Fatalf("FATAL: Failed to initialize tick CSV store: %v", err)
		}
		ticks = store
	case config.TickSourceClickHouse:
		store, err := clickhouse.NewTickStore(clickhouse.Config{
			Addr:         []string{cfg.ClickHouseAddr},
			Database:     cfg.ClickHouseDatabase,
			Username:     cfg.ClickHouseUsername,
			Password:     cfg.ClickHousePassword,
			Table:        cfg.ClickHouseTicksTable,
			QueryTimeout: cfg.TickFetchTimeout,
			Logger:       appLogger,
		})
		if err != nil {
			appLogger.Error(context.Background(), err, "FATAL: Failed to initialize ClickHouse tick store")
			log.Fatalf("FATAL: Failed to initialize ClickHouse tick store: %v", err)
		}
		defer store.Close()
		ticks = store
	}
	if ticks != nil {
		appLogger.Info(context.Background(), "Tick slice provider initialized", map[string]interface{}{"source": cfg.TickSource})
	}

	// 5. Initialize Application Service
	labelingService, err := app.NewLabelingService(cfg, appLogger, ticks, repo)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize labeling service")
		log.Fatalf("FATAL: Failed to initialize labeling service: %v", err)
	}
	appLogger.Info(context.Background(), "Labeling service initialized")

	// 6. Start the Service
	// Use context.Background() as the base context for the application run
	if err := labelingService.Start(context.Background()); err != nil {
		appLogger.Error(context.Background(), err, "Labeling service exited with error")
		log.Fatalf("FATAL: Labeling service exited with error: %v", err)
	}

	appLogger.Info(context.Background(), "Application finished gracefully.")
}
