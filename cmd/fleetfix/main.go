package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/fleetfix/fleetfix/internal/config"
	"github.com/fleetfix/fleetfix/internal/logger"
)

func main() {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	cfg, err := config.Load("")
	if err != nil {
		logger.New("fleetfix-main").Fatalw("Failed to load configuration", "error", err)
	}

	logger.Configure(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.New("fleetfix-main")

	if cfg.Metrics.Enabled {
		logger.InitMetrics()
	}

	ctx := context.Background()

	store, err := initializeStore(ctx, cfg, log)
	if err != nil {
		log.Fatalw("Failed to initialize record store", "error", err)
	}

	fleetService, syncService := initializeServices(cfg, store, log)

	httpServer, err := initializeHTTPServer(cfg, fleetService, syncService, store, log)
	if err != nil {
		log.Fatalw("Failed to start HTTP server", "error", err)
	}

	app := &Application{
		cfg:        cfg,
		logger:     log,
		store:      store,
		httpServer: httpServer,
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.shutdown(ctx)
}
