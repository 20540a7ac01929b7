package main

import (
	"context"
	"fmt"

	"github.com/fleetfix/fleetfix/internal/adapters/factory"
	httpAdapter "github.com/fleetfix/fleetfix/internal/adapters/http"
	"github.com/fleetfix/fleetfix/internal/adapters/telemetry"
	"github.com/fleetfix/fleetfix/internal/config"
	"github.com/fleetfix/fleetfix/internal/domain/ports"
	"github.com/fleetfix/fleetfix/internal/domain/service"
	"github.com/fleetfix/fleetfix/internal/logger"
)

// Application holds the application state
type Application struct {
	cfg        *config.Config
	logger     logger.Logger
	store      ports.DatabaseAdapter
	httpServer *httpAdapter.Server
}

// databaseConfig maps the loaded configuration onto the adapter factory's
// config shape
func databaseConfig(cfg *config.Config) *ports.DatabaseConfig {
	switch cfg.Database.Type {
	case "mongodb":
		return &ports.DatabaseConfig{
			Type: ports.DatabaseTypeMongoDB,
			MongoDBConfig: &ports.MongoDBConfig{
				URI:             cfg.Database.MongoDB.URI,
				Database:        cfg.Database.MongoDB.Database,
				MaxPoolSize:     cfg.Database.MongoDB.MaxPoolSize,
				MinPoolSize:     cfg.Database.MongoDB.MinPoolSize,
				MaxConnIdleTime: int(cfg.Database.MongoDB.MaxConnIdleTime.Seconds()),
				ServerTimeout:   int(cfg.Database.MongoDB.ServerTimeout.Seconds()),
				SocketTimeout:   int(cfg.Database.MongoDB.SocketTimeout.Seconds()),
			},
		}
	case "memory":
		return &ports.DatabaseConfig{Type: ports.DatabaseTypeMemory}
	default:
		return &ports.DatabaseConfig{
			Type: ports.DatabaseTypePostgreSQL,
			PostgresConfig: &ports.PostgresConfig{
				Host:            cfg.Database.Postgres.Host,
				Port:            cfg.Database.Postgres.Port,
				User:            cfg.Database.Postgres.User,
				Password:        cfg.Database.Postgres.Password,
				Database:        cfg.Database.Postgres.Database,
				SSLMode:         cfg.Database.Postgres.SSLMode,
				MaxOpenConns:    cfg.Database.Postgres.MaxOpenConns,
				MaxIdleConns:    cfg.Database.Postgres.MaxIdleConns,
				ConnMaxLifetime: int(cfg.Database.Postgres.ConnMaxLifetime.Seconds()),
				ConnMaxIdleTime: int(cfg.Database.Postgres.ConnMaxIdleTime.Seconds()),
			},
		}
	}
}

// initializeStore creates and connects the configured record store
func initializeStore(ctx context.Context, cfg *config.Config, log logger.Logger) (ports.DatabaseAdapter, error) {
	f := factory.NewDatabaseAdapterFactory()
	dbConfig := databaseConfig(cfg)

	if err := f.ValidateConfig(dbConfig); err != nil {
		return nil, fmt.Errorf("invalid database configuration: %w", err)
	}

	store, err := f.CreateAndConnectAdapter(ctx, dbConfig)
	if err != nil {
		return nil, err
	}
	log.Infow("✓ Record store connected", "type", store.GetType())
	return store, nil
}

// initializeServices wires the domain services over the store and the
// external fueling API client
func initializeServices(cfg *config.Config, store ports.DatabaseAdapter, log logger.Logger) (ports.FleetService, ports.SyncService) {
	fleetService := service.NewFleetService(store)

	source := telemetry.NewClient(cfg.Telemetry, logger.New("telemetry-client"))
	syncService := service.NewSyncService(store, source)

	log.Info("✓ Fleet services initialized")
	return fleetService, syncService
}

// initializeHTTPServer configures and starts the HTTP server
func initializeHTTPServer(cfg *config.Config, fleetService ports.FleetService, syncService ports.SyncService, store ports.DatabaseAdapter, log logger.Logger) (*httpAdapter.Server, error) {
	httpServerConfig := httpAdapter.ServerConfig{
		ListenAddr:   fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		EnableH2C:    cfg.Server.EnableH2C,
	}

	httpServer := httpAdapter.NewServer(httpServerConfig, fleetService, syncService, store)

	if err := httpServer.Start(); err != nil {
		return nil, fmt.Errorf("failed to start HTTP server: %w", err)
	}

	log.Infow("✓ HTTP server listening", "address", httpServer.GetAddr())
	return httpServer, nil
}

// shutdown performs graceful shutdown of all services
func (app *Application) shutdown(ctx context.Context) {
	app.logger.Info("Shutting down...")

	if err := app.httpServer.Stop(); err != nil {
		app.logger.Errorw("HTTP server shutdown error", "error", err)
	}

	if err := app.store.Disconnect(ctx); err != nil {
		app.logger.Errorw("Record store disconnect error", "error", err)
	}

	app.logger.Info("Stopped gracefully")
}
