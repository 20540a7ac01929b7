package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/fleetfix/fleetfix/internal/domain/ports"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresAdapter implements the DatabaseAdapter interface for PostgreSQL
type PostgresAdapter struct {
	db              *sqlx.DB
	config          *ports.PostgresConfig
	vehicleRepo     ports.VehicleRepository
	maintenanceRepo ports.MaintenanceRepository
	accessoryRepo   ports.AccessoryRepository
	fuelEventRepo   ports.FuelEventRepository
	settingsRepo    ports.SettingsRepository
	lookupRepo      ports.LookupRepository
}

// NewPostgresAdapter creates a new PostgreSQL database adapter
func NewPostgresAdapter(config *ports.PostgresConfig) *PostgresAdapter {
	return &PostgresAdapter{
		config: config,
	}
}

// Connect establishes a connection to the PostgreSQL database
func (a *PostgresAdapter) Connect(ctx context.Context) error {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		a.config.Host,
		a.config.Port,
		a.config.User,
		a.config.Password,
		a.config.Database,
		a.config.SSLMode,
	)

	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(a.config.MaxOpenConns)
	db.SetMaxIdleConns(a.config.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(a.config.ConnMaxLifetime) * time.Second)
	db.SetConnMaxIdleTime(time.Duration(a.config.ConnMaxIdleTime) * time.Second)

	a.db = db

	// Initialize repositories
	a.vehicleRepo = NewVehicleRepository(db)
	a.maintenanceRepo = NewMaintenanceRepository(db)
	a.accessoryRepo = NewAccessoryRepository(db)
	a.fuelEventRepo = NewFuelEventRepository(db)
	a.settingsRepo = NewSettingsRepository(db)
	a.lookupRepo = NewLookupRepository(db)

	return nil
}

// Disconnect closes the database connection
func (a *PostgresAdapter) Disconnect(ctx context.Context) error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (a *PostgresAdapter) Ping(ctx context.Context) error {
	if a.db == nil {
		return fmt.Errorf("database not connected")
	}
	return a.db.PingContext(ctx)
}

// GetType returns the database type
func (a *PostgresAdapter) GetType() ports.DatabaseType {
	return ports.DatabaseTypePostgreSQL
}

// BeginTransaction starts a new database transaction
func (a *PostgresAdapter) BeginTransaction(ctx context.Context) (ports.Transaction, error) {
	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return &postgresTransaction{
		tx:            tx,
		vehicleRepo:   NewVehicleRepository(tx),
		fuelEventRepo: NewFuelEventRepository(tx),
	}, nil
}

// GetVehicleRepository returns the vehicle repository
func (a *PostgresAdapter) GetVehicleRepository() ports.VehicleRepository {
	return a.vehicleRepo
}

// GetMaintenanceRepository returns the maintenance repository
func (a *PostgresAdapter) GetMaintenanceRepository() ports.MaintenanceRepository {
	return a.maintenanceRepo
}

// GetAccessoryRepository returns the accessory repository
func (a *PostgresAdapter) GetAccessoryRepository() ports.AccessoryRepository {
	return a.accessoryRepo
}

// GetFuelEventRepository returns the fuel event repository
func (a *PostgresAdapter) GetFuelEventRepository() ports.FuelEventRepository {
	return a.fuelEventRepo
}

// GetSettingsRepository returns the settings repository
func (a *PostgresAdapter) GetSettingsRepository() ports.SettingsRepository {
	return a.settingsRepo
}

// GetLookupRepository returns the lookup repository
func (a *PostgresAdapter) GetLookupRepository() ports.LookupRepository {
	return a.lookupRepo
}

// HealthCheck performs a health check on the database
func (a *PostgresAdapter) HealthCheck(ctx context.Context) error {
	if err := a.Ping(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}

	var result int
	err := a.db.GetContext(ctx, &result, "SELECT 1")
	if err != nil {
		return fmt.Errorf("health check query failed: %w", err)
	}

	return nil
}

// postgresTransaction implements the Transaction interface
type postgresTransaction struct {
	tx            *sqlx.Tx
	vehicleRepo   ports.VehicleRepository
	fuelEventRepo ports.FuelEventRepository
}

// Commit commits the transaction
func (t *postgresTransaction) Commit(ctx context.Context) error {
	return t.tx.Commit()
}

// Rollback rolls back the transaction
func (t *postgresTransaction) Rollback(ctx context.Context) error {
	return t.tx.Rollback()
}

// GetVehicleRepository returns a transactional vehicle repository
func (t *postgresTransaction) GetVehicleRepository() ports.VehicleRepository {
	return t.vehicleRepo
}

// GetFuelEventRepository returns a transactional fuel event repository
func (t *postgresTransaction) GetFuelEventRepository() ports.FuelEventRepository {
	return t.fuelEventRepo
}
