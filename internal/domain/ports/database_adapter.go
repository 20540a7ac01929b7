package ports

import (
	"context"
)

// DatabaseType represents the type of database backend
type DatabaseType string

const (
	DatabaseTypePostgreSQL DatabaseType = "postgres"
	DatabaseTypeMongoDB    DatabaseType = "mongodb"
	DatabaseTypeMemory     DatabaseType = "memory"
)

// DatabaseAdapter defines the unified interface for database operations.
// It provides a common abstraction over the PostgreSQL, MongoDB, and
// in-memory implementations.
type DatabaseAdapter interface {
	// Connect establishes a connection to the database
	Connect(ctx context.Context) error

	// Disconnect closes the database connection
	Disconnect(ctx context.Context) error

	// Ping checks if the database connection is alive
	Ping(ctx context.Context) error

	// GetType returns the database type
	GetType() DatabaseType

	// BeginTransaction starts a store transaction. Reconciliation commits
	// run entirely inside one transaction: all-or-nothing.
	BeginTransaction(ctx context.Context) (Transaction, error)

	// Repository factory methods
	GetVehicleRepository() VehicleRepository
	GetMaintenanceRepository() MaintenanceRepository
	GetAccessoryRepository() AccessoryRepository
	GetFuelEventRepository() FuelEventRepository
	GetSettingsRepository() SettingsRepository
	GetLookupRepository() LookupRepository

	// HealthCheck performs a liveness probe against the store
	HealthCheck(ctx context.Context) error
}

// Transaction represents a store transaction scoped to the repositories
// the reconciler mutates
type Transaction interface {
	// Commit commits the transaction
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction
	Rollback(ctx context.Context) error

	// GetVehicleRepository returns a transactional vehicle repository
	GetVehicleRepository() VehicleRepository

	// GetFuelEventRepository returns a transactional fuel event repository
	GetFuelEventRepository() FuelEventRepository
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Type           DatabaseType    `yaml:"type" json:"type"`
	PostgresConfig *PostgresConfig `yaml:"postgres,omitempty" json:"postgres,omitempty"`
	MongoDBConfig  *MongoDBConfig  `yaml:"mongodb,omitempty" json:"mongodb,omitempty"`
}

// PostgresConfig holds PostgreSQL-specific configuration
type PostgresConfig struct {
	Host            string `yaml:"host" json:"host"`
	Port            int    `yaml:"port" json:"port"`
	User            string `yaml:"user" json:"user"`
	Password        string `yaml:"password" json:"password"`
	Database        string `yaml:"database" json:"database"`
	SSLMode         string `yaml:"ssl_mode" json:"ssl_mode"`
	MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime"` // seconds
	ConnMaxIdleTime int    `yaml:"conn_max_idle_time" json:"conn_max_idle_time"` // seconds
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI             string `yaml:"uri" json:"uri"`
	Database        string `yaml:"database" json:"database"`
	MaxPoolSize     int    `yaml:"max_pool_size" json:"max_pool_size"`
	MinPoolSize     int    `yaml:"min_pool_size" json:"min_pool_size"`
	MaxConnIdleTime int    `yaml:"max_conn_idle_time" json:"max_conn_idle_time"` // seconds
	ServerTimeout   int    `yaml:"server_timeout" json:"server_timeout"`         // seconds
	SocketTimeout   int    `yaml:"socket_timeout" json:"socket_timeout"`         // seconds
	ReadPreference  string `yaml:"read_preference" json:"read_preference"`
	WriteConcern    string `yaml:"write_concern" json:"write_concern"`
}
