package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/fleetfix/fleetfix/internal/domain/ports"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// MongoDBAdapter implements the DatabaseAdapter interface for MongoDB
type MongoDBAdapter struct {
	client          *mongo.Client
	db              *mongo.Database
	config          *ports.MongoDBConfig
	vehicleRepo     ports.VehicleRepository
	maintenanceRepo ports.MaintenanceRepository
	accessoryRepo   ports.AccessoryRepository
	fuelEventRepo   ports.FuelEventRepository
	settingsRepo    ports.SettingsRepository
	lookupRepo      ports.LookupRepository
}

// NewMongoDBAdapter creates a new MongoDB database adapter
func NewMongoDBAdapter(config *ports.MongoDBConfig) *MongoDBAdapter {
	return &MongoDBAdapter{
		config: config,
	}
}

// Connect establishes a connection to the MongoDB database
func (a *MongoDBAdapter) Connect(ctx context.Context) error {
	clientOpts := options.Client().ApplyURI(a.config.URI)

	// Configure connection pool
	if a.config.MaxPoolSize > 0 {
		clientOpts.SetMaxPoolSize(uint64(a.config.MaxPoolSize))
	}
	if a.config.MinPoolSize > 0 {
		clientOpts.SetMinPoolSize(uint64(a.config.MinPoolSize))
	}
	if a.config.MaxConnIdleTime > 0 {
		clientOpts.SetMaxConnIdleTime(time.Duration(a.config.MaxConnIdleTime) * time.Second)
	}
	if a.config.ServerTimeout > 0 {
		clientOpts.SetServerSelectionTimeout(time.Duration(a.config.ServerTimeout) * time.Second)
	}

	// Set read preference
	if a.config.ReadPreference != "" {
		switch a.config.ReadPreference {
		case "primary":
			clientOpts.SetReadPreference(readpref.Primary())
		case "secondary":
			clientOpts.SetReadPreference(readpref.Secondary())
		case "primaryPreferred":
			clientOpts.SetReadPreference(readpref.PrimaryPreferred())
		case "secondaryPreferred":
			clientOpts.SetReadPreference(readpref.SecondaryPreferred())
		}
	}

	// Set write concern
	if a.config.WriteConcern == "majority" {
		clientOpts.SetWriteConcern(writeconcern.Majority())
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping to verify connection
	if err = client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to ping mongodb: %w", err)
	}

	a.client = client
	a.db = client.Database(a.config.Database)

	// Initialize repositories
	a.vehicleRepo = NewVehicleRepository(a.db)
	a.maintenanceRepo = NewMaintenanceRepository(a.db)
	a.accessoryRepo = NewAccessoryRepository(a.db)
	a.fuelEventRepo = NewFuelEventRepository(a.db)
	a.settingsRepo = NewSettingsRepository(a.db)
	a.lookupRepo = NewLookupRepository(a.db)

	// Create indexes
	if err = a.createIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

// Disconnect closes the database connection
func (a *MongoDBAdapter) Disconnect(ctx context.Context) error {
	if a.client != nil {
		return a.client.Disconnect(ctx)
	}
	return nil
}

// Ping checks if the database connection is alive
func (a *MongoDBAdapter) Ping(ctx context.Context) error {
	if a.client == nil {
		return fmt.Errorf("database not connected")
	}
	return a.client.Ping(ctx, nil)
}

// GetType returns the database type
func (a *MongoDBAdapter) GetType() ports.DatabaseType {
	return ports.DatabaseTypeMongoDB
}

// BeginTransaction starts a new database transaction (session)
func (a *MongoDBAdapter) BeginTransaction(ctx context.Context) (ports.Transaction, error) {
	session, err := a.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	err = session.StartTransaction()
	if err != nil {
		session.EndSession(ctx)
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}

	return newMongoTransaction(session, a.db), nil
}

// GetVehicleRepository returns the vehicle repository
func (a *MongoDBAdapter) GetVehicleRepository() ports.VehicleRepository {
	return a.vehicleRepo
}

// GetMaintenanceRepository returns the maintenance repository
func (a *MongoDBAdapter) GetMaintenanceRepository() ports.MaintenanceRepository {
	return a.maintenanceRepo
}

// GetAccessoryRepository returns the accessory repository
func (a *MongoDBAdapter) GetAccessoryRepository() ports.AccessoryRepository {
	return a.accessoryRepo
}

// GetFuelEventRepository returns the fuel event repository
func (a *MongoDBAdapter) GetFuelEventRepository() ports.FuelEventRepository {
	return a.fuelEventRepo
}

// GetSettingsRepository returns the settings repository
func (a *MongoDBAdapter) GetSettingsRepository() ports.SettingsRepository {
	return a.settingsRepo
}

// GetLookupRepository returns the lookup repository
func (a *MongoDBAdapter) GetLookupRepository() ports.LookupRepository {
	return a.lookupRepo
}

// HealthCheck performs a health check on the database
func (a *MongoDBAdapter) HealthCheck(ctx context.Context) error {
	if err := a.Ping(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}

	_, err := a.db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("health check query failed: %w", err)
	}

	return nil
}

// createIndexes creates necessary indexes for optimal performance
func (a *MongoDBAdapter) createIndexes(ctx context.Context) error {
	vehicleIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "plate", Value: 1}},
		},
	}

	_, err := a.db.Collection("vehicles").Indexes().CreateMany(ctx, vehicleIndexes)
	if err != nil {
		return fmt.Errorf("failed to create vehicle indexes: %w", err)
	}

	recordIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "vehicle_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
	}

	for _, name := range []string{"maintenances", "accessories"} {
		_, err = a.db.Collection(name).Indexes().CreateMany(ctx, recordIndexes)
		if err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", name, err)
		}
	}

	fuelEventIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "external_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "vehicle_id", Value: 1},
				{Key: "occurred_at", Value: -1},
			},
		},
	}

	_, err = a.db.Collection("fuel_events").Indexes().CreateMany(ctx, fuelEventIndexes)
	if err != nil {
		return fmt.Errorf("failed to create fuel event indexes: %w", err)
	}

	settingsIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "key", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err = a.db.Collection("settings").Indexes().CreateMany(ctx, settingsIndexes)
	if err != nil {
		return fmt.Errorf("failed to create settings indexes: %w", err)
	}

	return nil
}
