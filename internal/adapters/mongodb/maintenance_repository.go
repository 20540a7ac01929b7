package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/fleetfix/fleetfix/internal/domain/models"
	"github.com/fleetfix/fleetfix/internal/domain/ports"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// maintenanceRepository implements the MaintenanceRepository interface using MongoDB
type maintenanceRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

// NewMaintenanceRepository creates a new MongoDB maintenance repository
func NewMaintenanceRepository(db *mongo.Database) ports.MaintenanceRepository {
	return &maintenanceRepository{
		db:         db,
		collection: db.Collection("maintenances"),
	}
}

func (r *maintenanceRepository) GetByID(ctx context.Context, id int64) (*models.Maintenance, error) {
	var maintenance models.Maintenance

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&maintenance)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get maintenance: %w", err)
	}

	return &maintenance, nil
}

func (r *maintenanceRepository) Create(ctx context.Context, maintenance *models.Maintenance) error {
	id, err := nextID(ctx, r.db, "maintenances")
	if err != nil {
		return err
	}

	maintenance.ID = id
	if _, err := r.collection.InsertOne(ctx, maintenance); err != nil {
		return fmt.Errorf("failed to create maintenance: %w", err)
	}

	return nil
}

func (r *maintenanceRepository) Update(ctx context.Context, maintenance *models.Maintenance) error {
	update := bson.M{
		"$set": bson.M{
			"vehicle_id":       maintenance.VehicleID,
			"category":         maintenance.Category,
			"responsible":      maintenance.Responsible,
			"workshop":         maintenance.Workshop,
			"type":             maintenance.Type,
			"service_date":     maintenance.ServiceDate,
			"service_odometer": maintenance.ServiceOdometer,
			"cost":             maintenance.Cost,
			"description":      maintenance.Description,
			"has_expiry":       maintenance.HasExpiry,
			"expiry_date":      maintenance.ExpiresOn,
			"expiry_km":        maintenance.ExpiresAtKM,
			"status":           maintenance.Status,
			"completed_at":     maintenance.CompletedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": maintenance.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update maintenance: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *maintenanceRepository) UpdateStatus(ctx context.Context, id int64, status models.RecordStatus) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"status": status},
	})
	if err != nil {
		return fmt.Errorf("failed to update maintenance status: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *maintenanceRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete maintenance: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *maintenanceRepository) List(ctx context.Context) ([]*models.Maintenance, error) {
	return r.find(ctx, bson.M{})
}

func (r *maintenanceRepository) ListByVehicle(ctx context.Context, vehicleID int64) ([]*models.Maintenance, error) {
	return r.find(ctx, bson.M{"vehicle_id": vehicleID})
}

func (r *maintenanceRepository) find(ctx context.Context, filter bson.M) ([]*models.Maintenance, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "service_date", Value: -1},
		{Key: "_id", Value: -1},
	})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list maintenances: %w", err)
	}
	defer cursor.Close(ctx)

	var maintenances []*models.Maintenance
	if err = cursor.All(ctx, &maintenances); err != nil {
		return nil, fmt.Errorf("failed to decode maintenances: %w", err)
	}

	return maintenances, nil
}
