package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fleetfix/fleetfix/internal/domain/models"
	"github.com/fleetfix/fleetfix/internal/domain/ports"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// vehicleRepository implements the VehicleRepository interface using MongoDB
type vehicleRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

// NewVehicleRepository creates a new MongoDB vehicle repository
func NewVehicleRepository(db *mongo.Database) ports.VehicleRepository {
	return &vehicleRepository{
		db:         db,
		collection: db.Collection("vehicles"),
	}
}

// GetByID retrieves a vehicle by its id
func (r *vehicleRepository) GetByID(ctx context.Context, id int64) (*models.Vehicle, error) {
	var vehicle models.Vehicle

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&vehicle)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}

	return &vehicle, nil
}

// GetByCode retrieves a vehicle by its fleet code
func (r *vehicleRepository) GetByCode(ctx context.Context, code int64) (*models.Vehicle, error) {
	var vehicle models.Vehicle

	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&vehicle)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get vehicle by code: %w", err)
	}

	return &vehicle, nil
}

// Create adds a new vehicle record
func (r *vehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	id, err := nextID(ctx, r.db, "vehicles")
	if err != nil {
		return err
	}

	vehicle.ID = id
	now := time.Now()
	vehicle.CreatedAt = now
	vehicle.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, vehicle); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to create vehicle: %w", err)
	}

	return nil
}

// Update updates an existing vehicle record
func (r *vehicleRepository) Update(ctx context.Context, vehicle *models.Vehicle) error {
	vehicle.UpdatedAt = time.Now()

	update := bson.M{
		"$set": bson.M{
			"code":             vehicle.Code,
			"plate":            vehicle.Plate,
			"model":            vehicle.Model,
			"manufacturer":     vehicle.Manufacturer,
			"current_odometer": vehicle.CurrentOdometer,
			"updated_at":       vehicle.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": vehicle.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update vehicle: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

// UpdateOdometer sets the current odometer for a vehicle
func (r *vehicleRepository) UpdateOdometer(ctx context.Context, id int64, odometer float64) error {
	update := bson.M{
		"$set": bson.M{
			"current_odometer": odometer,
			"updated_at":       time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update odometer: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a vehicle record
func (r *vehicleRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}

// List retrieves all vehicles ordered by code
func (r *vehicleRepository) List(ctx context.Context) ([]*models.Vehicle, error) {
	opts := options.Find().SetSort(bson.D{{Key: "code", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	defer cursor.Close(ctx)

	var vehicles []*models.Vehicle
	if err = cursor.All(ctx, &vehicles); err != nil {
		return nil, fmt.Errorf("failed to decode vehicles: %w", err)
	}

	return vehicles, nil
}
