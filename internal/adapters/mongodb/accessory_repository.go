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

// accessoryRepository implements the AccessoryRepository interface using MongoDB
type accessoryRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

// NewAccessoryRepository creates a new MongoDB accessory repository
func NewAccessoryRepository(db *mongo.Database) ports.AccessoryRepository {
	return &accessoryRepository{
		db:         db,
		collection: db.Collection("accessories"),
	}
}

func (r *accessoryRepository) GetByID(ctx context.Context, id int64) (*models.Accessory, error) {
	var accessory models.Accessory

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&accessory)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get accessory: %w", err)
	}

	return &accessory, nil
}

func (r *accessoryRepository) Create(ctx context.Context, accessory *models.Accessory) error {
	id, err := nextID(ctx, r.db, "accessories")
	if err != nil {
		return err
	}

	accessory.ID = id
	if _, err := r.collection.InsertOne(ctx, accessory); err != nil {
		return fmt.Errorf("failed to create accessory: %w", err)
	}

	return nil
}

func (r *accessoryRepository) Update(ctx context.Context, accessory *models.Accessory) error {
	update := bson.M{
		"$set": bson.M{
			"vehicle_id":       accessory.VehicleID,
			"name":             accessory.Name,
			"install_date":     accessory.InstallDate,
			"install_odometer": accessory.InstallOdometer,
			"description":      accessory.Description,
			"has_expiry":       accessory.HasExpiry,
			"expiry_date":      accessory.ExpiresOn,
			"expiry_km":        accessory.ExpiresAtKM,
			"status":           accessory.Status,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": accessory.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update accessory: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *accessoryRepository) UpdateStatus(ctx context.Context, id int64, status models.RecordStatus) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"status": status},
	})
	if err != nil {
		return fmt.Errorf("failed to update accessory status: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *accessoryRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete accessory: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *accessoryRepository) List(ctx context.Context) ([]*models.Accessory, error) {
	return r.find(ctx, bson.M{})
}

func (r *accessoryRepository) ListByVehicle(ctx context.Context, vehicleID int64) ([]*models.Accessory, error) {
	return r.find(ctx, bson.M{"vehicle_id": vehicleID})
}

func (r *accessoryRepository) find(ctx context.Context, filter bson.M) ([]*models.Accessory, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "install_date", Value: -1},
		{Key: "_id", Value: -1},
	})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list accessories: %w", err)
	}
	defer cursor.Close(ctx)

	var accessories []*models.Accessory
	if err = cursor.All(ctx, &accessories); err != nil {
		return nil, fmt.Errorf("failed to decode accessories: %w", err)
	}

	return accessories, nil
}
