package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/fleetfix/fleetfix/internal/domain/models"
	"github.com/fleetfix/fleetfix/internal/domain/ports"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// settingsRepository implements the SettingsRepository interface using MongoDB
type settingsRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

// NewSettingsRepository creates a new MongoDB settings repository
func NewSettingsRepository(db *mongo.Database) ports.SettingsRepository {
	return &settingsRepository{
		db:         db,
		collection: db.Collection("settings"),
	}
}

// Get returns the stored value for key, or fallback when no document exists.
func (r *settingsRepository) Get(ctx context.Context, key string, fallback float64) (float64, error) {
	var setting models.Setting

	err := r.collection.FindOne(ctx, bson.M{"key": key}).Decode(&setting)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fallback, nil
		}
		return 0, fmt.Errorf("failed to get setting %q: %w", key, err)
	}

	return setting.Value, nil
}

func (r *settingsRepository) Put(ctx context.Context, key string, value float64) error {
	var existing models.Setting
	err := r.collection.FindOne(ctx, bson.M{"key": key}).Decode(&existing)
	if err == nil {
		_, err = r.collection.UpdateOne(ctx, bson.M{"_id": existing.ID}, bson.M{
			"$set": bson.M{"value": value},
		})
		if err != nil {
			return fmt.Errorf("failed to update setting %q: %w", key, err)
		}
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("failed to check setting %q: %w", key, err)
	}

	id, err := nextID(ctx, r.db, "settings")
	if err != nil {
		return err
	}

	setting := &models.Setting{ID: id, Key: key, Value: value}
	if _, err := r.collection.InsertOne(ctx, setting); err != nil {
		return fmt.Errorf("failed to put setting %q: %w", key, err)
	}

	return nil
}
