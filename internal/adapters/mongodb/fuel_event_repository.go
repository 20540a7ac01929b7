package mongodb

import (
	"context"
	"fmt"

	"github.com/fleetfix/fleetfix/internal/domain/models"
	"github.com/fleetfix/fleetfix/internal/domain/ports"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// fuelEventRepository implements the FuelEventRepository interface using MongoDB
type fuelEventRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

// NewFuelEventRepository creates a new MongoDB fuel event repository
func NewFuelEventRepository(db *mongo.Database) ports.FuelEventRepository {
	return &fuelEventRepository{
		db:         db,
		collection: db.Collection("fuel_events"),
	}
}

func (r *fuelEventRepository) Create(ctx context.Context, event *models.FuelEvent) error {
	id, err := nextID(ctx, r.db, "fuel_events")
	if err != nil {
		return err
	}

	event.ID = id
	if _, err := r.collection.InsertOne(ctx, event); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to create fuel event: %w", err)
	}

	return nil
}

// ListExternalIDs returns the set of external ids already persisted
func (r *fuelEventRepository) ListExternalIDs(ctx context.Context) (map[int64]struct{}, error) {
	opts := options.Find().SetProjection(bson.M{"external_id": 1})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list external ids: %w", err)
	}
	defer cursor.Close(ctx)

	seen := make(map[int64]struct{})
	for cursor.Next(ctx) {
		var doc struct {
			ExternalID int64 `bson:"external_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode external id: %w", err)
		}
		seen[doc.ExternalID] = struct{}{}
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate external ids: %w", err)
	}

	return seen, nil
}

// LastByVehicle returns the most recent persisted event per vehicle
func (r *fuelEventRepository) LastByVehicle(ctx context.Context) (map[int64]*models.FuelEvent, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "occurred_at", Value: -1}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$vehicle_id"},
			{Key: "event", Value: bson.D{{Key: "$first", Value: "$$ROOT"}}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to load last events: %w", err)
	}
	defer cursor.Close(ctx)

	last := make(map[int64]*models.FuelEvent)
	for cursor.Next(ctx) {
		var doc struct {
			Event models.FuelEvent `bson:"event"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode last event: %w", err)
		}
		event := doc.Event
		last[event.VehicleID] = &event
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate last events: %w", err)
	}

	return last, nil
}

func (r *fuelEventRepository) ListByVehicle(ctx context.Context, vehicleID int64, limit int) ([]*models.FuelEvent, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "occurred_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"vehicle_id": vehicleID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list fuel events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*models.FuelEvent
	if err = cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode fuel events: %w", err)
	}

	return events, nil
}
