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

// lookupRepository implements the LookupRepository interface using MongoDB
type lookupRepository struct {
	db *mongo.Database
}

// NewLookupRepository creates a new MongoDB lookup repository
func NewLookupRepository(db *mongo.Database) ports.LookupRepository {
	return &lookupRepository{db: db}
}

func lookupCollection(kind models.LookupKind) (string, error) {
	switch kind {
	case models.LookupCategory:
		return "categories", nil
	case models.LookupResponsible:
		return "responsibles", nil
	case models.LookupWorkshop:
		return "workshops", nil
	default:
		return "", fmt.Errorf("unknown lookup kind %q", kind)
	}
}

func (r *lookupRepository) List(ctx context.Context, kind models.LookupKind) ([]*models.Lookup, error) {
	name, err := lookupCollection(kind)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.db.Collection(name).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", name, err)
	}
	defer cursor.Close(ctx)

	var lookups []*models.Lookup
	if err = cursor.All(ctx, &lookups); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}

	return lookups, nil
}

func (r *lookupRepository) Create(ctx context.Context, kind models.LookupKind, name string) (*models.Lookup, error) {
	collection, err := lookupCollection(kind)
	if err != nil {
		return nil, err
	}

	id, err := nextID(ctx, r.db, collection)
	if err != nil {
		return nil, err
	}

	lookup := &models.Lookup{ID: id, Name: name}
	if _, err := r.db.Collection(collection).InsertOne(ctx, lookup); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to create %s entry: %w", collection, err)
	}

	return lookup, nil
}

func (r *lookupRepository) Delete(ctx context.Context, kind models.LookupKind, id int64) error {
	name, err := lookupCollection(kind)
	if err != nil {
		return err
	}

	result, err := r.db.Collection(name).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete %s entry: %w", name, err)
	}

	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}
