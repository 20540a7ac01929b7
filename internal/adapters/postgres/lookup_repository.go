package postgres

import (
	"context"
	"fmt"

	"github.com/fleetfix/fleetfix/internal/domain/models"
	"github.com/fleetfix/fleetfix/internal/domain/ports"
)

// lookupRepository implements the LookupRepository interface using PostgreSQL
type lookupRepository struct {
	db dbExecutor
}

// NewLookupRepository creates a new PostgreSQL lookup repository
func NewLookupRepository(db dbExecutor) ports.LookupRepository {
	return &lookupRepository{db: db}
}

func lookupTable(kind models.LookupKind) (string, error) {
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
	table, err := lookupTable(kind)
	if err != nil {
		return nil, err
	}

	var lookups []*models.Lookup
	query := fmt.Sprintf(`SELECT id, name FROM %s ORDER BY name`, table)
	if err := r.db.SelectContext(ctx, &lookups, query); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}

	return lookups, nil
}

func (r *lookupRepository) Create(ctx context.Context, kind models.LookupKind, name string) (*models.Lookup, error) {
	table, err := lookupTable(kind)
	if err != nil {
		return nil, err
	}

	lookup := &models.Lookup{Name: name}
	query := fmt.Sprintf(`INSERT INTO %s (name) VALUES ($1) RETURNING id`, table)
	if err := r.db.GetContext(ctx, &lookup.ID, query, name); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to create %s entry: %w", table, err)
	}

	return lookup, nil
}

func (r *lookupRepository) Delete(ctx context.Context, kind models.LookupKind, id int64) error {
	table, err := lookupTable(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table)
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s entry: %w", table, err)
	}

	return requireRowsAffected(result)
}
