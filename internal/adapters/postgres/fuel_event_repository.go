package postgres

import (
	"context"
	"fmt"

	"github.com/fleetfix/fleetfix/internal/domain/models"
	"github.com/fleetfix/fleetfix/internal/domain/ports"
)

// fuelEventRepository implements the FuelEventRepository interface using PostgreSQL
type fuelEventRepository struct {
	db dbExecutor
}

// NewFuelEventRepository creates a new PostgreSQL fuel event repository
func NewFuelEventRepository(db dbExecutor) ports.FuelEventRepository {
	return &fuelEventRepository{db: db}
}

func (r *fuelEventRepository) Create(ctx context.Context, event *models.FuelEvent) error {
	query := `
		INSERT INTO fuel_events (external_id, vehicle_id, odometer, occurred_at, liters, amount, fuel_type)
		VALUES (:external_id, :vehicle_id, :odometer, :occurred_at, :liters, :amount, :fuel_type)
		RETURNING id
	`

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	if err := stmt.GetContext(ctx, &event.ID, event); err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to create fuel event: %w", err)
	}

	return nil
}

// ListExternalIDs returns the set of external ids already persisted
func (r *fuelEventRepository) ListExternalIDs(ctx context.Context) (map[int64]struct{}, error) {
	defer observe("fuel_events.list_external_ids")()
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, `SELECT external_id FROM fuel_events`); err != nil {
		return nil, fmt.Errorf("failed to list external ids: %w", err)
	}

	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return seen, nil
}

// LastByVehicle returns the most recent persisted event per vehicle
func (r *fuelEventRepository) LastByVehicle(ctx context.Context) (map[int64]*models.FuelEvent, error) {
	defer observe("fuel_events.last_by_vehicle")()
	query := `
		SELECT DISTINCT ON (vehicle_id)
		       id, external_id, vehicle_id, odometer, occurred_at, liters, amount, fuel_type
		FROM fuel_events
		ORDER BY vehicle_id, occurred_at DESC
	`

	var events []*models.FuelEvent
	if err := r.db.SelectContext(ctx, &events, query); err != nil {
		return nil, fmt.Errorf("failed to load last events: %w", err)
	}

	last := make(map[int64]*models.FuelEvent, len(events))
	for _, e := range events {
		last[e.VehicleID] = e
	}
	return last, nil
}

func (r *fuelEventRepository) ListByVehicle(ctx context.Context, vehicleID int64, limit int) ([]*models.FuelEvent, error) {
	query := `
		SELECT id, external_id, vehicle_id, odometer, occurred_at, liters, amount, fuel_type
		FROM fuel_events
		WHERE vehicle_id = $1
		ORDER BY occurred_at DESC
		LIMIT $2
	`

	var events []*models.FuelEvent
	if err := r.db.SelectContext(ctx, &events, query, vehicleID, limit); err != nil {
		return nil, fmt.Errorf("failed to list fuel events: %w", err)
	}

	return events, nil
}
