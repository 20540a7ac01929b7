package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fleetfix/fleetfix/internal/domain/models"
	"github.com/fleetfix/fleetfix/internal/domain/ports"
	"github.com/lib/pq"
)

var (
	ErrNotFound      = ports.ErrNotFound
	ErrAlreadyExists = ports.ErrAlreadyExists
)

// vehicleRepository implements the VehicleRepository interface using PostgreSQL
type vehicleRepository struct {
	db dbExecutor
}

// NewVehicleRepository creates a new PostgreSQL vehicle repository
func NewVehicleRepository(db dbExecutor) ports.VehicleRepository {
	return &vehicleRepository{db: db}
}

// GetByID retrieves a vehicle by internal id
func (r *vehicleRepository) GetByID(ctx context.Context, id int64) (*models.Vehicle, error) {
	defer observe("vehicles.get")()
	query := `
		SELECT id, code, plate, model, manufacturer, current_odometer, created_at, updated_at
		FROM vehicles
		WHERE id = $1
	`

	var vehicle models.Vehicle
	err := r.db.GetContext(ctx, &vehicle, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}

	return &vehicle, nil
}

// GetByCode retrieves a vehicle by its external fleet code
func (r *vehicleRepository) GetByCode(ctx context.Context, code int64) (*models.Vehicle, error) {
	query := `
		SELECT id, code, plate, model, manufacturer, current_odometer, created_at, updated_at
		FROM vehicles
		WHERE code = $1
	`

	var vehicle models.Vehicle
	err := r.db.GetContext(ctx, &vehicle, query, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get vehicle by code: %w", err)
	}

	return &vehicle, nil
}

// Create adds a new vehicle record
func (r *vehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	query := `
		INSERT INTO vehicles (code, plate, model, manufacturer, current_odometer, created_at, updated_at)
		VALUES (:code, :plate, :model, :manufacturer, :current_odometer, :created_at, :updated_at)
		RETURNING id
	`

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	err = stmt.GetContext(ctx, &vehicle.ID, vehicle)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to create vehicle: %w", err)
	}

	return nil
}

// Update updates an existing vehicle record
func (r *vehicleRepository) Update(ctx context.Context, vehicle *models.Vehicle) error {
	query := `
		UPDATE vehicles
		SET code = :code,
		    plate = :plate,
		    model = :model,
		    manufacturer = :manufacturer,
		    current_odometer = :current_odometer,
		    updated_at = :updated_at
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, vehicle)
	if err != nil {
		return fmt.Errorf("failed to update vehicle: %w", err)
	}

	return requireRowsAffected(result)
}

// UpdateOdometer sets the authoritative odometer for a vehicle
func (r *vehicleRepository) UpdateOdometer(ctx context.Context, id int64, odometer float64) error {
	defer observe("vehicles.update_odometer")()
	query := `UPDATE vehicles SET current_odometer = $1, updated_at = now() WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, odometer, id)
	if err != nil {
		return fmt.Errorf("failed to update odometer: %w", err)
	}

	return requireRowsAffected(result)
}

// Delete removes a vehicle record by id
func (r *vehicleRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}

	return requireRowsAffected(result)
}

// List retrieves all vehicles ordered by code
func (r *vehicleRepository) List(ctx context.Context) ([]*models.Vehicle, error) {
	defer observe("vehicles.list")()
	query := `
		SELECT id, code, plate, model, manufacturer, current_odometer, created_at, updated_at
		FROM vehicles
		ORDER BY code
	`

	var vehicles []*models.Vehicle
	if err := r.db.SelectContext(ctx, &vehicles, query); err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}

	return vehicles, nil
}

// requireRowsAffected maps zero-row writes to ErrNotFound
func requireRowsAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// isUniqueViolation reports whether err is a unique-constraint violation
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
