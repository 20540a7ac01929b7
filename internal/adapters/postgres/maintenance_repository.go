package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fleetfix/fleetfix/internal/domain/models"
	"github.com/fleetfix/fleetfix/internal/domain/ports"
)

const maintenanceColumns = `id, vehicle_id, category, responsible, workshop, type, service_date,
	       service_odometer, cost, description, has_expiry, expiry_date, expiry_km, status, completed_at`

// maintenanceRepository implements the MaintenanceRepository interface using PostgreSQL
type maintenanceRepository struct {
	db dbExecutor
}

// NewMaintenanceRepository creates a new PostgreSQL maintenance repository
func NewMaintenanceRepository(db dbExecutor) ports.MaintenanceRepository {
	return &maintenanceRepository{db: db}
}

func (r *maintenanceRepository) GetByID(ctx context.Context, id int64) (*models.Maintenance, error) {
	query := fmt.Sprintf(`SELECT %s FROM maintenances WHERE id = $1`, maintenanceColumns)

	var m models.Maintenance
	err := r.db.GetContext(ctx, &m, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get maintenance: %w", err)
	}

	return &m, nil
}

func (r *maintenanceRepository) Create(ctx context.Context, m *models.Maintenance) error {
	query := `
		INSERT INTO maintenances (
			vehicle_id, category, responsible, workshop, type, service_date,
			service_odometer, cost, description, has_expiry, expiry_date, expiry_km,
			status, completed_at
		) VALUES (
			:vehicle_id, :category, :responsible, :workshop, :type, :service_date,
			:service_odometer, :cost, :description, :has_expiry, :expiry_date, :expiry_km,
			:status, :completed_at
		) RETURNING id
	`

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	if err := stmt.GetContext(ctx, &m.ID, m); err != nil {
		return fmt.Errorf("failed to create maintenance: %w", err)
	}

	return nil
}

func (r *maintenanceRepository) Update(ctx context.Context, m *models.Maintenance) error {
	query := `
		UPDATE maintenances
		SET vehicle_id = :vehicle_id,
		    category = :category,
		    responsible = :responsible,
		    workshop = :workshop,
		    type = :type,
		    service_date = :service_date,
		    service_odometer = :service_odometer,
		    cost = :cost,
		    description = :description,
		    has_expiry = :has_expiry,
		    expiry_date = :expiry_date,
		    expiry_km = :expiry_km,
		    status = :status,
		    completed_at = :completed_at
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, m)
	if err != nil {
		return fmt.Errorf("failed to update maintenance: %w", err)
	}

	return requireRowsAffected(result)
}

func (r *maintenanceRepository) UpdateStatus(ctx context.Context, id int64, status models.RecordStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE maintenances SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update maintenance status: %w", err)
	}

	return requireRowsAffected(result)
}

func (r *maintenanceRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM maintenances WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete maintenance: %w", err)
	}

	return requireRowsAffected(result)
}

func (r *maintenanceRepository) List(ctx context.Context) ([]*models.Maintenance, error) {
	query := fmt.Sprintf(`SELECT %s FROM maintenances ORDER BY service_date DESC, id DESC`, maintenanceColumns)

	var maintenances []*models.Maintenance
	if err := r.db.SelectContext(ctx, &maintenances, query); err != nil {
		return nil, fmt.Errorf("failed to list maintenances: %w", err)
	}

	return maintenances, nil
}

func (r *maintenanceRepository) ListByVehicle(ctx context.Context, vehicleID int64) ([]*models.Maintenance, error) {
	query := fmt.Sprintf(`SELECT %s FROM maintenances WHERE vehicle_id = $1 ORDER BY service_date DESC, id DESC`, maintenanceColumns)

	var maintenances []*models.Maintenance
	if err := r.db.SelectContext(ctx, &maintenances, query, vehicleID); err != nil {
		return nil, fmt.Errorf("failed to list maintenances by vehicle: %w", err)
	}

	return maintenances, nil
}
