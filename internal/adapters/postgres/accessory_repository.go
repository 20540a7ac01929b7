package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fleetfix/fleetfix/internal/domain/models"
	"github.com/fleetfix/fleetfix/internal/domain/ports"
)

const accessoryColumns = `id, vehicle_id, name, install_date, install_odometer, description,
	       has_expiry, expiry_date, expiry_km, status`

// accessoryRepository implements the AccessoryRepository interface using PostgreSQL
type accessoryRepository struct {
	db dbExecutor
}

// NewAccessoryRepository creates a new PostgreSQL accessory repository
func NewAccessoryRepository(db dbExecutor) ports.AccessoryRepository {
	return &accessoryRepository{db: db}
}

func (r *accessoryRepository) GetByID(ctx context.Context, id int64) (*models.Accessory, error) {
	query := fmt.Sprintf(`SELECT %s FROM accessories WHERE id = $1`, accessoryColumns)

	var a models.Accessory
	err := r.db.GetContext(ctx, &a, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get accessory: %w", err)
	}

	return &a, nil
}

func (r *accessoryRepository) Create(ctx context.Context, a *models.Accessory) error {
	query := `
		INSERT INTO accessories (
			vehicle_id, name, install_date, install_odometer, description,
			has_expiry, expiry_date, expiry_km, status
		) VALUES (
			:vehicle_id, :name, :install_date, :install_odometer, :description,
			:has_expiry, :expiry_date, :expiry_km, :status
		) RETURNING id
	`

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	if err := stmt.GetContext(ctx, &a.ID, a); err != nil {
		return fmt.Errorf("failed to create accessory: %w", err)
	}

	return nil
}

func (r *accessoryRepository) Update(ctx context.Context, a *models.Accessory) error {
	query := `
		UPDATE accessories
		SET vehicle_id = :vehicle_id,
		    name = :name,
		    install_date = :install_date,
		    install_odometer = :install_odometer,
		    description = :description,
		    has_expiry = :has_expiry,
		    expiry_date = :expiry_date,
		    expiry_km = :expiry_km,
		    status = :status
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, a)
	if err != nil {
		return fmt.Errorf("failed to update accessory: %w", err)
	}

	return requireRowsAffected(result)
}

func (r *accessoryRepository) UpdateStatus(ctx context.Context, id int64, status models.RecordStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE accessories SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update accessory status: %w", err)
	}

	return requireRowsAffected(result)
}

func (r *accessoryRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM accessories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete accessory: %w", err)
	}

	return requireRowsAffected(result)
}

func (r *accessoryRepository) List(ctx context.Context) ([]*models.Accessory, error) {
	query := fmt.Sprintf(`SELECT %s FROM accessories ORDER BY install_date DESC, id DESC`, accessoryColumns)

	var accessories []*models.Accessory
	if err := r.db.SelectContext(ctx, &accessories, query); err != nil {
		return nil, fmt.Errorf("failed to list accessories: %w", err)
	}

	return accessories, nil
}

func (r *accessoryRepository) ListByVehicle(ctx context.Context, vehicleID int64) ([]*models.Accessory, error) {
	query := fmt.Sprintf(`SELECT %s FROM accessories WHERE vehicle_id = $1 ORDER BY install_date DESC, id DESC`, accessoryColumns)

	var accessories []*models.Accessory
	if err := r.db.SelectContext(ctx, &accessories, query, vehicleID); err != nil {
		return nil, fmt.Errorf("failed to list accessories by vehicle: %w", err)
	}

	return accessories, nil
}
