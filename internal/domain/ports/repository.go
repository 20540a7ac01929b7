package ports

import (
	"context"
	"errors"

	"github.com/fleetfix/fleetfix/internal/domain/models"
)

// Storage sentinels shared by every adapter. Callers match on these
// without importing a concrete backend.
var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)

// VehicleRepository defines data access for vehicles.
// This is a port owned by the domain layer.
type VehicleRepository interface {
	// GetByID retrieves a vehicle by internal id
	GetByID(ctx context.Context, id int64) (*models.Vehicle, error)

	// GetByCode retrieves a vehicle by its external fleet code
	GetByCode(ctx context.Context, code int64) (*models.Vehicle, error)

	// Create adds a new vehicle; code and plate must be unique
	Create(ctx context.Context, vehicle *models.Vehicle) error

	// Update updates an existing vehicle
	Update(ctx context.Context, vehicle *models.Vehicle) error

	// UpdateOdometer sets the authoritative odometer for a vehicle
	UpdateOdometer(ctx context.Context, id int64, odometer float64) error

	// Delete removes a vehicle by id
	Delete(ctx context.Context, id int64) error

	// List retrieves all vehicles
	List(ctx context.Context) ([]*models.Vehicle, error)
}

// MaintenanceRepository defines data access for maintenance records
type MaintenanceRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Maintenance, error)
	Create(ctx context.Context, m *models.Maintenance) error
	Update(ctx context.Context, m *models.Maintenance) error

	// UpdateStatus refreshes the stored derived status column
	UpdateStatus(ctx context.Context, id int64, status models.RecordStatus) error

	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*models.Maintenance, error)
	ListByVehicle(ctx context.Context, vehicleID int64) ([]*models.Maintenance, error)
}

// AccessoryRepository defines data access for accessory records
type AccessoryRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Accessory, error)
	Create(ctx context.Context, a *models.Accessory) error
	Update(ctx context.Context, a *models.Accessory) error
	UpdateStatus(ctx context.Context, id int64, status models.RecordStatus) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*models.Accessory, error)
	ListByVehicle(ctx context.Context, vehicleID int64) ([]*models.Accessory, error)
}

// FuelEventRepository defines data access for persisted telemetry history
type FuelEventRepository interface {
	// Create persists a new fuel event
	Create(ctx context.Context, event *models.FuelEvent) error

	// ListExternalIDs returns the set of external ids already persisted,
	// used by the reconciler for batch dedup
	ListExternalIDs(ctx context.Context) (map[int64]struct{}, error)

	// LastByVehicle returns the most recent persisted event per vehicle
	LastByVehicle(ctx context.Context) (map[int64]*models.FuelEvent, error)

	// ListByVehicle retrieves events for one vehicle, most recent first
	ListByVehicle(ctx context.Context, vehicleID int64, limit int) ([]*models.FuelEvent, error)
}

// SettingsRepository defines data access for the named numeric knobs
type SettingsRepository interface {
	// Get returns the value for key, or fallback when the key is absent
	Get(ctx context.Context, key string, fallback float64) (float64, error)

	// Put creates or replaces the value for key
	Put(ctx context.Context, key string, value float64) error
}

// LookupRepository defines data access for the label tables backing the
// free-text maintenance fields
type LookupRepository interface {
	List(ctx context.Context, kind models.LookupKind) ([]*models.Lookup, error)
	Create(ctx context.Context, kind models.LookupKind, name string) (*models.Lookup, error)
	Delete(ctx context.Context, kind models.LookupKind, id int64) error
}
