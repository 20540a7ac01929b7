package ports

import (
	"context"
	"time"

	"github.com/fleetfix/fleetfix/internal/domain/models"
)

// FleetService defines the core business operations of the maintenance
// tracker. This is the primary port for the fleet domain.
type FleetService interface {
	// Vehicles
	CreateVehicle(ctx context.Context, vehicle *models.Vehicle) error
	GetVehicle(ctx context.Context, id int64) (*models.Vehicle, error)
	UpdateVehicle(ctx context.Context, vehicle *models.Vehicle) error
	DeleteVehicle(ctx context.Context, id int64) error
	ListVehicles(ctx context.Context) ([]*models.Vehicle, error)

	// Maintenances, annotated with the computed status
	CreateMaintenance(ctx context.Context, m *models.Maintenance) error
	GetMaintenance(ctx context.Context, id int64) (*AnnotatedMaintenance, error)
	UpdateMaintenance(ctx context.Context, m *models.Maintenance) error
	DeleteMaintenance(ctx context.Context, id int64) error
	ListMaintenances(ctx context.Context, filter StatusFilter) ([]*AnnotatedMaintenance, error)
	ListVehicleMaintenances(ctx context.Context, vehicleID int64) ([]*AnnotatedMaintenance, error)

	// Accessories, annotated with the computed status
	CreateAccessory(ctx context.Context, a *models.Accessory) error
	GetAccessory(ctx context.Context, id int64) (*AnnotatedAccessory, error)
	UpdateAccessory(ctx context.Context, a *models.Accessory) error
	DeleteAccessory(ctx context.Context, id int64) error
	ListAccessories(ctx context.Context, filter StatusFilter) ([]*AnnotatedAccessory, error)
	ListVehicleAccessories(ctx context.Context, vehicleID int64) ([]*AnnotatedAccessory, error)

	// Lookup labels
	ListLookups(ctx context.Context, kind models.LookupKind) ([]*models.Lookup, error)
	CreateLookup(ctx context.Context, kind models.LookupKind, name string) (*models.Lookup, error)
	DeleteLookup(ctx context.Context, kind models.LookupKind, id int64) error

	// Settings
	GetThresholds(ctx context.Context) models.AlertThresholds
	PutSetting(ctx context.Context, key string, value float64) error

	// StatusSummary returns per-status record counts for dashboards
	StatusSummary(ctx context.Context) (*StatusSummary, error)
}

// StatusFilter narrows annotated listings to a set of statuses; empty
// means no filtering.
type StatusFilter []models.RecordStatus

// Matches reports whether status passes the filter
func (f StatusFilter) Matches(status models.RecordStatus) bool {
	if len(f) == 0 {
		return true
	}
	for _, s := range f {
		if s == status {
			return true
		}
	}
	return false
}

// AnnotatedMaintenance pairs a maintenance record with its evaluation and
// owning vehicle snapshot
type AnnotatedMaintenance struct {
	Maintenance *models.Maintenance `json:"maintenance"`
	Vehicle     *models.Vehicle     `json:"vehicle,omitempty"`
	Evaluation  models.Evaluation   `json:"evaluation"`
}

// AnnotatedAccessory pairs an accessory record with its evaluation and
// owning vehicle snapshot
type AnnotatedAccessory struct {
	Accessory  *models.Accessory `json:"accessory"`
	Vehicle    *models.Vehicle   `json:"vehicle,omitempty"`
	Evaluation models.Evaluation `json:"evaluation"`
}

// StatusSummary carries per-status counts for both record kinds
type StatusSummary struct {
	Maintenances map[models.RecordStatus]int `json:"maintenances"`
	Accessories  map[models.RecordStatus]int `json:"accessories"`
}

// TelemetryRecord is one raw fueling record as fetched from the external
// API, before validation. The timestamp stays a string until the
// reconciler parses it; unparseable records are skip reasons, not errors.
type TelemetryRecord struct {
	ExternalID  int64    `json:"id"`
	VehicleCode string   `json:"vehicle_code"`
	Odometer    float64  `json:"odometer"`
	Timestamp   string   `json:"timestamp"`
	Liters      *float64 `json:"liters,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
	FuelType    *string  `json:"fuel_type,omitempty"`
}

// TelemetrySource is the port for the external fueling API. FetchAll
// walks the paginated listing and returns every record; transport
// failures after retries are hard errors that abort the sync.
type TelemetrySource interface {
	FetchAll(ctx context.Context) ([]TelemetryRecord, error)
}

// VehicleUpdate is one committed odometer change
type VehicleUpdate struct {
	Code        int64   `json:"code"`
	NewOdometer float64 `json:"new_odometer"`
}

// SkippedVehicle is a vehicle whose batch candidate was not committed,
// with the specific reason
type SkippedVehicle struct {
	Code   int64  `json:"code"`
	Reason string `json:"reason"`
}

// ReconciliationResult is the fully-structured outcome of one reconcile
// pass. Missing vehicles, duplicates, and invalid telemetry are modeled
// here as data, never raised as errors.
type ReconciliationResult struct {
	Updated        []VehicleUpdate    `json:"updated"`
	SkippedInvalid []int64            `json:"skipped_invalid"` // external ids
	NotFound       []string           `json:"not_found"`       // unmatched vehicle codes
	SkippedVehicles []SkippedVehicle  `json:"skipped_vehicles"`
	LeftAtZero     []int64            `json:"left_at_zero"` // vehicle codes still at the zero sentinel
	NewEvents      []models.FuelEvent `json:"-"`            // validated events to persist
}

// SyncReport is what a completed sync run surfaces to callers
type SyncReport struct {
	FetchedRecords int                  `json:"fetched_records"`
	Result         ReconciliationResult `json:"result"`
	StartedAt      time.Time            `json:"started_at"`
	Duration       time.Duration        `json:"duration"`
}

// SyncService runs telemetry synchronization, one run in flight at a time
type SyncService interface {
	// Sync fetches telemetry, reconciles odometers, and commits the
	// outcome transactionally. Returns ErrSyncInProgress when a run is
	// already active.
	Sync(ctx context.Context) (*SyncReport, error)
}
