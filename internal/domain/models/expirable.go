package models

import (
	"errors"
	"time"
)

// RecordStatus is the computed health of an expirable record. The values
// are kept from the original operator vocabulary so stored data and
// dashboards stay compatible.
type RecordStatus string

const (
	StatusDone    RecordStatus = "concluído" // no expiry tracking, terminal
	StatusHealthy RecordStatus = "saudavel"
	StatusAlert   RecordStatus = "alerta"
	StatusOverdue RecordStatus = "vencido"
	StatusPending RecordStatus = "pendente" // vehicle odometer not yet established
)

// MaintenanceType distinguishes scheduled from repair work
type MaintenanceType string

const (
	MaintenancePreventive MaintenanceType = "Preventiva"
	MaintenanceCorrective MaintenanceType = "Corretiva"
)

var (
	ErrInvalidMaintenanceType = errors.New("invalid maintenance type")
	ErrNegativeCost           = errors.New("maintenance cost cannot be negative")
	ErrEmptyName              = errors.New("name is required")
)

// Expiry captures when a record becomes due. Date and KM thresholds are
// independently optional; with Enabled false the record is terminal and
// never evaluated.
type Expiry struct {
	Enabled bool       `json:"has_expiry"`
	Date    *time.Time `json:"expiry_date,omitempty"`
	KM      *float64   `json:"expiry_km,omitempty"`
}

// Expirable is a record that may become due by calendar date or by
// odometer reading. ReferenceOdometer is the reading recorded when the
// record was created and is used when the owning vehicle's odometer is
// unknown.
type Expirable interface {
	Expiry() Expiry
	ReferenceOdometer() float64
}

// Maintenance is a scheduled or performed maintenance on a vehicle
type Maintenance struct {
	ID              int64           `json:"id" db:"id" bson:"_id"`
	VehicleID       int64           `json:"vehicle_id" db:"vehicle_id" bson:"vehicle_id"`
	Category        string          `json:"category" db:"category" bson:"category"`
	Responsible     string          `json:"responsible" db:"responsible" bson:"responsible"`
	Workshop        string          `json:"workshop" db:"workshop" bson:"workshop"`
	Type            MaintenanceType `json:"type" db:"type" bson:"type"`
	ServiceDate     time.Time       `json:"service_date" db:"service_date" bson:"service_date"`
	ServiceOdometer float64         `json:"service_odometer" db:"service_odometer" bson:"service_odometer"`
	Cost            float64         `json:"cost" db:"cost" bson:"cost"`
	Description     string          `json:"description" db:"description" bson:"description"`
	HasExpiry       bool            `json:"has_expiry" db:"has_expiry" bson:"has_expiry"`
	ExpiresOn       *time.Time      `json:"expiry_date,omitempty" db:"expiry_date" bson:"expiry_date,omitempty"`
	ExpiresAtKM     *float64        `json:"expiry_km,omitempty" db:"expiry_km" bson:"expiry_km,omitempty"`
	Status          RecordStatus    `json:"status" db:"status" bson:"status"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty" db:"completed_at" bson:"completed_at,omitempty"`
}

func (m *Maintenance) Expiry() Expiry {
	return Expiry{Enabled: m.HasExpiry, Date: m.ExpiresOn, KM: m.ExpiresAtKM}
}

func (m *Maintenance) ReferenceOdometer() float64 {
	return m.ServiceOdometer
}

// Validate checks maintenance fields against registration constraints
func (m *Maintenance) Validate() error {
	if m.VehicleID <= 0 {
		return errors.New("maintenance requires a vehicle")
	}
	if m.Type != MaintenancePreventive && m.Type != MaintenanceCorrective {
		return ErrInvalidMaintenanceType
	}
	if m.Cost < 0 {
		return ErrNegativeCost
	}
	if m.ServiceOdometer < 0 {
		return ErrNegativeReading
	}
	return nil
}

// Accessory is equipment installed on a vehicle (tires, tachograph, etc.)
type Accessory struct {
	ID              int64        `json:"id" db:"id" bson:"_id"`
	VehicleID       int64        `json:"vehicle_id" db:"vehicle_id" bson:"vehicle_id"`
	Name            string       `json:"name" db:"name" bson:"name"`
	InstallDate     time.Time    `json:"install_date" db:"install_date" bson:"install_date"`
	InstallOdometer float64      `json:"install_odometer" db:"install_odometer" bson:"install_odometer"`
	Description     string       `json:"description" db:"description" bson:"description"`
	HasExpiry       bool         `json:"has_expiry" db:"has_expiry" bson:"has_expiry"`
	ExpiresOn       *time.Time   `json:"expiry_date,omitempty" db:"expiry_date" bson:"expiry_date,omitempty"`
	ExpiresAtKM     *float64     `json:"expiry_km,omitempty" db:"expiry_km" bson:"expiry_km,omitempty"`
	Status          RecordStatus `json:"status" db:"status" bson:"status"`
}

func (a *Accessory) Expiry() Expiry {
	return Expiry{Enabled: a.HasExpiry, Date: a.ExpiresOn, KM: a.ExpiresAtKM}
}

func (a *Accessory) ReferenceOdometer() float64 {
	return a.InstallOdometer
}

// Validate checks accessory fields against registration constraints
func (a *Accessory) Validate() error {
	if a.VehicleID <= 0 {
		return errors.New("accessory requires a vehicle")
	}
	if a.Name == "" {
		return ErrEmptyName
	}
	if a.InstallOdometer < 0 {
		return ErrNegativeReading
	}
	return nil
}

// Evaluation is the outcome of a status check over an expirable record
type Evaluation struct {
	Status RecordStatus `json:"status"`
	Reason string       `json:"reason,omitempty"`
}
