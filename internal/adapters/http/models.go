package http

import (
	"time"

	"github.com/fleetfix/fleetfix/internal/domain/models"
)

// ProblemDetails represents an error response following RFC 7807
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title,omitempty"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// VehicleRequest represents a vehicle create or update request
type VehicleRequest struct {
	Code            int64   `json:"code" binding:"required"`
	Plate           string  `json:"plate" binding:"required"`
	Model           string  `json:"model" binding:"required"`
	Manufacturer    string  `json:"manufacturer"`
	CurrentOdometer float64 `json:"current_odometer"`
}

// MaintenanceRequest represents a maintenance create or update request
type MaintenanceRequest struct {
	VehicleID       int64                  `json:"vehicle_id" binding:"required"`
	Category        string                 `json:"category" binding:"required"`
	Responsible     string                 `json:"responsible"`
	Workshop        string                 `json:"workshop"`
	Type            models.MaintenanceType `json:"type" binding:"required"`
	ServiceDate     time.Time              `json:"service_date" binding:"required"`
	ServiceOdometer float64                `json:"service_odometer"`
	Cost            float64                `json:"cost"`
	Description     string                 `json:"description"`
	HasExpiry       bool                   `json:"has_expiry"`
	ExpiresOn       *time.Time             `json:"expiry_date,omitempty"`
	ExpiresAtKM     *float64               `json:"expiry_km,omitempty"`
}

// AccessoryRequest represents an accessory create or update request
type AccessoryRequest struct {
	VehicleID       int64      `json:"vehicle_id" binding:"required"`
	Name            string     `json:"name" binding:"required"`
	InstallDate     time.Time  `json:"install_date" binding:"required"`
	InstallOdometer float64    `json:"install_odometer"`
	Description     string     `json:"description"`
	HasExpiry       bool       `json:"has_expiry"`
	ExpiresOn       *time.Time `json:"expiry_date,omitempty"`
	ExpiresAtKM     *float64   `json:"expiry_km,omitempty"`
}

// LookupRequest represents a lookup label creation request
type LookupRequest struct {
	Name string `json:"name" binding:"required"`
}

// SettingRequest represents an alert threshold update request
type SettingRequest struct {
	Key   string  `json:"key" binding:"required"`
	Value float64 `json:"value" binding:"required"`
}

// toMaintenance maps the request onto a domain record
func (r *MaintenanceRequest) toMaintenance(id int64) *models.Maintenance {
	return &models.Maintenance{
		ID:              id,
		VehicleID:       r.VehicleID,
		Category:        r.Category,
		Responsible:     r.Responsible,
		Workshop:        r.Workshop,
		Type:            r.Type,
		ServiceDate:     r.ServiceDate,
		ServiceOdometer: r.ServiceOdometer,
		Cost:            r.Cost,
		Description:     r.Description,
		HasExpiry:       r.HasExpiry,
		ExpiresOn:       r.ExpiresOn,
		ExpiresAtKM:     r.ExpiresAtKM,
	}
}

// toAccessory maps the request onto a domain record
func (r *AccessoryRequest) toAccessory(id int64) *models.Accessory {
	return &models.Accessory{
		ID:              id,
		VehicleID:       r.VehicleID,
		Name:            r.Name,
		InstallDate:     r.InstallDate,
		InstallOdometer: r.InstallOdometer,
		Description:     r.Description,
		HasExpiry:       r.HasExpiry,
		ExpiresOn:       r.ExpiresOn,
		ExpiresAtKM:     r.ExpiresAtKM,
	}
}

// toVehicle maps the request onto a domain record
func (r *VehicleRequest) toVehicle(id int64) *models.Vehicle {
	return &models.Vehicle{
		ID:              id,
		Code:            r.Code,
		Plate:           r.Plate,
		Model:           r.Model,
		Manufacturer:    r.Manufacturer,
		CurrentOdometer: r.CurrentOdometer,
	}
}
