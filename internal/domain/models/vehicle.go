package models

import (
	"errors"
	"time"
)

// ZeroOdometerSentinel marks a vehicle whose odometer has never been
// established. Records belonging to such a vehicle are not evaluated, and
// the next valid telemetry reading overrides the odometer unconditionally.
const ZeroOdometerSentinel = 0.0

// Vehicle represents a fleet vehicle
type Vehicle struct {
	ID              int64     `json:"id" db:"id" bson:"_id"`
	Code            int64     `json:"code" db:"code" bson:"code"`
	Plate           string    `json:"plate" db:"plate" bson:"plate"`
	Model           string    `json:"model" db:"model" bson:"model"`
	Manufacturer    string    `json:"manufacturer" db:"manufacturer" bson:"manufacturer"`
	CurrentOdometer float64   `json:"current_odometer" db:"current_odometer" bson:"current_odometer"`
	CreatedAt       time.Time `json:"created_at" db:"created_at" bson:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at" bson:"updated_at"`
}

// Vehicle validation constants
const (
	PlateMaxLength = 8
)

var (
	ErrInvalidCode     = errors.New("vehicle code must be a positive integer")
	ErrEmptyPlate      = errors.New("vehicle plate is required")
	ErrPlateTooLong    = errors.New("vehicle plate exceeds 8 characters")
	ErrEmptyModel      = errors.New("vehicle model is required")
	ErrNegativeReading = errors.New("odometer reading cannot be negative")
)

// Validate checks the vehicle fields against registration constraints
func (v *Vehicle) Validate() error {
	if v.Code <= 0 {
		return ErrInvalidCode
	}
	if v.Plate == "" {
		return ErrEmptyPlate
	}
	if len(v.Plate) > PlateMaxLength {
		return ErrPlateTooLong
	}
	if v.Model == "" {
		return ErrEmptyModel
	}
	if v.CurrentOdometer < 0 {
		return ErrNegativeReading
	}
	return nil
}

// OdometerEstablished reports whether the vehicle has a usable odometer
// reading, i.e. it is not the zero sentinel.
func (v *Vehicle) OdometerEstablished() bool {
	return v.CurrentOdometer != ZeroOdometerSentinel
}
