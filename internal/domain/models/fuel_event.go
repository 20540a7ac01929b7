package models

import (
	"errors"
	"time"
)

// FuelEvent is a persisted copy of a fueling record ingested from the
// external telemetry API. History is retained even for events that do not
// move the authoritative odometer forward; the most recent event per
// vehicle anchors recency comparisons on later syncs.
type FuelEvent struct {
	ID         int64     `json:"id" db:"id" bson:"_id"`
	ExternalID int64     `json:"external_id" db:"external_id" bson:"external_id"`
	VehicleID  int64     `json:"vehicle_id" db:"vehicle_id" bson:"vehicle_id"`
	Odometer   float64   `json:"odometer" db:"odometer" bson:"odometer"`
	OccurredAt time.Time `json:"occurred_at" db:"occurred_at" bson:"occurred_at"`
	Liters     *float64  `json:"liters,omitempty" db:"liters" bson:"liters,omitempty"`
	Amount     *float64  `json:"amount,omitempty" db:"amount" bson:"amount,omitempty"`
	FuelType   *string   `json:"fuel_type,omitempty" db:"fuel_type" bson:"fuel_type,omitempty"`
}

// ErrUnparseableTimestamp is returned when a telemetry timestamp matches
// none of the supported layouts.
var ErrUnparseableTimestamp = errors.New("unparseable telemetry timestamp")

// Telemetry timestamp layouts. The fueling API emits "DD/MM/YYYY HH:MM:SS"
// or ISO-8601 depending on the deployment; both must parse.
var eventTimeLayouts = []string{
	"02/01/2006 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseEventTime parses a telemetry timestamp string in any of the
// supported source formats.
func ParseEventTime(raw string) (time.Time, error) {
	for _, layout := range eventTimeLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, ErrUnparseableTimestamp
}
