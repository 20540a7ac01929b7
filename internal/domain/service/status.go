package service

import (
	"fmt"
	"time"

	"github.com/fleetfix/fleetfix/internal/domain/models"
)

// EvaluateStatus computes the health of an expirable record against its
// owning vehicle's odometer and the configured alert thresholds. It is a
// pure function: callers fetch the vehicle and thresholds.
//
// The date check runs before the odometer check and both may fire; the
// overdue/alert flags accumulate while the reason keeps the last check
// that set a flag. Preserving that ordering is an observable tie-break,
// not an accident.
func EvaluateStatus(record models.Expirable, vehicle *models.Vehicle, today time.Time, thresholds models.AlertThresholds) models.Evaluation {
	expiry := record.Expiry()
	if !expiry.Enabled {
		return models.Evaluation{Status: models.StatusDone}
	}

	// A missing vehicle falls back to the odometer recorded when the
	// record was created.
	currentOdometer := record.ReferenceOdometer()
	if vehicle != nil {
		currentOdometer = vehicle.CurrentOdometer
	}

	var (
		overdue bool
		alert   bool
		reason  string
	)

	if expiry.Date != nil {
		daysLeft := calendarDaysUntil(today, *expiry.Date)
		if daysLeft < 0 {
			overdue = true
			reason = fmt.Sprintf("overdue by date (%s)", expiry.Date.Format("2006-01-02"))
		} else if float64(daysLeft) <= thresholds.AlertDays {
			// Inclusive boundary: exactly AlertDays away is an alert.
			alert = true
			reason = fmt.Sprintf("due in %d days", daysLeft)
		}
	}

	if expiry.KM != nil {
		if currentOdometer > *expiry.KM {
			overdue = true
			reason = fmt.Sprintf("overdue by odometer (%.1f > %.1f km)", currentOdometer, *expiry.KM)
		} else if *expiry.KM-currentOdometer <= thresholds.AlertKM {
			alert = true
			reason = fmt.Sprintf("%.1f km remaining", *expiry.KM-currentOdometer)
		}
	}

	switch {
	case overdue:
		return models.Evaluation{Status: models.StatusOverdue, Reason: reason}
	case alert:
		return models.Evaluation{Status: models.StatusAlert, Reason: reason}
	default:
		return models.Evaluation{Status: models.StatusHealthy, Reason: reason}
	}
}

// calendarDaysUntil returns whole calendar days from today to the expiry
// date, truncating both to midnight so partial days never round up.
func calendarDaysUntil(today, expiry time.Time) int {
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(expiry.Year(), expiry.Month(), expiry.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(t).Hours() / 24)
}
