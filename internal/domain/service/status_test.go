package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fleetfix/fleetfix/internal/domain/models"
)

func ptrF(v float64) *float64    { return &v }
func ptrT(v time.Time) *time.Time { return &v }

func maintenanceWith(serviceOdometer float64, expiry models.Expiry) *models.Maintenance {
	return &models.Maintenance{
		VehicleID:       1,
		Category:        "Motor",
		Type:            models.MaintenancePreventive,
		ServiceDate:     time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		ServiceOdometer: serviceOdometer,
		HasExpiry:       expiry.Enabled,
		ExpiresOn:       expiry.Date,
		ExpiresAtKM:     expiry.KM,
	}
}

func TestEvaluateStatus(t *testing.T) {
	today := time.Date(2026, 3, 1, 15, 30, 0, 0, time.UTC)
	thresholds := models.DefaultThresholds()
	vehicle := &models.Vehicle{ID: 1, Code: 10, CurrentOdometer: 9200}

	tests := []struct {
		name   string
		record models.Expirable
		want   models.RecordStatus
	}{
		{
			name:   "no expiry tracking is terminal",
			record: maintenanceWith(9000, models.Expiry{Enabled: false}),
			want:   models.StatusDone,
		},
		{
			name: "date far in the future",
			record: maintenanceWith(9000, models.Expiry{
				Enabled: true,
				Date:    ptrT(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)),
			}),
			want: models.StatusHealthy,
		},
		{
			name: "exactly thirty days away alerts",
			record: maintenanceWith(9000, models.Expiry{
				Enabled: true,
				Date:    ptrT(time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)),
			}),
			want: models.StatusAlert,
		},
		{
			name: "thirty one days away stays healthy",
			record: maintenanceWith(9000, models.Expiry{
				Enabled: true,
				Date:    ptrT(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)),
			}),
			want: models.StatusHealthy,
		},
		{
			name: "expiring today alerts",
			record: maintenanceWith(9000, models.Expiry{
				Enabled: true,
				Date:    ptrT(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)),
			}),
			want: models.StatusAlert,
		},
		{
			name: "one day past due is overdue",
			record: maintenanceWith(9000, models.Expiry{
				Enabled: true,
				Date:    ptrT(time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)),
			}),
			want: models.StatusOverdue,
		},
		{
			name: "inside the km window alerts",
			record: maintenanceWith(9000, models.Expiry{
				Enabled: true,
				KM:      ptrF(10000),
			}),
			want: models.StatusAlert,
		},
		{
			name: "exactly at the km boundary alerts",
			record: maintenanceWith(9000, models.Expiry{
				Enabled: true,
				KM:      ptrF(10200),
			}),
			want: models.StatusAlert,
		},
		{
			name: "beyond the km window stays healthy",
			record: maintenanceWith(9000, models.Expiry{
				Enabled: true,
				KM:      ptrF(10201),
			}),
			want: models.StatusHealthy,
		},
		{
			name: "odometer past the expiry km is overdue",
			record: maintenanceWith(9000, models.Expiry{
				Enabled: true,
				KM:      ptrF(9000),
			}),
			want: models.StatusOverdue,
		},
		{
			name: "overdue date dominates healthy km",
			record: maintenanceWith(9000, models.Expiry{
				Enabled: true,
				Date:    ptrT(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
				KM:      ptrF(50000),
			}),
			want: models.StatusOverdue,
		},
		{
			name: "overdue km dominates date alert",
			record: maintenanceWith(9000, models.Expiry{
				Enabled: true,
				Date:    ptrT(time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)),
				KM:      ptrF(9000),
			}),
			want: models.StatusOverdue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval := EvaluateStatus(tt.record, vehicle, today, thresholds)
			assert.Equal(t, tt.want, eval.Status)
			if tt.want != models.StatusDone && tt.want != models.StatusHealthy {
				assert.NotEmpty(t, eval.Reason)
			}
		})
	}
}

// The km check runs after the date check; when both fire, the reason
// reflects the km check while overdue still wins the status.
func TestEvaluateStatus_ReasonKeepsLastCheck(t *testing.T) {
	today := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	vehicle := &models.Vehicle{ID: 1, Code: 10, CurrentOdometer: 9200}

	record := maintenanceWith(9000, models.Expiry{
		Enabled: true,
		Date:    ptrT(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)), // past due
		KM:      ptrF(10000),                                       // inside alert window
	})

	eval := EvaluateStatus(record, vehicle, today, models.DefaultThresholds())
	assert.Equal(t, models.StatusOverdue, eval.Status)
	assert.Equal(t, "800.0 km remaining", eval.Reason)
}

func TestEvaluateStatus_MissingVehicleUsesReferenceOdometer(t *testing.T) {
	today := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	// Service reading already past the expiry km
	record := maintenanceWith(9500, models.Expiry{Enabled: true, KM: ptrF(9000)})

	eval := EvaluateStatus(record, nil, today, models.DefaultThresholds())
	assert.Equal(t, models.StatusOverdue, eval.Status)
}

func TestEvaluateStatus_CustomThresholds(t *testing.T) {
	today := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	vehicle := &models.Vehicle{ID: 1, Code: 10, CurrentOdometer: 9200}
	record := maintenanceWith(9000, models.Expiry{Enabled: true, KM: ptrF(10000)})

	// 800 km remaining stays healthy when the window shrinks to 500 km
	eval := EvaluateStatus(record, vehicle, today, models.AlertThresholds{AlertKM: 500, AlertDays: 30})
	assert.Equal(t, models.StatusHealthy, eval.Status)
}

func TestCalendarDaysUntil_TruncatesToMidnight(t *testing.T) {
	// Late evening today against early morning expiry still counts whole
	// calendar days.
	today := time.Date(2026, 3, 1, 23, 55, 0, 0, time.UTC)
	expiry := time.Date(2026, 3, 3, 0, 5, 0, 0, time.UTC)
	assert.Equal(t, 2, calendarDaysUntil(today, expiry))

	sameDay := time.Date(2026, 3, 1, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 0, calendarDaysUntil(today, sameDay))
}
