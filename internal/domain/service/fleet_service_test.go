package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetfix/fleetfix/internal/adapters/memory"
	"github.com/fleetfix/fleetfix/internal/domain/models"
	"github.com/fleetfix/fleetfix/internal/domain/ports"
)

func newTestFleetService(t *testing.T) (ports.FleetService, ports.DatabaseAdapter) {
	t.Helper()
	store := memory.NewMemoryAdapter()
	return NewFleetService(store), store
}

func TestCreateVehicle_Validation(t *testing.T) {
	ctx := context.Background()
	fleet, _ := newTestFleetService(t)

	err := fleet.CreateVehicle(ctx, &models.Vehicle{Code: 0, Plate: "ABC1D23", Model: "Hilux"})
	assert.ErrorIs(t, err, models.ErrInvalidCode)

	err = fleet.CreateVehicle(ctx, &models.Vehicle{Code: 1, Plate: "TOOLONGPLATE", Model: "Hilux"})
	assert.ErrorIs(t, err, models.ErrPlateTooLong)

	err = fleet.CreateVehicle(ctx, &models.Vehicle{Code: 1, Plate: "ABC1D23", Model: "Hilux", CurrentOdometer: -1})
	assert.ErrorIs(t, err, models.ErrNegativeReading)
}

func TestCreateMaintenance_RequiresVehicle(t *testing.T) {
	ctx := context.Background()
	fleet, _ := newTestFleetService(t)

	err := fleet.CreateMaintenance(ctx, &models.Maintenance{
		VehicleID:   42,
		Category:    "Motor",
		Type:        models.MaintenancePreventive,
		ServiceDate: time.Now(),
	})
	assert.ErrorIs(t, err, ErrVehicleNotFound)
}

func TestMaintenancePendingOnUnestablishedOdometer(t *testing.T) {
	ctx := context.Background()
	fleet, _ := newTestFleetService(t)

	vehicle := &models.Vehicle{Code: 10, Plate: "ABC1D23", Model: "Hilux", CurrentOdometer: 0}
	require.NoError(t, fleet.CreateVehicle(ctx, vehicle))

	expiryKM := 10000.0
	m := &models.Maintenance{
		VehicleID:   vehicle.ID,
		Category:    "Motor",
		Type:        models.MaintenancePreventive,
		ServiceDate: time.Now(),
		HasExpiry:   true,
		ExpiresAtKM: &expiryKM,
	}
	require.NoError(t, fleet.CreateMaintenance(ctx, m))

	annotated, err := fleet.GetMaintenance(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, annotated.Evaluation.Status)

	// Evaluation stays suspended even for date-only expiry
	due := time.Now().AddDate(1, 0, 0)
	dated := &models.Maintenance{
		VehicleID:   vehicle.ID,
		Category:    "Freios",
		Type:        models.MaintenanceCorrective,
		ServiceDate: time.Now(),
		HasExpiry:   true,
		ExpiresOn:   &due,
	}
	require.NoError(t, fleet.CreateMaintenance(ctx, dated))

	annotatedDated, err := fleet.GetMaintenance(ctx, dated.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, annotatedDated.Evaluation.Status)
}

func TestStoredStatusRefreshedOnRead(t *testing.T) {
	ctx := context.Background()
	fleet, store := newTestFleetService(t)

	vehicle := &models.Vehicle{Code: 10, Plate: "ABC1D23", Model: "Hilux", CurrentOdometer: 5000}
	require.NoError(t, fleet.CreateVehicle(ctx, vehicle))

	expiryKM := 10000.0
	m := &models.Maintenance{
		VehicleID:   vehicle.ID,
		Category:    "Motor",
		Type:        models.MaintenancePreventive,
		ServiceDate: time.Now(),
		HasExpiry:   true,
		ExpiresAtKM: &expiryKM,
	}
	require.NoError(t, fleet.CreateMaintenance(ctx, m))
	assert.Equal(t, models.StatusHealthy, m.Status)

	// The odometer moves past the expiry; the next read recomputes and
	// persists the new status.
	require.NoError(t, store.GetVehicleRepository().UpdateOdometer(ctx, vehicle.ID, 10500))

	annotated, err := fleet.GetMaintenance(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOverdue, annotated.Evaluation.Status)

	stored, err := store.GetMaintenanceRepository().GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOverdue, stored.Status)
}

func TestNotFoundMapping(t *testing.T) {
	ctx := context.Background()
	fleet, _ := newTestFleetService(t)

	_, err := fleet.GetVehicle(ctx, 999)
	assert.ErrorIs(t, err, ErrVehicleNotFound)

	err = fleet.DeleteVehicle(ctx, 999)
	assert.ErrorIs(t, err, ErrVehicleNotFound)

	_, err = fleet.GetMaintenance(ctx, 999)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	err = fleet.DeleteMaintenance(ctx, 999)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	_, err = fleet.GetAccessory(ctx, 999)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	err = fleet.DeleteAccessory(ctx, 999)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestListFilterMismatchStillRefreshesStoredStatus(t *testing.T) {
	ctx := context.Background()
	fleet, store := newTestFleetService(t)

	vehicle := &models.Vehicle{Code: 10, Plate: "ABC1D23", Model: "Hilux", CurrentOdometer: 5000}
	require.NoError(t, fleet.CreateVehicle(ctx, vehicle))

	expiryKM := 10000.0
	m := &models.Maintenance{
		VehicleID:   vehicle.ID,
		Category:    "Motor",
		Type:        models.MaintenancePreventive,
		ServiceDate: time.Now(),
		HasExpiry:   true,
		ExpiresAtKM: &expiryKM,
	}
	require.NoError(t, fleet.CreateMaintenance(ctx, m))
	assert.Equal(t, models.StatusHealthy, m.Status)

	require.NoError(t, store.GetVehicleRepository().UpdateOdometer(ctx, vehicle.ID, 10500))

	// The record is now overdue and falls outside the alert filter; the
	// stored status must still be brought up to date.
	alerts, err := fleet.ListMaintenances(ctx, ports.StatusFilter{models.StatusAlert})
	require.NoError(t, err)
	assert.Empty(t, alerts)

	stored, err := store.GetMaintenanceRepository().GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOverdue, stored.Status)
}

func TestListVehicleRecords(t *testing.T) {
	ctx := context.Background()
	fleet, _ := newTestFleetService(t)

	first := &models.Vehicle{Code: 10, Plate: "ABC1D23", Model: "Hilux", CurrentOdometer: 9200}
	second := &models.Vehicle{Code: 20, Plate: "XYZ9A88", Model: "Strada", CurrentOdometer: 3000}
	require.NoError(t, fleet.CreateVehicle(ctx, first))
	require.NoError(t, fleet.CreateVehicle(ctx, second))

	nearKM := 10000.0
	require.NoError(t, fleet.CreateMaintenance(ctx, &models.Maintenance{
		VehicleID:   first.ID,
		Category:    "Motor",
		Type:        models.MaintenancePreventive,
		ServiceDate: time.Now(),
		HasExpiry:   true,
		ExpiresAtKM: &nearKM,
	}))
	require.NoError(t, fleet.CreateMaintenance(ctx, &models.Maintenance{
		VehicleID:   second.ID,
		Category:    "Freios",
		Type:        models.MaintenanceCorrective,
		ServiceDate: time.Now(),
	}))
	require.NoError(t, fleet.CreateAccessory(ctx, &models.Accessory{
		VehicleID:   first.ID,
		Name:        "Extintor",
		InstallDate: time.Now(),
	}))

	maintenances, err := fleet.ListVehicleMaintenances(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, maintenances, 1)
	assert.Equal(t, first.ID, maintenances[0].Maintenance.VehicleID)
	assert.Equal(t, models.StatusAlert, maintenances[0].Evaluation.Status)
	require.NotNil(t, maintenances[0].Vehicle)
	assert.Equal(t, first.Code, maintenances[0].Vehicle.Code)

	accessories, err := fleet.ListVehicleAccessories(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, accessories, 1)
	assert.Equal(t, models.StatusDone, accessories[0].Evaluation.Status)

	_, err = fleet.ListVehicleMaintenances(ctx, 999)
	assert.ErrorIs(t, err, ErrVehicleNotFound)

	_, err = fleet.ListVehicleAccessories(ctx, 999)
	assert.ErrorIs(t, err, ErrVehicleNotFound)
}

func TestListMaintenances_StatusFilter(t *testing.T) {
	ctx := context.Background()
	fleet, _ := newTestFleetService(t)

	vehicle := &models.Vehicle{Code: 10, Plate: "ABC1D23", Model: "Hilux", CurrentOdometer: 9200}
	require.NoError(t, fleet.CreateVehicle(ctx, vehicle))

	nearKM := 10000.0
	farKM := 50000.0
	for _, expiry := range []*float64{&nearKM, &farKM, nil} {
		m := &models.Maintenance{
			VehicleID:   vehicle.ID,
			Category:    "Motor",
			Type:        models.MaintenancePreventive,
			ServiceDate: time.Now(),
			HasExpiry:   expiry != nil,
			ExpiresAtKM: expiry,
		}
		require.NoError(t, fleet.CreateMaintenance(ctx, m))
	}

	all, err := fleet.ListMaintenances(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	alerts, err := fleet.ListMaintenances(ctx, ports.StatusFilter{models.StatusAlert})
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.StatusAlert, alerts[0].Evaluation.Status)

	done, err := fleet.ListMaintenances(ctx, ports.StatusFilter{models.StatusDone})
	require.NoError(t, err)
	assert.Len(t, done, 1)
}

func TestThresholdsRoundTrip(t *testing.T) {
	ctx := context.Background()
	fleet, _ := newTestFleetService(t)

	thresholds := fleet.GetThresholds(ctx)
	assert.Equal(t, models.DefaultAlertKM, thresholds.AlertKM)
	assert.Equal(t, models.DefaultAlertDays, thresholds.AlertDays)

	require.NoError(t, fleet.PutSetting(ctx, models.SettingAlertKM, 2500))
	require.NoError(t, fleet.PutSetting(ctx, models.SettingAlertDays, 15))

	thresholds = fleet.GetThresholds(ctx)
	assert.Equal(t, 2500.0, thresholds.AlertKM)
	assert.Equal(t, 15.0, thresholds.AlertDays)

	err := fleet.PutSetting(ctx, "bogus", 1)
	assert.ErrorIs(t, err, ErrInvalidSetting)
}

func TestStatusSummaryCounts(t *testing.T) {
	ctx := context.Background()
	fleet, _ := newTestFleetService(t)

	vehicle := &models.Vehicle{Code: 10, Plate: "ABC1D23", Model: "Hilux", CurrentOdometer: 9200}
	require.NoError(t, fleet.CreateVehicle(ctx, vehicle))

	nearKM := 10000.0
	require.NoError(t, fleet.CreateMaintenance(ctx, &models.Maintenance{
		VehicleID:   vehicle.ID,
		Category:    "Motor",
		Type:        models.MaintenancePreventive,
		ServiceDate: time.Now(),
		HasExpiry:   true,
		ExpiresAtKM: &nearKM,
	}))
	require.NoError(t, fleet.CreateAccessory(ctx, &models.Accessory{
		VehicleID:   vehicle.ID,
		Name:        "Extintor",
		InstallDate: time.Now(),
	}))

	summary, err := fleet.StatusSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Maintenances[models.StatusAlert])
	assert.Equal(t, 1, summary.Accessories[models.StatusDone])
}
