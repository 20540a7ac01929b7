package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetfix/fleetfix/internal/domain/models"
)

func testVehicle(code int64) *models.Vehicle {
	return &models.Vehicle{
		Code:            code,
		Plate:           "ABC1D23",
		Model:           "Sprinter 415",
		CurrentOdometer: 1000,
	}
}

func TestVehicleRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	adapter := NewMemoryAdapter()
	repo := adapter.GetVehicleRepository()

	vehicle := testVehicle(10)
	require.NoError(t, repo.Create(ctx, vehicle))
	require.NotZero(t, vehicle.ID)

	// Duplicate code rejected
	err := repo.Create(ctx, testVehicle(10))
	assert.ErrorIs(t, err, ErrAlreadyExists)

	byCode, err := repo.GetByCode(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, vehicle.ID, byCode.ID)

	// Returned values are copies; mutating them must not leak into the
	// store.
	byCode.Plate = "MUTATED"
	fresh, err := repo.GetByID(ctx, vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, "ABC1D23", fresh.Plate)

	require.NoError(t, repo.UpdateOdometer(ctx, vehicle.ID, 2500))
	fresh, err = repo.GetByID(ctx, vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, 2500.0, fresh.CurrentOdometer)

	require.NoError(t, repo.Delete(ctx, vehicle.ID))
	_, err = repo.GetByID(ctx, vehicle.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVehicleRepository_ListSortedByCode(t *testing.T) {
	ctx := context.Background()
	adapter := NewMemoryAdapter()
	repo := adapter.GetVehicleRepository()

	for _, code := range []int64{30, 10, 20} {
		require.NoError(t, repo.Create(ctx, testVehicle(code)))
	}

	vehicles, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, vehicles, 3)
	assert.Equal(t, int64(10), vehicles[0].Code)
	assert.Equal(t, int64(20), vehicles[1].Code)
	assert.Equal(t, int64(30), vehicles[2].Code)
}

func TestFuelEventRepository_DedupAndRecency(t *testing.T) {
	ctx := context.Background()
	adapter := NewMemoryAdapter()
	repo := adapter.GetFuelEventRepository()

	older := &models.FuelEvent{
		ExternalID: 1,
		VehicleID:  5,
		Odometer:   1000,
		OccurredAt: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
	}
	newer := &models.FuelEvent{
		ExternalID: 2,
		VehicleID:  5,
		Odometer:   1200,
		OccurredAt: time.Date(2026, 2, 5, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	// External id collisions are rejected
	err := repo.Create(ctx, &models.FuelEvent{ExternalID: 1, VehicleID: 5, Odometer: 900, OccurredAt: older.OccurredAt})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	ids, err := repo.ListExternalIDs(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	assert.Contains(t, ids, int64(1))

	last, err := repo.LastByVehicle(ctx)
	require.NoError(t, err)
	require.Contains(t, last, int64(5))
	assert.Equal(t, int64(2), last[5].ExternalID)

	events, err := repo.ListByVehicle(ctx, 5, 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, int64(2), events[0].ExternalID)
}

func TestTransaction_RollbackRestoresState(t *testing.T) {
	ctx := context.Background()
	adapter := NewMemoryAdapter()
	repo := adapter.GetVehicleRepository()

	vehicle := testVehicle(10)
	require.NoError(t, repo.Create(ctx, vehicle))

	tx, err := adapter.BeginTransaction(ctx)
	require.NoError(t, err)

	require.NoError(t, tx.GetVehicleRepository().UpdateOdometer(ctx, vehicle.ID, 9999))
	require.NoError(t, tx.GetFuelEventRepository().Create(ctx, &models.FuelEvent{
		ExternalID: 1,
		VehicleID:  vehicle.ID,
		Odometer:   9999,
		OccurredAt: time.Now(),
	}))
	require.NoError(t, tx.Rollback(ctx))

	fresh, err := repo.GetByID(ctx, vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, fresh.CurrentOdometer)

	ids, err := adapter.GetFuelEventRepository().ListExternalIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestTransaction_CommitKeepsState(t *testing.T) {
	ctx := context.Background()
	adapter := NewMemoryAdapter()
	repo := adapter.GetVehicleRepository()

	vehicle := testVehicle(10)
	require.NoError(t, repo.Create(ctx, vehicle))

	tx, err := adapter.BeginTransaction(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.GetVehicleRepository().UpdateOdometer(ctx, vehicle.ID, 4200))
	require.NoError(t, tx.Commit(ctx))

	// Rollback after commit is a no-op
	require.NoError(t, tx.Rollback(ctx))

	fresh, err := repo.GetByID(ctx, vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, 4200.0, fresh.CurrentOdometer)
}

func TestSettingsRepository_Fallback(t *testing.T) {
	ctx := context.Background()
	adapter := NewMemoryAdapter()
	repo := adapter.GetSettingsRepository()

	v, err := repo.Get(ctx, models.SettingAlertKM, models.DefaultAlertKM)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultAlertKM, v)

	require.NoError(t, repo.Put(ctx, models.SettingAlertKM, 2000))
	v, err = repo.Get(ctx, models.SettingAlertKM, models.DefaultAlertKM)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, v)
}

func TestLookupRepository_Kinds(t *testing.T) {
	ctx := context.Background()
	adapter := NewMemoryAdapter()
	repo := adapter.GetLookupRepository()

	created, err := repo.Create(ctx, models.LookupCategory, "Motor")
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	_, err = repo.Create(ctx, models.LookupCategory, "Motor")
	assert.ErrorIs(t, err, ErrAlreadyExists)

	// Same name under a different kind is fine
	_, err = repo.Create(ctx, models.LookupWorkshop, "Motor")
	require.NoError(t, err)

	categories, err := repo.List(ctx, models.LookupCategory)
	require.NoError(t, err)
	assert.Len(t, categories, 1)

	require.NoError(t, repo.Delete(ctx, models.LookupCategory, created.ID))
	categories, err = repo.List(ctx, models.LookupCategory)
	require.NoError(t, err)
	assert.Empty(t, categories)
}
