package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetfix/fleetfix/internal/adapters/memory"
	"github.com/fleetfix/fleetfix/internal/domain/models"
	"github.com/fleetfix/fleetfix/internal/domain/ports"
)

type fakeSource struct {
	records []ports.TelemetryRecord
	err     error

	// when set, FetchAll signals entered and blocks until release closes
	entered chan struct{}
	release chan struct{}
}

func (f *fakeSource) FetchAll(ctx context.Context) ([]ports.TelemetryRecord, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
		<-f.release
	}
	return f.records, f.err
}

func seedVehicle(t *testing.T, store ports.DatabaseAdapter, code int64, odometer float64) *models.Vehicle {
	t.Helper()
	vehicle := &models.Vehicle{
		Code:            code,
		Plate:           "ABC1D23",
		Model:           "Sprinter 415",
		CurrentOdometer: odometer,
	}
	require.NoError(t, store.GetVehicleRepository().Create(context.Background(), vehicle))
	return vehicle
}

func TestSync_CommitsUpdatesAndHistory(t *testing.T) {
	ctx := context.Background()
	store := memory.NewMemoryAdapter()
	vehicle := seedVehicle(t, store, 77, 1000)

	liters := 45.2
	source := &fakeSource{records: []ports.TelemetryRecord{
		{ExternalID: 1, VehicleCode: "77", Odometer: 1500, Timestamp: "01/02/2026 10:00:00", Liters: &liters},
		{ExternalID: 2, VehicleCode: "99", Odometer: 800, Timestamp: "01/02/2026 11:00:00"},
	}}

	report, err := NewSyncService(store, source).Sync(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, report.FetchedRecords)
	require.Len(t, report.Result.Updated, 1)
	assert.Equal(t, int64(77), report.Result.Updated[0].Code)
	assert.Equal(t, []string{"99"}, report.Result.NotFound)

	stored, err := store.GetVehicleRepository().GetByID(ctx, vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, 1500.0, stored.CurrentOdometer)

	events, err := store.GetFuelEventRepository().ListByVehicle(ctx, vehicle.ID, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, int64(1), events[0].ExternalID)
	require.NotNil(t, events[0].Liters)
	assert.Equal(t, 45.2, *events[0].Liters)
}

func TestSync_SecondRunIsNoOp(t *testing.T) {
	ctx := context.Background()
	store := memory.NewMemoryAdapter()
	vehicle := seedVehicle(t, store, 77, 0)

	source := &fakeSource{records: []ports.TelemetryRecord{
		{ExternalID: 1, VehicleCode: "77", Odometer: 1500, Timestamp: "01/02/2026 10:00:00"},
	}}
	syncService := NewSyncService(store, source)

	_, err := syncService.Sync(ctx)
	require.NoError(t, err)

	report, err := syncService.Sync(ctx)
	require.NoError(t, err)
	assert.Empty(t, report.Result.Updated)
	assert.Equal(t, []int64{1}, report.Result.SkippedInvalid)

	events, err := store.GetFuelEventRepository().ListByVehicle(ctx, vehicle.ID, 10)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestSync_FetchFailureLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	store := memory.NewMemoryAdapter()
	vehicle := seedVehicle(t, store, 77, 1000)

	source := &fakeSource{err: fmt.Errorf("connection refused")}

	_, err := NewSyncService(store, source).Sync(ctx)
	require.Error(t, err)

	stored, err := store.GetVehicleRepository().GetByID(ctx, vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, stored.CurrentOdometer)
}

func TestSync_RejectsConcurrentRun(t *testing.T) {
	ctx := context.Background()
	store := memory.NewMemoryAdapter()
	seedVehicle(t, store, 77, 0)

	source := &fakeSource{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	syncService := NewSyncService(store, source)

	done := make(chan error, 1)
	go func() {
		_, err := syncService.Sync(ctx)
		done <- err
	}()

	// Wait until the first run is inside FetchAll
	select {
	case <-source.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("first sync never reached the source")
	}

	_, err := syncService.Sync(ctx)
	assert.ErrorIs(t, err, ErrSyncInProgress)

	close(source.release)
	require.NoError(t, <-done)

	// With the first run finished, a new one is accepted again
	source.entered = nil
	_, err = syncService.Sync(ctx)
	require.NoError(t, err)
}
