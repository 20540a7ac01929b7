package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fleetfix/fleetfix/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuelEventCreate_Success(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()

	repo := NewFuelEventRepository(db)
	ctx := context.Background()

	liters := 42.3
	event := &models.FuelEvent{
		ExternalID: 9001,
		VehicleID:  1,
		Odometer:   45210.5,
		OccurredAt: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		Liters:     &liters,
	}

	mock.ExpectPrepare("INSERT INTO fuel_events").
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	err := repo.Create(ctx, event)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), event.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFuelEventListExternalIDs(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()

	repo := NewFuelEventRepository(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"external_id"}).
		AddRow(int64(100)).
		AddRow(int64(101)).
		AddRow(int64(250))

	mock.ExpectQuery("SELECT external_id FROM fuel_events").
		WillReturnRows(rows)

	seen, err := repo.ListExternalIDs(ctx)

	assert.NoError(t, err)
	require.Len(t, seen, 3)
	_, ok := seen[101]
	assert.True(t, ok)
	_, ok = seen[999]
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFuelEventLastByVehicle(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()

	repo := NewFuelEventRepository(db)
	ctx := context.Background()

	t1 := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	t2 := time.Date(2025, 3, 15, 18, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"id", "external_id", "vehicle_id", "odometer", "occurred_at", "liters", "amount", "fuel_type",
	}).
		AddRow(int64(1), int64(100), int64(1), 45210.5, t1, nil, nil, nil).
		AddRow(int64(2), int64(101), int64(2), 12000.0, t2, nil, nil, nil)

	mock.ExpectQuery("SELECT DISTINCT ON \\(vehicle_id\\)").
		WillReturnRows(rows)

	last, err := repo.LastByVehicle(ctx)

	assert.NoError(t, err)
	require.Len(t, last, 2)
	require.NotNil(t, last[1])
	assert.Equal(t, int64(100), last[1].ExternalID)
	assert.True(t, last[2].OccurredAt.Equal(t2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFuelEventListByVehicle_DatabaseError(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()

	repo := NewFuelEventRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM fuel_events WHERE vehicle_id = (.+)").
		WithArgs(int64(1), 10).
		WillReturnError(errors.New("connection reset"))

	events, err := repo.ListByVehicle(ctx, 1, 10)

	assert.Error(t, err)
	assert.Nil(t, events)
	assert.NoError(t, mock.ExpectationsWereMet())
}
