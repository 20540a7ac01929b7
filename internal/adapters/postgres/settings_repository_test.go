package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fleetfix/fleetfix/internal/domain/models"
	"github.com/stretchr/testify/assert"
)

func TestSettingsGet_Stored(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()

	repo := NewSettingsRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT value FROM settings WHERE key = (.+)").
		WithArgs(models.SettingAlertKM).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(1500.0))

	value, err := repo.Get(ctx, models.SettingAlertKM, models.DefaultAlertKM)

	assert.NoError(t, err)
	assert.Equal(t, 1500.0, value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsGet_FallbackWhenMissing(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()

	repo := NewSettingsRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT value FROM settings WHERE key = (.+)").
		WithArgs(models.SettingAlertDays).
		WillReturnError(sql.ErrNoRows)

	value, err := repo.Get(ctx, models.SettingAlertDays, models.DefaultAlertDays)

	assert.NoError(t, err)
	assert.Equal(t, models.DefaultAlertDays, value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsPut_Upsert(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()

	repo := NewSettingsRepository(db)
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO settings").
		WithArgs(models.SettingAlertKM, 2000.0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Put(ctx, models.SettingAlertKM, 2000.0)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLookupList(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()

	repo := NewLookupRepository(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "name"}).
		AddRow(int64(1), "Motor").
		AddRow(int64(2), "Suspensão")

	mock.ExpectQuery("SELECT id, name FROM categories ORDER BY name").
		WillReturnRows(rows)

	lookups, err := repo.List(ctx, models.LookupCategory)

	assert.NoError(t, err)
	assert.Len(t, lookups, 2)
	assert.Equal(t, "Motor", lookups[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLookupList_UnknownKind(t *testing.T) {
	db, _ := setupTestDB(t)
	defer db.Close()

	repo := NewLookupRepository(db)

	lookups, err := repo.List(context.Background(), models.LookupKind("garages"))

	assert.Error(t, err)
	assert.Nil(t, lookups)
}

func TestLookupDelete_Success(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()

	repo := NewLookupRepository(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM workshops WHERE id = (.+)").
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(ctx, models.LookupWorkshop, 4)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
