package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fleetfix/fleetfix/internal/domain/ports"
)

// settingsRepository implements the SettingsRepository interface using PostgreSQL
type settingsRepository struct {
	db dbExecutor
}

// NewSettingsRepository creates a new PostgreSQL settings repository
func NewSettingsRepository(db dbExecutor) ports.SettingsRepository {
	return &settingsRepository{db: db}
}

// Get returns the stored value for key, or fallback when no row exists.
func (r *settingsRepository) Get(ctx context.Context, key string, fallback float64) (float64, error) {
	var value float64
	err := r.db.GetContext(ctx, &value, `SELECT value FROM settings WHERE key = $1`, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fallback, nil
		}
		return 0, fmt.Errorf("failed to get setting %q: %w", key, err)
	}
	return value, nil
}

func (r *settingsRepository) Put(ctx context.Context, key string, value float64) error {
	query := `
		INSERT INTO settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`

	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to put setting %q: %w", key, err)
	}

	return nil
}
