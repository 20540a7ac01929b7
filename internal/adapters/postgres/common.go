package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fleetfix/fleetfix/internal/logger"
)

// dbExecutor is an interface that both *sqlx.DB and *sqlx.Tx implement.
// This allows repositories to work with either a database connection or a
// transaction.
type dbExecutor interface {
	sqlx.Queryer
	sqlx.Execer
	sqlx.Preparer
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
}

// observe records query latency under the given operation label. Use as
// defer observe("vehicles.get")().
func observe(operation string) func() {
	start := time.Now()
	return func() {
		logger.DatabaseQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}
