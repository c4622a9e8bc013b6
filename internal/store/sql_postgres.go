package store

import (
	"context"
	"database/sql"

	"github.com/MKhiriev/agricheck/internal/config"
	"github.com/MKhiriev/agricheck/internal/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// NewConnectPostgres opens a pgx-backed pool for a postgres:// DSN.
func NewConnectPostgres(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	return open(ctx, "pgx", cfg.DSN, DialectPostgres, NewPostgresErrorClassifier(), func(conn *sql.DB) {
		conn.SetMaxOpenConns(10)
		conn.SetMaxIdleConns(4)
	}, log)
}
