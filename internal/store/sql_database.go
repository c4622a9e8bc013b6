package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/MKhiriev/agricheck/internal/config"
	"github.com/MKhiriev/agricheck/internal/logger"
	"github.com/MKhiriev/agricheck/migrations"
)

// Dialect names the SQL backend behind a [DB]. The values double as goose
// dialect names.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite3"
)

// DB is an open relational database together with the backend-specific
// error classifier used to recognise constraint violations.
type DB struct {
	*sql.DB
	dialect            Dialect
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// DialectFromDSN returns DialectPostgres for postgres:// and postgresql://
// URLs and DialectSQLite for anything else.
func DialectFromDSN(dsn string) Dialect {
	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return DialectPostgres
	}
	return DialectSQLite
}

// NewConnect opens the database selected by cfg.DSN.
func NewConnect(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	switch DialectFromDSN(cfg.DSN) {
	case DialectPostgres:
		return NewConnectPostgres(ctx, cfg, log)
	default:
		return NewConnectSQLite(ctx, cfg, log)
	}
}

// open connects with driver, applies the pool settings and pings the server.
func open(ctx context.Context, driver, dsn string, dialect Dialect, classifier ErrorClassificator, pool func(*sql.DB), log *logger.Logger) (*DB, error) {
	log = log.WithComponent(string(dialect))

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		log.Err(err).Msg("error opening database")
		return nil, fmt.Errorf("error opening %s database: %w", dialect, err)
	}
	pool(conn)

	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Msg("error pinging database")
		_ = conn.Close()
		return nil, fmt.Errorf("error pinging %s database: %w", dialect, err)
	}
	log.Info().Msg("connected to database")

	return &DB{
		DB:                 conn,
		dialect:            dialect,
		errorClassificator: classifier,
		logger:             log,
	}, nil
}

// Dialect reports the backend of db.
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// Migrate applies the embedded schema migrations.
func (db *DB) Migrate() error {
	if err := migrations.Migrate(db.DB, string(db.dialect)); err != nil {
		return fmt.Errorf("error migrating %s database: %w", db.dialect, err)
	}
	return nil
}
