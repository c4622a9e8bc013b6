package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/agricheck/internal/config"
	"github.com/MKhiriev/agricheck/internal/logger"
)

const sqliteMemory = ":memory:"

// NewConnectSQLite opens a SQLite database, creating the file and its
// directory when they do not exist.
func NewConnectSQLite(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	if path := sqliteFilePath(cfg.DSN); path != sqliteMemory {
		if err := ensureFile(path); err != nil {
			log.Err(err).Str("path", path).Msg("error creating database file")
			return nil, fmt.Errorf("error creating database file: %w", err)
		}
	}

	// A single connection serialises writers and keeps :memory: alive.
	return open(ctx, "sqlite3", sqliteDSN(cfg.DSN), DialectSQLite, NewSQLiteErrorClassifier(), func(conn *sql.DB) {
		conn.SetMaxOpenConns(1)
	}, log)
}

// sqliteFilePath strips the "file:" prefix and query parameters from dsn.
func sqliteFilePath(dsn string) string {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return path
}

// sqliteDSN turns on foreign key enforcement so scans cascade with their user.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}

func ensureFile(path string) error {
	if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	return f.Close()
}
