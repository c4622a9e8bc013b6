package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/agricheck/internal/config"
	"github.com/MKhiriev/agricheck/internal/logger"
	"github.com/MKhiriev/agricheck/internal/utils"
)

// Storages bundles the repositories and the image store used by the
// service layer.
type Storages struct {
	UserRepository UserRepository
	ScanRepository ScanRepository
	ImageStore     ImageStore

	db *DB
}

// NewStorages connects to the database selected by cfg.DB.DSN, applies
// migrations and opens the image store: S3 when a bucket is configured,
// the local upload directory otherwise.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	db, err := NewConnect(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if err = db.Migrate(); err != nil {
		log.Err(err).Str("func", "NewStorages").Msg("error applying migrations")
		_ = db.Close()
		return nil, err
	}

	var images ImageStore
	if cfg.S3.Bucket != "" {
		images, err = NewS3ImageStore(ctx, cfg.S3, log)
	} else {
		images, err = NewFileImageStore(cfg.Files.UploadDir, log)
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error opening image store: %w", err)
	}

	ids := utils.NewUUIDGenerator()
	return &Storages{
		UserRepository: NewUserRepository(db, ids, log),
		ScanRepository: NewScanRepository(db, ids, log),
		ImageStore:     images,
		db:             db,
	}, nil
}

// Close closes the database connection pool.
func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
