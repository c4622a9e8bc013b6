package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/MKhiriev/agricheck/internal/logger"
	"github.com/MKhiriev/agricheck/models"
)

// fileImageStore keeps images as files in a single local directory.
type fileImageStore struct {
	dir    string
	logger *logger.Logger
}

// NewFileImageStore creates dir if needed and returns an [ImageStore]
// writing into it.
func NewFileImageStore(dir string, logger *logger.Logger) (ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating upload directory %q: %w", dir, err)
	}
	logger.Debug().Str("dir", dir).Msg("file image store ready")
	return &fileImageStore{dir: dir, logger: logger}, nil
}

func (f *fileImageStore) Save(ctx context.Context, key string, data []byte, _ string) error {
	if !validKey(key) {
		return fmt.Errorf("%w: %q", ErrInvalidImageKey, key)
	}
	if err := os.WriteFile(filepath.Join(f.dir, key), data, 0o644); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "fileImageStore.Save").Str("key", key).Msg("failed to write image")
		return fmt.Errorf("error writing image %q: %w", key, err)
	}
	return nil
}

func (f *fileImageStore) Load(_ context.Context, key string) (models.ScanImage, error) {
	if !validKey(key) {
		return models.ScanImage{}, ErrImageNotFound
	}
	data, err := os.ReadFile(filepath.Join(f.dir, key))
	if errors.Is(err, fs.ErrNotExist) {
		return models.ScanImage{}, ErrImageNotFound
	}
	if err != nil {
		return models.ScanImage{}, fmt.Errorf("error reading image %q: %w", key, err)
	}
	return models.ScanImage{Data: data, MediaType: MediaTypeForKey(key)}, nil
}

func (f *fileImageStore) Delete(_ context.Context, key string) error {
	if !validKey(key) {
		return fmt.Errorf("%w: %q", ErrInvalidImageKey, key)
	}
	err := os.Remove(filepath.Join(f.dir, key))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrImageNotFound
	}
	if err != nil {
		return fmt.Errorf("error removing image %q: %w", key, err)
	}
	return nil
}
