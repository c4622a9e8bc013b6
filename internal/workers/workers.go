package workers

import (
	"context"
	"sync"

	"github.com/MKhiriev/agricheck/internal/config"
	"github.com/MKhiriev/agricheck/internal/logger"
	"github.com/MKhiriev/agricheck/internal/store"
)

type Workers struct {
	workers []Worker
}

// NewWorkers builds the configured background jobs. Disabled jobs are left
// out.
func NewWorkers(storages *store.Storages, cfg config.Workers, logger *logger.Logger) *Workers {
	w := &Workers{}
	if cfg.JanitorInterval > 0 {
		w.workers = append(w.workers, NewResetTokenJanitor(storages.UserRepository, cfg.JanitorInterval, logger))
	}
	logger.Info().Int("count", len(w.workers)).Msg("background workers created")
	return w
}

// Run starts every worker in its own goroutine and blocks until all of them
// have returned.
func (w *Workers) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, worker := range w.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker.Run(ctx)
		}()
	}
	wg.Wait()
}
