// Package workers runs the background jobs of the agricheck server.
//
// A [Worker] runs until its context is cancelled. [Workers] starts a set of
// them and waits for all to return.
package workers

import (
	"context"
	"time"
)

// Worker is a long-running background job. Run blocks until ctx is done.
type Worker interface {
	Run(ctx context.Context)
}

// resetTokenCleaner is the part of the user repository the janitor needs.
type resetTokenCleaner interface {
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}
