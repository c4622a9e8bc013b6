// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/agricheck/internal/logger"
)

// ResetTokenJanitor periodically clears password-reset tokens whose expiry
// has passed. Expired tokens are already rejected on redemption; the janitor
// only keeps the column tidy.
type ResetTokenJanitor struct {
	users    resetTokenCleaner
	interval time.Duration
	now      func() time.Time

	logger *logger.Logger
}

func NewResetTokenJanitor(users resetTokenCleaner, interval time.Duration, logger *logger.Logger) *ResetTokenJanitor {
	return &ResetTokenJanitor{
		users:    users,
		interval: interval,
		now:      time.Now,
		logger:   logger.WithComponent("reset_token_janitor"),
	}
}

// Run sweeps once per interval until ctx is done. A non-positive interval
// returns immediately.
func (j *ResetTokenJanitor) Run(ctx context.Context) {
	if j.interval <= 0 {
		return
	}

	j.logger.Info().Dur("interval", j.interval).Msg("reset token janitor started")
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info().Msg("reset token janitor stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *ResetTokenJanitor) sweep(ctx context.Context) {
	cleared, err := j.users.ClearExpiredResetTokens(ctx, j.now().UTC())
	if err != nil {
		j.logger.Err(err).Msg("error clearing expired reset tokens")
		return
	}
	if cleared > 0 {
		j.logger.Info().Int64("cleared", cleared).Msg("expired reset tokens cleared")
	}
}
