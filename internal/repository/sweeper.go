package repository

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// LockoutPurger removes expired lockout records.
type LockoutPurger interface {
	PurgeExpiredLockouts(ctx context.Context) (int, error)
}

// StartLockoutSweeper purges expired lockouts with interval. Sessions are
// never swept; they have no expiry.
func StartLockoutSweeper(
	ctx context.Context,
	store LockoutPurger,
	interval time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := store.PurgeExpiredLockouts(ctx)
				if err != nil {
					log.Error("failed to purge expired lockouts", zap.Error(err))
					continue
				}
				if removed > 0 {
					log.Info("purged expired lockouts", zap.Int("removed", removed))
				}
			}
		}
	}()
}
