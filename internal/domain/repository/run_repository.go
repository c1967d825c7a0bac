package repository

import (
	"context"
	"time"

	"github.com/nakool/upgrade-notify/internal/domain/entity"
)

// RunRepository persists completed notification runs.
type RunRepository interface {
	// Save stores one run record.
	Save(ctx context.Context, record *entity.RunRecord) error

	// FindRecentByHost returns the newest records for a host, most recent
	// first.
	FindRecentByHost(ctx context.Context, host string, limit int) ([]*entity.RunRecord, error)

	// DeleteOlderThan removes records notified before the cutoff and
	// returns how many were deleted.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
