package port

import (
	"context"

	"github.com/nakool/upgrade-notify/internal/domain/entity"
)

// ReportSource yields the report to process (Port). One invocation reads
// exactly one document; implementations own any temporary resources the
// read required and release them on Close.
type ReportSource interface {
	// Read materializes the input into an ordered line sequence. Lines
	// keep their original terminators.
	Read(ctx context.Context) (*entity.UpgradeReport, error)

	// Name returns a human-readable description of where the report came
	// from, used in error notifications.
	Name() string

	// Close releases any temporary resources. Safe to call more than once.
	Close() error
}
