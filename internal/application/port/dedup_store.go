package port

import "context"

// DedupStore remembers recently notified run fingerprints (Port). It lets
// hosts that mail an identical "no updates" report every few hours skip
// re-notifying the channel within the configured window.
type DedupStore interface {
	// Seen reports whether the fingerprint was marked within the window.
	Seen(ctx context.Context, fingerprint string) (bool, error)

	// Mark records the fingerprint; it expires after the window.
	Mark(ctx context.Context, fingerprint string) error

	// Close closes the underlying connection.
	Close() error
}
