package port

import "context"

// ReportArchive stores raw report text for later inspection (Port).
// Archival is best-effort: a failing archive never changes the outcome of
// a notification run.
type ReportArchive interface {
	// Store uploads the raw report under the given key and returns the
	// location of the stored object.
	Store(ctx context.Context, key string, body []byte) (string, error)
}
