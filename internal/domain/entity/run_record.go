package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/nakool/upgrade-notify/internal/domain/valueobject"
)

// RunRecord is one completed notification run as persisted in history.
type RunRecord struct {
	id             string
	host           string
	status         valueobject.UpdateStatus
	rebootRequired bool
	subject        string
	threadID       string
	notifiedAt     time.Time
	createdAt      time.Time
}

// NewRunRecord creates a record for a run that was just notified (Factory
// Method). The id is supplied by the caller so that logs, events and
// history share one run identifier; an empty id gets a fresh one.
func NewRunRecord(
	id string,
	host string,
	status valueobject.UpdateStatus,
	rebootRequired bool,
	subject string,
	threadID string,
	notifiedAt time.Time,
) (*RunRecord, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}
	if id == "" {
		id = uuid.New().String()
	}
	if notifiedAt.IsZero() {
		notifiedAt = time.Now()
	}
	return &RunRecord{
		id:             id,
		host:           host,
		status:         status,
		rebootRequired: rebootRequired,
		subject:        subject,
		threadID:       threadID,
		notifiedAt:     notifiedAt,
		createdAt:      time.Now(),
	}, nil
}

// ReconstructRunRecord restores a record from storage (for Repository).
func ReconstructRunRecord(
	id string,
	host string,
	status valueobject.UpdateStatus,
	rebootRequired bool,
	subject string,
	threadID string,
	notifiedAt, createdAt time.Time,
) *RunRecord {
	return &RunRecord{
		id:             id,
		host:           host,
		status:         status,
		rebootRequired: rebootRequired,
		subject:        subject,
		threadID:       threadID,
		notifiedAt:     notifiedAt,
		createdAt:      createdAt,
	}
}

// ID returns the run identifier.
func (r *RunRecord) ID() string {
	return r.id
}

// Host returns the host the run executed on.
func (r *RunRecord) Host() string {
	return r.host
}

// Status returns the classified outcome of the run.
func (r *RunRecord) Status() valueobject.UpdateStatus {
	return r.status
}

// RebootRequired reports whether the run flagged a pending reboot.
func (r *RunRecord) RebootRequired() bool {
	return r.rebootRequired
}

// Subject returns the extracted subject line.
func (r *RunRecord) Subject() string {
	return r.subject
}

// ThreadID returns the chat message identifier of the main notification.
func (r *RunRecord) ThreadID() string {
	return r.threadID
}

// NotifiedAt returns when the notification was dispatched.
func (r *RunRecord) NotifiedAt() time.Time {
	return r.notifiedAt
}

// CreatedAt returns when the record was created.
func (r *RunRecord) CreatedAt() time.Time {
	return r.createdAt
}
