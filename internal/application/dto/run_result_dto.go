package dto

import (
	"strings"
	"time"

	"github.com/nakool/upgrade-notify/internal/domain/valueobject"
)

// RunResult is the structured outcome of one notification run: the
// extracted sections plus the classification, ready for the presentation
// layer. It is derived once and never mutated by collaborators.
type RunResult struct {
	RunID          string
	Subject        string
	Content        string
	Log            string // empty when the report carried no installation log
	Status         valueobject.UpdateStatus
	StatusLabel    string
	RebootRequired bool
	MentionText    string
	ThreadID       string // set after the main message was dispatched
}

// HasLog reports whether the run carried a non-blank installation log.
func (r RunResult) HasLog() bool {
	return strings.TrimSpace(r.Log) != ""
}

// RunEvent is the payload published to the message broker after a run was
// notified.
type RunEvent struct {
	RunID          string    `json:"run_id"`
	Host           string    `json:"host"`
	Status         string    `json:"status"`
	RebootRequired bool      `json:"reboot_required"`
	Subject        string    `json:"subject"`
	ThreadID       string    `json:"thread_id,omitempty"`
	NotifiedAt     time.Time `json:"notified_at"`
}

// NewRunEvent builds the broker event for a completed run.
func NewRunEvent(result RunResult, host string, notifiedAt time.Time) RunEvent {
	return RunEvent{
		RunID:          result.RunID,
		Host:           host,
		Status:         string(result.Status),
		RebootRequired: result.RebootRequired,
		Subject:        result.Subject,
		ThreadID:       result.ThreadID,
		NotifiedAt:     notifiedAt,
	}
}

// FormatMentions renders notification targets as chat mention tokens,
// comma separated: "<@U076T6095FG>, <!subteam^SAZ94GDB8>". Targets come in
// already prefixed for Slack mention syntax; an empty list yields an
// empty string.
func FormatMentions(targets []string) string {
	if len(targets) == 0 {
		return ""
	}
	wrapped := make([]string, 0, len(targets))
	for _, target := range targets {
		if target == "" {
			continue
		}
		wrapped = append(wrapped, "<"+target+">")
	}
	return strings.Join(wrapped, ", ")
}
