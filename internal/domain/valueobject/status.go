package valueobject

import "strings"

// UpdateStatus classifies the overall outcome of an unattended-upgrades run.
// The set is closed; StatusInfo is the fallback when nothing else matches.
type UpdateStatus string

const (
	StatusNoUpdates              UpdateStatus = "NO_UPDATES"
	StatusNoUpdatesRebootPending UpdateStatus = "NO_UPDATES_REBOOT_PENDING"
	StatusSuccess                UpdateStatus = "SUCCESS"
	StatusFailed                 UpdateStatus = "FAILED"
	StatusWarning                UpdateStatus = "WARNING"
	StatusInfo                   UpdateStatus = "INFO"
)

// Validate checks that the status is one of the known variants.
func (s UpdateStatus) Validate() error {
	switch s {
	case StatusNoUpdates, StatusNoUpdatesRebootPending, StatusSuccess,
		StatusFailed, StatusWarning, StatusInfo:
		return nil
	}
	return &UnknownStatusError{Status: string(s)}
}

// UnknownStatusError is returned when a status string is outside the
// closed variant set.
type UnknownStatusError struct {
	Status string
}

func (e *UnknownStatusError) Error() string {
	return "unknown update status: " + e.Status
}

// StatusRule is an immutable pattern-rule record: the status it selects,
// presentation metadata, and the lowercase substring patterns that select
// it. Notification targets are deliberately not part of the rule; they are
// environment configuration joined in at assembly time.
type StatusRule struct {
	status   UpdateStatus
	emoji    string
	label    string
	patterns []string
}

// NewStatusRule creates a rule. Patterns are stored casefolded so that
// matching against casefolded text is a plain substring check.
func NewStatusRule(status UpdateStatus, emoji, label string, patterns ...string) StatusRule {
	folded := make([]string, len(patterns))
	for i, p := range patterns {
		folded[i] = strings.ToLower(p)
	}
	return StatusRule{
		status:   status,
		emoji:    emoji,
		label:    label,
		patterns: folded,
	}
}

// Status returns the status the rule selects.
func (r StatusRule) Status() UpdateStatus {
	return r.status
}

// Emoji returns the emoji code shown next to the status label.
func (r StatusRule) Emoji() string {
	return r.emoji
}

// Label returns the human-readable status text.
func (r StatusRule) Label() string {
	return r.label
}

// Patterns returns a copy of the rule's patterns.
func (r StatusRule) Patterns() []string {
	return append([]string(nil), r.patterns...)
}

// MatchesAny reports whether any pattern occurs in the casefolded text.
// A rule without patterns never matches.
func (r StatusRule) MatchesAny(foldedText string) bool {
	for _, p := range r.patterns {
		if strings.Contains(foldedText, p) {
			return true
		}
	}
	return false
}

// MatchesAll reports whether every pattern occurs in the casefolded text.
// Used for compound rules that outrank single-pattern matching.
func (r StatusRule) MatchesAll(foldedText string) bool {
	for _, p := range r.patterns {
		if !strings.Contains(foldedText, p) {
			return false
		}
	}
	return len(r.patterns) > 0
}
