package service

import (
	"strings"

	"github.com/nakool/upgrade-notify/internal/domain/valueobject"
)

// compoundRule requires all of its patterns at once and outranks every
// single-pattern rule: a bare "no packages found" is ambiguous until the
// reboot signal confirms the machine is waiting on a restart.
var compoundRule = valueobject.NewStatusRule(
	valueobject.StatusNoUpdatesRebootPending,
	":warning:",
	"No Updates/Reboot Pending",
	"no packages found that can be upgraded",
	"reboot required",
)

// priorityRules is evaluated top to bottom with any-of matching. Failure
// signals come first so a coincidental "success" somewhere in a long log
// can never mask them; "warning" likewise precedes "success".
var priorityRules = []valueobject.StatusRule{
	valueobject.NewStatusRule(valueobject.StatusFailed, ":red_circle:", "Failed",
		"failed", "error"),
	valueobject.NewStatusRule(valueobject.StatusWarning, ":warning:", "Warning",
		"warning"),
	valueobject.NewStatusRule(valueobject.StatusSuccess, ":white_check_mark:", "Success",
		"success", "all upgrades installed"),
	valueobject.NewStatusRule(valueobject.StatusNoUpdates, ":information_source:", "No Updates Available",
		"no packages found", "no packages found that can be upgraded"),
	valueobject.NewStatusRule(valueobject.StatusInfo, ":information_source:", "Info"),
}

// rebootPatterns is unrelated to the status rules: reboot detection is an
// independent axis, a run can be SUCCESS and still require a reboot.
var rebootPatterns = []string{
	"reboot required",
	"reboot-required",
	"reboot_required",
	"reboot is required",
}

// StatusClassifier maps extracted subject and content text to exactly one
// update status (Domain Service).
type StatusClassifier struct{}

// NewStatusClassifier creates a new StatusClassifier.
func NewStatusClassifier() *StatusClassifier {
	return &StatusClassifier{}
}

// Classify returns the rule for the run's status. The compound
// NO_UPDATES_REBOOT_PENDING check runs first against the combined
// "subject content" text; the remaining rules match against the subject
// alone or the content alone, in priority order. Nothing matching falls
// back to INFO.
func (c *StatusClassifier) Classify(subject, content string) valueobject.StatusRule {
	subjectFold := strings.ToLower(subject)
	contentFold := strings.ToLower(content)

	combined := subjectFold + " " + contentFold
	if compoundRule.MatchesAll(combined) {
		return compoundRule
	}

	for _, rule := range priorityRules {
		if rule.MatchesAny(subjectFold) || rule.MatchesAny(contentFold) {
			return rule
		}
	}

	return RuleFor(valueobject.StatusInfo)
}

// RebootRequired reports whether either text carries a reboot signal.
func (c *StatusClassifier) RebootRequired(subject, content string) bool {
	subjectFold := strings.ToLower(subject)
	contentFold := strings.ToLower(content)

	for _, pattern := range rebootPatterns {
		if strings.Contains(subjectFold, pattern) || strings.Contains(contentFold, pattern) {
			return true
		}
	}
	return false
}

// RuleFor returns the rule record for a status, used by presentation to
// recover emoji and label from a bare status value. Unknown statuses get
// the INFO rule.
func RuleFor(status valueobject.UpdateStatus) valueobject.StatusRule {
	if status == valueobject.StatusNoUpdatesRebootPending {
		return compoundRule
	}
	var info valueobject.StatusRule
	for _, rule := range priorityRules {
		if rule.Status() == status {
			return rule
		}
		if rule.Status() == valueobject.StatusInfo {
			info = rule
		}
	}
	return info
}
