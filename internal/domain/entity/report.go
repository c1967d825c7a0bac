package entity

import (
	"strings"

	"github.com/nakool/upgrade-notify/internal/domain/valueobject"
)

// UpgradeReport is the raw unattended-upgrades email as an ordered line
// sequence (Aggregate Root). Lines keep their original terminators and the
// sequence is immutable once read; line indices are the addressing scheme
// used by every extraction operation.
type UpgradeReport struct {
	lines []string
}

// NewUpgradeReport creates a report from the lines of one input document.
func NewUpgradeReport(lines []string) *UpgradeReport {
	copied := make([]string, len(lines))
	copy(copied, lines)
	return &UpgradeReport{lines: copied}
}

// Len returns the number of lines in the report.
func (r *UpgradeReport) Len() int {
	return len(r.lines)
}

// Line returns the line at index i, terminator included.
func (r *UpgradeReport) Line(i int) string {
	return r.lines[i]
}

// Lines returns a copy of the full line sequence.
func (r *UpgradeReport) Lines() []string {
	return append([]string(nil), r.lines...)
}

// Text returns the whole report as one string.
func (r *UpgradeReport) Text() string {
	return strings.Join(r.lines, "")
}

// JoinSpan concatenates the lines the span selects, terminators included.
// An empty span yields an empty string.
func (r *UpgradeReport) JoinSpan(span valueobject.Span) string {
	if span.Empty() {
		return ""
	}
	start, end := span.Start(), span.End()
	if start < 0 {
		start = 0
	}
	if end >= len(r.lines) {
		end = len(r.lines) - 1
	}
	if start > end {
		return ""
	}
	return strings.Join(r.lines[start:end+1], "")
}
