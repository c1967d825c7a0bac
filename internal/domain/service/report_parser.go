package service

import (
	"strings"

	"github.com/nakool/upgrade-notify/internal/domain/entity"
	"github.com/nakool/upgrade-notify/internal/domain/valueobject"
)

const (
	subjectPrefix  = "Subject:"
	logStartPrefix = "Package installation log:"
	logEndPrefix   = "Log ended:"
)

// Boundary prefixes for the main content section. Matching is a
// case-sensitive prefix check at line start; when several lines match,
// the occurrence nearest the end of the file wins, not pattern order.
var (
	contentStartPrefixes = []string{
		"Unattended upgrade",
		"unattended upgrades",
		"No packages found",
		"Starting unattended upgrades script",
	}

	contentEndPrefixes = []string{
		logStartPrefix,
		"unattended-upgrades log:",
	}
)

// ReportParser locates the structural sections of an upgrade report
// (Domain Service). It only computes line spans and single extracted
// lines; joining spans back into text is the report entity's job.
type ReportParser struct{}

// NewReportParser creates a new ReportParser.
func NewReportParser() *ReportParser {
	return &ReportParser{}
}

// LastSubject returns the trimmed text after the last "Subject:" line in
// the report. Upgrade-run emails may carry several such lines (quoted
// headers); the one nearest the end is authoritative.
func (p *ReportParser) LastSubject(report *entity.UpgradeReport) (string, bool) {
	for i := report.Len() - 1; i >= 0; i-- {
		line := report.Line(i)
		if !strings.HasPrefix(line, subjectPrefix) {
			continue
		}
		subject := strings.TrimSpace(strings.TrimSpace(line)[len(subjectPrefix):])
		return subject, true
	}
	return "", false
}

// ContentSpan locates the main content section: one reverse pass tracking
// both boundaries, stopping as soon as both are known.
//
// The start boundary is the last line matching a start prefix. The end
// boundary is one line before the last line matching an end prefix; when
// no end marker exists the last non-blank line of the report closes the
// section. Without a start marker the section is not found at all.
func (p *ReportParser) ContentSpan(report *entity.UpgradeReport) valueobject.Span {
	start := -1
	end := -1
	endFound := false

	for i := report.Len() - 1; i >= 0; i-- {
		line := report.Line(i)

		if start < 0 && hasAnyPrefix(line, contentStartPrefixes) {
			start = i
		}
		if !endFound && hasAnyPrefix(line, contentEndPrefixes) {
			end = i - 1
			endFound = true
		}
		if start >= 0 && endFound {
			break
		}
	}

	if start < 0 {
		return valueobject.Span{}
	}

	if !endFound {
		for i := report.Len() - 1; i >= 0; i-- {
			if strings.TrimSpace(report.Line(i)) != "" {
				end = i
				endFound = true
				break
			}
		}
	}
	if !endFound {
		return valueobject.Span{}
	}

	return valueobject.NewSpan(start, end)
}

// LogSpan locates the package installation log: forward scan for the
// first log marker (the span starts at the marker line itself), reverse
// scan for the last "Log ended:" line (the span ends one line before it).
// Either boundary missing means not found. A found span may still be
// inverted when the markers are malformed; callers must treat such spans
// as empty, not joinable.
func (p *ReportParser) LogSpan(report *entity.UpgradeReport) valueobject.Span {
	start := -1
	for i := 0; i < report.Len(); i++ {
		if strings.HasPrefix(report.Line(i), logStartPrefix) {
			start = i
			break
		}
	}

	end := -1
	endFound := false
	for i := report.Len() - 1; i >= 0; i-- {
		if strings.HasPrefix(report.Line(i), logEndPrefix) {
			end = i - 1
			endFound = true
			break
		}
	}

	if start < 0 || !endFound {
		return valueobject.Span{}
	}

	return valueobject.NewSpan(start, end)
}

func hasAnyPrefix(line string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
