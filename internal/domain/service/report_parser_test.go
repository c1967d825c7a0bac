package service

import (
	"testing"

	"github.com/nakool/upgrade-notify/internal/domain/entity"
)

func report(lines ...string) *entity.UpgradeReport {
	return entity.NewUpgradeReport(lines)
}

func TestReportParser_LastSubject(t *testing.T) {
	parser := NewReportParser()

	tests := []struct {
		name     string
		lines    []string
		want     string
		wantOk   bool
	}{
		{
			name:   "no subject line",
			lines:  []string{"From: root@web01\n", "body text\n"},
			want:   "",
			wantOk: false,
		},
		{
			name:   "single subject",
			lines:  []string{"Subject: unattended-upgrades result for web01: SUCCESS\n"},
			want:   "unattended-upgrades result for web01: SUCCESS",
			wantOk: true,
		},
		{
			name: "last subject wins",
			lines: []string{
				"Subject: old forwarded subject\n",
				"some body\n",
				"Subject: unattended-upgrades result for web01: FAILED\n",
			},
			want:   "unattended-upgrades result for web01: FAILED",
			wantOk: true,
		},
		{
			name:   "whitespace trimmed",
			lines:  []string{"Subject:   padded subject   \n"},
			want:   "padded subject",
			wantOk: true,
		},
		{
			name:   "empty remainder still found",
			lines:  []string{"Subject:\n"},
			want:   "",
			wantOk: true,
		},
		{
			name:   "prefix must start the line",
			lines:  []string{"  Subject: indented\n"},
			want:   "",
			wantOk: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := parser.LastSubject(report(tc.lines...))
			if ok != tc.wantOk {
				t.Fatalf("LastSubject() ok = %v, want %v", ok, tc.wantOk)
			}
			if got != tc.want {
				t.Fatalf("LastSubject() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestReportParser_ContentSpan(t *testing.T) {
	parser := NewReportParser()

	tests := []struct {
		name      string
		lines     []string
		wantFound bool
		wantStart int
		wantEnd   int
	}{
		{
			name: "start and end markers",
			lines: []string{
				"Subject: result\n",
				"Unattended upgrade result: success\n",
				"linux-image upgraded\n",
				"Package installation log:\n",
				"Log started: 2026-08-30\n",
			},
			wantFound: true,
			wantStart: 1,
			wantEnd:   2,
		},
		{
			name: "start match nearest the end wins",
			lines: []string{
				"Unattended upgrade result: quoted copy\n",
				"\n",
				"No packages found that can be upgraded\n",
				"Package installation log:\n",
			},
			wantFound: true,
			wantStart: 2,
			wantEnd:   2,
		},
		{
			name: "no end marker falls back to last non-blank line",
			lines: []string{
				"Subject: result\n",
				"Starting unattended upgrades script\n",
				"all upgrades installed\n",
				"\n",
				"   \n",
			},
			wantFound: true,
			wantStart: 1,
			wantEnd:   2,
		},
		{
			name: "no start marker means not found",
			lines: []string{
				"Subject: result\n",
				"nothing recognizable here\n",
				"Package installation log:\n",
			},
			wantFound: false,
		},
		{
			name: "end marker on first line yields inverted span",
			lines: []string{
				"Package installation log:\n",
				"Unattended upgrade result: success\n",
			},
			wantFound: true,
			wantStart: 1,
			wantEnd:   -1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			span := parser.ContentSpan(report(tc.lines...))
			if span.Found() != tc.wantFound {
				t.Fatalf("ContentSpan() found = %v, want %v", span.Found(), tc.wantFound)
			}
			if !tc.wantFound {
				return
			}
			if span.Start() != tc.wantStart || span.End() != tc.wantEnd {
				t.Fatalf("ContentSpan() = (%d, %d), want (%d, %d)",
					span.Start(), span.End(), tc.wantStart, tc.wantEnd)
			}
		})
	}
}

func TestReportParser_LogSpan(t *testing.T) {
	parser := NewReportParser()

	tests := []struct {
		name      string
		lines     []string
		wantFound bool
		wantStart int
		wantEnd   int
		wantEmpty bool
	}{
		{
			name: "both markers",
			lines: []string{
				"Unattended upgrade result: success\n",
				"Package installation log:\n",
				"Log started: 2026-08-30 06:25\n",
				"Preparing to unpack libssl3\n",
				"Log ended: 2026-08-30 06:27\n",
			},
			wantFound: true,
			wantStart: 1,
			wantEnd:   3,
			wantEmpty: false,
		},
		{
			name: "missing end marker",
			lines: []string{
				"Package installation log:\n",
				"Log started: 2026-08-30 06:25\n",
			},
			wantFound: false,
		},
		{
			name: "missing start marker",
			lines: []string{
				"some content\n",
				"Log ended: 2026-08-30 06:27\n",
			},
			wantFound: false,
		},
		{
			name: "inverted markers found but empty",
			lines: []string{
				"Log ended: 2026-08-30 06:27\n",
				"Package installation log:\n",
			},
			wantFound: true,
			wantStart: 1,
			wantEnd:   -1,
			wantEmpty: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			span := parser.LogSpan(report(tc.lines...))
			if span.Found() != tc.wantFound {
				t.Fatalf("LogSpan() found = %v, want %v", span.Found(), tc.wantFound)
			}
			if !tc.wantFound {
				return
			}
			if span.Start() != tc.wantStart || span.End() != tc.wantEnd {
				t.Fatalf("LogSpan() = (%d, %d), want (%d, %d)",
					span.Start(), span.End(), tc.wantStart, tc.wantEnd)
			}
			if span.Empty() != tc.wantEmpty {
				t.Fatalf("LogSpan() empty = %v, want %v", span.Empty(), tc.wantEmpty)
			}
		})
	}
}

// Full upgrade email walked through every extraction in one place.
func TestReportParser_FullEmail(t *testing.T) {
	parser := NewReportParser()
	rep := report(
		"From: root@web01 (Cron Daemon)\n",
		"Subject: unattended-upgrades result for web01: SUCCESS\n",
		"\n",
		"Unattended upgrade result: All upgrades installed\n",
		"\n",
		"Packages that were upgraded:\n",
		" libssl3 linux-image-generic\n",
		"\n",
		"Package installation log:\n",
		"Log started: 2026-08-30  06:25:01\n",
		"Preparing to unpack .../libssl3_3.0.2_amd64.deb ...\n",
		"Setting up libssl3 (3.0.2) ...\n",
		"Log ended: 2026-08-30  06:26:12\n",
	)

	subject, ok := parser.LastSubject(rep)
	if !ok || subject != "unattended-upgrades result for web01: SUCCESS" {
		t.Fatalf("LastSubject() = %q, %v", subject, ok)
	}

	content := parser.ContentSpan(rep)
	if content.Start() != 3 || content.End() != 7 {
		t.Fatalf("ContentSpan() = (%d, %d), want (3, 7)", content.Start(), content.End())
	}
	contentText := rep.JoinSpan(content)
	if contentText == "" {
		t.Fatalf("expected non-empty content text")
	}

	logSpan := parser.LogSpan(rep)
	if logSpan.Start() != 8 || logSpan.End() != 11 {
		t.Fatalf("LogSpan() = (%d, %d), want (8, 11)", logSpan.Start(), logSpan.End())
	}
	logText := rep.JoinSpan(logSpan)
	if logText == "" {
		t.Fatalf("expected non-empty log text")
	}
}
