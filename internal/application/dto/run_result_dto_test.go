package dto

import (
	"testing"
	"time"

	"github.com/nakool/upgrade-notify/internal/domain/valueobject"
)

func TestFormatMentions(t *testing.T) {
	tests := []struct {
		name    string
		targets []string
		want    string
	}{
		{name: "empty", targets: nil, want: ""},
		{name: "user", targets: []string{"@U076T6095FG"}, want: "<@U076T6095FG>"},
		{
			name:    "mixed targets",
			targets: []string{"@U076T6095FG", "!subteam^SAZ94GDB8", "!here"},
			want:    "<@U076T6095FG>, <!subteam^SAZ94GDB8>, <!here>",
		},
		{name: "blank targets skipped", targets: []string{"", "@U076T6095FG", ""}, want: "<@U076T6095FG>"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatMentions(tc.targets); got != tc.want {
				t.Fatalf("FormatMentions() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRunResult_HasLog(t *testing.T) {
	if (RunResult{Log: ""}).HasLog() {
		t.Fatalf("empty log must report HasLog false")
	}
	if (RunResult{Log: "  \n\t"}).HasLog() {
		t.Fatalf("blank log must report HasLog false")
	}
	if !(RunResult{Log: "Log started\n"}).HasLog() {
		t.Fatalf("expected HasLog true")
	}
}

func TestNewRunEvent(t *testing.T) {
	notifiedAt := time.Date(2026, 8, 30, 6, 26, 12, 0, time.UTC)
	result := RunResult{
		RunID:          "run-1",
		Subject:        "unattended-upgrades result for web01: SUCCESS",
		Status:         valueobject.StatusSuccess,
		RebootRequired: true,
		ThreadID:       "1700000000.000001",
	}

	event := NewRunEvent(result, "web01", notifiedAt)
	if event.RunID != "run-1" || event.Host != "web01" {
		t.Fatalf("unexpected event identity: %+v", event)
	}
	if event.Status != "SUCCESS" || !event.RebootRequired {
		t.Fatalf("unexpected event outcome: %+v", event)
	}
	if !event.NotifiedAt.Equal(notifiedAt) {
		t.Fatalf("NotifiedAt = %v, want %v", event.NotifiedAt, notifiedAt)
	}
}
