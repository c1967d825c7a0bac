package entity

import (
	"testing"

	"github.com/nakool/upgrade-notify/internal/domain/valueobject"
)

func TestUpgradeReport_Immutable(t *testing.T) {
	lines := []string{"first\n", "second\n"}
	report := NewUpgradeReport(lines)

	lines[0] = "mutated\n"
	if report.Line(0) != "first\n" {
		t.Fatalf("report shares backing array with caller")
	}

	copied := report.Lines()
	copied[1] = "mutated\n"
	if report.Line(1) != "second\n" {
		t.Fatalf("Lines() must return a copy")
	}
}

func TestUpgradeReport_Text(t *testing.T) {
	report := NewUpgradeReport([]string{"a\n", "b\n", "c"})
	if report.Text() != "a\nb\nc" {
		t.Fatalf("Text() = %q", report.Text())
	}
}

func TestUpgradeReport_JoinSpan(t *testing.T) {
	report := NewUpgradeReport([]string{"zero\n", "one\n", "two\n", "three\n"})

	tests := []struct {
		name string
		span valueobject.Span
		want string
	}{
		{name: "not found", span: valueobject.Span{}, want: ""},
		{name: "single line", span: valueobject.NewSpan(1, 1), want: "one\n"},
		{name: "range", span: valueobject.NewSpan(1, 2), want: "one\ntwo\n"},
		{name: "inverted", span: valueobject.NewSpan(3, 1), want: ""},
		{name: "clamped below", span: valueobject.NewSpan(-2, 0), want: "zero\n"},
		{name: "clamped above", span: valueobject.NewSpan(3, 99), want: "three\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := report.JoinSpan(tc.span); got != tc.want {
				t.Fatalf("JoinSpan() = %q, want %q", got, tc.want)
			}
		})
	}
}
