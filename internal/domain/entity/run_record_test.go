package entity

import (
	"testing"
	"time"

	"github.com/nakool/upgrade-notify/internal/domain/valueobject"
)

func TestNewRunRecord(t *testing.T) {
	notifiedAt := time.Date(2026, 8, 30, 6, 26, 12, 0, time.UTC)
	record, err := NewRunRecord(
		"run-1",
		"web01",
		valueobject.StatusSuccess,
		true,
		"unattended-upgrades result for web01: SUCCESS",
		"1700000000.000001",
		notifiedAt,
	)
	if err != nil {
		t.Fatalf("NewRunRecord() error = %v", err)
	}

	if record.ID() != "run-1" || record.Host() != "web01" {
		t.Fatalf("unexpected identity: id=%s host=%s", record.ID(), record.Host())
	}
	if record.Status() != valueobject.StatusSuccess || !record.RebootRequired() {
		t.Fatalf("unexpected outcome: status=%s reboot=%v", record.Status(), record.RebootRequired())
	}
	if !record.NotifiedAt().Equal(notifiedAt) {
		t.Fatalf("NotifiedAt() = %v, want %v", record.NotifiedAt(), notifiedAt)
	}
	if record.CreatedAt().IsZero() {
		t.Fatalf("expected CreatedAt to be set")
	}
}

func TestNewRunRecord_GeneratesID(t *testing.T) {
	record, err := NewRunRecord("", "web01", valueobject.StatusInfo, false, "subject", "", time.Time{})
	if err != nil {
		t.Fatalf("NewRunRecord() error = %v", err)
	}
	if record.ID() == "" {
		t.Fatalf("expected generated id")
	}
	if record.NotifiedAt().IsZero() {
		t.Fatalf("expected NotifiedAt defaulted")
	}
}

func TestNewRunRecord_RejectsUnknownStatus(t *testing.T) {
	if _, err := NewRunRecord("run-1", "web01", valueobject.UpdateStatus("BOGUS"), false, "s", "", time.Now()); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}

func TestReconstructRunRecord(t *testing.T) {
	notifiedAt := time.Date(2026, 8, 30, 6, 26, 12, 0, time.UTC)
	createdAt := notifiedAt.Add(time.Second)

	record := ReconstructRunRecord(
		"run-1", "web01", valueobject.StatusFailed, false, "subject", "", notifiedAt, createdAt)
	if record.Status() != valueobject.StatusFailed {
		t.Fatalf("Status() = %s", record.Status())
	}
	if !record.CreatedAt().Equal(createdAt) {
		t.Fatalf("CreatedAt() = %v, want %v", record.CreatedAt(), createdAt)
	}
}
