package cloudwatch

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	applicationPort "github.com/nakool/upgrade-notify/internal/application/port"
)

func TestConvertToLogEvent(t *testing.T) {
	timestamp := time.Date(2026, 8, 30, 6, 25, 0, 0, time.UTC)
	entry := applicationPort.LogEntry{
		Timestamp: timestamp,
		Level:     applicationPort.LogLevelInfo,
		Message:   "Main message sent",
		Fields: map[string]interface{}{
			"run_id":    "a2f1",
			"thread_id": "1700000000.000001",
			"lines":     42,
		},
	}

	event, err := convertToLogEvent(entry)
	if err != nil {
		t.Fatalf("Failed to convert log entry: %v", err)
	}

	expectedTimestamp := timestamp.UnixMilli()
	if event.Timestamp == nil || *event.Timestamp != expectedTimestamp {
		t.Errorf("Expected Timestamp=%d, got %v", expectedTimestamp, event.Timestamp)
	}

	if event.Message == nil {
		t.Fatal("Expected Message to be set")
	}

	var logData map[string]interface{}
	if err := json.Unmarshal([]byte(*event.Message), &logData); err != nil {
		t.Fatalf("Failed to parse log message as JSON: %v", err)
	}

	if logData["level"] != string(applicationPort.LogLevelInfo) {
		t.Errorf("Expected level=INFO, got %v", logData["level"])
	}
	if logData["message"] != "Main message sent" {
		t.Errorf("Expected message='Main message sent', got %v", logData["message"])
	}

	fields, ok := logData["fields"].(map[string]interface{})
	if !ok {
		t.Fatal("Expected fields to be a map")
	}
	if fields["run_id"] != "a2f1" {
		t.Errorf("Expected run_id=a2f1, got %v", fields["run_id"])
	}
	// Note: JSON numbers are float64
	if lines, ok := fields["lines"].(float64); !ok || lines != 42 {
		t.Errorf("Expected lines=42, got %v", fields["lines"])
	}
}

func TestConvertToLogEvent_NoFields(t *testing.T) {
	entry := applicationPort.LogEntry{
		Timestamp: time.Now(),
		Level:     applicationPort.LogLevelError,
		Message:   "Failed to send main message",
		Fields:    nil,
	}

	event, err := convertToLogEvent(entry)
	if err != nil {
		t.Fatalf("Failed to convert log entry: %v", err)
	}
	if event.Message == nil {
		t.Fatal("Expected Message to be set")
	}

	var logData map[string]interface{}
	if err := json.Unmarshal([]byte(*event.Message), &logData); err != nil {
		t.Fatalf("Failed to parse log message as JSON: %v", err)
	}
	if logData["level"] != string(applicationPort.LogLevelError) {
		t.Errorf("Expected level=ERROR, got %v", logData["level"])
	}
}

func TestConvertToLogEvent_Truncation(t *testing.T) {
	entry := applicationPort.LogEntry{
		Timestamp: time.Now(),
		Level:     applicationPort.LogLevelInfo,
		Message:   strings.Repeat("x", maxLogEventSize+1000),
		Fields:    nil,
	}

	event, err := convertToLogEvent(entry)
	if err != nil {
		t.Fatalf("Failed to convert log entry: %v", err)
	}
	if event.Message == nil {
		t.Fatal("Expected Message to be set")
	}
	if len(*event.Message) > maxLogEventSize {
		t.Errorf("Expected message truncated to %d bytes, got %d", maxLogEventSize, len(*event.Message))
	}
	if !strings.HasSuffix(*event.Message, "...") {
		t.Errorf("Expected truncation marker at message end")
	}
}
