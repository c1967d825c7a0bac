package port

import (
	"context"
	"time"
)

// LogLevel represents the severity of a log entry.
type LogLevel string

const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
)

// LogEntry is one structured process-log record destined for an external
// log system.
type LogEntry struct {
	Timestamp time.Time              // When the log event occurred
	Level     LogLevel               // Severity level
	Message   string                 // Log message
	Fields    map[string]interface{} // Additional structured fields
}

// LogPublisher defines the interface for shipping process logs to an
// external observability platform (Port). The notifier's own logger sinks
// to console and a dated file regardless; a publisher adds a remote copy.
type LogPublisher interface {
	// Publish buffers a single log entry for delivery.
	Publish(ctx context.Context, entry LogEntry) error

	// PublishBatch buffers multiple entries in one call.
	PublishBatch(ctx context.Context, entries []LogEntry) error

	// Flush forces delivery of everything buffered. Must be called before
	// process exit to avoid losing the tail of the run.
	Flush(ctx context.Context) error
}
