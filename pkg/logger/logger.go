package logger

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/nakool/upgrade-notify/internal/application/port"
)

type Logger struct {
	logger    *log.Logger
	level     Level
	file      *os.File
	publisher port.LogPublisher
}

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

// New creates a console logger at the given level.
func New(level string) *Logger {
	return &Logger{
		logger: log.New(os.Stdout, "", 0),
		level:  parseLevel(level),
	}
}

// NewWithFile creates a logger that writes to the console and to a dated
// file in dir (<dir>/YYYYMMDD_upgrade-notify.log), creating dir when
// missing. A file that cannot be opened degrades to console only.
func NewWithFile(level, dir string) (*Logger, error) {
	l := New(level)
	if dir == "" {
		return l, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return l, fmt.Errorf("failed to create log directory: %w", err)
	}

	name := time.Now().Format("20060102") + "_upgrade-notify.log"
	file, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return l, fmt.Errorf("failed to open log file: %w", err)
	}

	l.file = file
	l.logger = log.New(io.MultiWriter(os.Stdout, file), "", 0)
	return l, nil
}

// SetLogPublisher attaches an external sink; every entry at or above the
// logger's level is also shipped there.
func (l *Logger) SetLogPublisher(publisher port.LogPublisher) {
	l.publisher = publisher
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func parseLevel(level string) Level {
	switch level {
	case "debug":
		return DEBUG
	case "info":
		return INFO
	case "warn":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	if l.level <= DEBUG {
		l.log(port.LogLevelDebug, msg, args...)
	}
}

func (l *Logger) Info(msg string, args ...interface{}) {
	if l.level <= INFO {
		l.log(port.LogLevelInfo, msg, args...)
	}
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	if l.level <= WARN {
		l.log(port.LogLevelWarn, msg, args...)
	}
}

func (l *Logger) Error(msg string, err error, args ...interface{}) {
	if l.level <= ERROR {
		if err != nil {
			args = append(args, "error", err.Error())
		}
		l.log(port.LogLevelError, msg, args...)
	}
}

func (l *Logger) log(level port.LogLevel, msg string, args ...interface{}) {
	now := time.Now()
	message := fmt.Sprintf("[%s] [%s] %s", now.Format("2006-01-02 15:04:05"), level, msg)

	if len(args) > 0 {
		message += " |"
		for i := 0; i < len(args); i += 2 {
			if i+1 < len(args) {
				message += fmt.Sprintf(" %v=%v", args[i], args[i+1])
			}
		}
	}

	l.logger.Println(message)

	if l.publisher != nil {
		fields := make(map[string]interface{}, len(args)/2)
		for i := 0; i < len(args); i += 2 {
			if i+1 < len(args) {
				fields[fmt.Sprintf("%v", args[i])] = args[i+1]
			}
		}
		_ = l.publisher.Publish(context.Background(), port.LogEntry{
			Timestamp: now,
			Level:     level,
			Message:   msg,
			Fields:    fields,
		})
	}
}
