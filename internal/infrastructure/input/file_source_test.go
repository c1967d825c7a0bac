package input

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nakool/upgrade-notify/pkg/logger"
)

func TestFileSource_ReadFromPathArgument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.eml")
	content := "Subject: result\nline two\nno trailing newline"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	source, err := NewFileSource([]string{path}, nil, logger.New("error"))
	if err != nil {
		t.Fatalf("NewFileSource() error = %v", err)
	}
	defer source.Close()

	if source.Name() != path {
		t.Fatalf("Name() = %q, want %q", source.Name(), path)
	}

	report, err := source.Read(context.Background())
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if report.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", report.Len())
	}
	// Terminators are preserved, including the missing one on the last line.
	if report.Line(0) != "Subject: result\n" {
		t.Fatalf("Line(0) = %q", report.Line(0))
	}
	if report.Line(2) != "no trailing newline" {
		t.Fatalf("Line(2) = %q", report.Line(2))
	}
	if report.Text() != content {
		t.Fatalf("Text() = %q, want original content", report.Text())
	}
}

func TestFileSource_ReadMissingFile(t *testing.T) {
	source, err := NewFileSource([]string{"/nonexistent/report.eml"}, nil, logger.New("error"))
	if err != nil {
		t.Fatalf("NewFileSource() error = %v", err)
	}
	defer source.Close()

	if _, err := source.Read(context.Background()); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestFileSource_SpoolsStdin(t *testing.T) {
	stdin := strings.NewReader("Subject: piped\nbody\n")
	source, err := NewFileSource(nil, stdin, logger.New("error"))
	if err != nil {
		t.Fatalf("NewFileSource() error = %v", err)
	}

	if _, err := os.Stat(source.Name()); err != nil {
		t.Fatalf("expected temporary file at %s: %v", source.Name(), err)
	}

	report, err := source.Read(context.Background())
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if report.Len() != 2 || report.Line(0) != "Subject: piped\n" {
		t.Fatalf("unexpected report: %q", report.Lines())
	}

	if err := source.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := os.Stat(source.Name()); !os.IsNotExist(err) {
		t.Fatalf("temporary file not removed: %v", err)
	}

	// Close is idempotent.
	if err := source.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}

func TestFileSource_CloseKeepsPathArgument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.eml")
	if err := os.WriteFile(path, []byte("Subject: keep\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	source, err := NewFileSource([]string{path}, nil, logger.New("error"))
	if err != nil {
		t.Fatalf("NewFileSource() error = %v", err)
	}
	if err := source.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("path argument must survive Close: %v", err)
	}
}

func TestFileSource_ReadHonorsContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.eml")
	if err := os.WriteFile(path, []byte("Subject: x\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	source, err := NewFileSource([]string{path}, nil, logger.New("error"))
	if err != nil {
		t.Fatalf("NewFileSource() error = %v", err)
	}
	defer source.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := source.Read(ctx); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
}
