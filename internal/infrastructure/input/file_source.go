package input

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/nakool/upgrade-notify/internal/domain/entity"
	"github.com/nakool/upgrade-notify/pkg/logger"
)

// FileSource implements port.ReportSource for the notifier's two input
// modes: a file path argument, or stdin materialized into a temporary
// file when no argument was given. The temporary file is removed on
// Close on every exit path.
type FileSource struct {
	path      string
	temporary bool
	logger    *logger.Logger

	closeOnce sync.Once
	closeErr  error
}

// NewFileSource resolves the input location. args is the program's
// argument list without the binary name; stdin is consumed only when args
// is empty.
func NewFileSource(args []string, stdin io.Reader, log *logger.Logger) (*FileSource, error) {
	if len(args) > 0 && args[0] != "" {
		return &FileSource{path: args[0], logger: log}, nil
	}

	tmp, err := os.CreateTemp("", "upgrade-notify-*.eml")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary input file: %w", err)
	}

	if _, err := io.Copy(tmp, stdin); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to spool stdin: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to close temporary input file: %w", err)
	}

	log.Info("Spooled stdin to temporary file", "path", tmp.Name())
	return &FileSource{path: tmp.Name(), temporary: true, logger: log}, nil
}

// Read loads the input into an ordered line sequence. Lines keep their
// original terminators; a trailing unterminated line is preserved.
func (s *FileSource) Read(ctx context.Context) (*entity.UpgradeReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	defer file.Close()

	var lines []string
	reader := bufio.NewReader(file)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			lines = append(lines, line)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
		}
	}

	s.logger.Info("Read input file", "path", s.path, "lines", len(lines))
	return entity.NewUpgradeReport(lines), nil
}

// Name returns the resolved input path.
func (s *FileSource) Name() string {
	return s.path
}

// Close removes the temporary file when the input came from stdin. Safe
// to call more than once.
func (s *FileSource) Close() error {
	s.closeOnce.Do(func() {
		if !s.temporary {
			return
		}
		if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
			s.closeErr = fmt.Errorf("failed to remove temporary input file: %w", err)
			return
		}
		s.logger.Info("Removed temporary input file", "path", s.path)
	})
	return s.closeErr
}
