package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const filePrefix = "insights-"

// Logger writes JSON records to a daily log file. Every record carries the run id.
type Logger struct {
	*slog.Logger
	RunID string
	Path  string

	f *os.File
}

// New opens (or appends to) today's log file in dir and removes log files older than 72h.
// An empty dir means os.TempDir().
func New(dir string, debug bool) (*Logger, error) {
	if dir == "" {
		dir = os.TempDir()
	}

	cleanErr := cleanStaleLogs(dir)

	path := filepath.Join(dir, fmt.Sprintf("%s%s.log", filePrefix, time.Now().Format("2006-01-02")))
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %v", err)
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	runID := uuid.New().String()
	l := &Logger{
		Logger: slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level, AddSource: true})).With("run_id", runID),
		RunID:  runID,
		Path:   path,
		f:      f,
	}
	if cleanErr != nil {
		l.Warn("failed to remove stale log files", "op", "clean logs", "error", cleanErr.Error())
	}
	return l, nil
}

// Close the *os.File connection for the logger
func (l *Logger) Close() error {
	return l.f.Close()
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// WriteExceptions appends one line per error to the exception summary at path.
func WriteExceptions(path, runID string, errs []error) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open exception summary: %s", err)
	}
	defer f.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	var b strings.Builder
	for _, e := range errs {
		fmt.Fprintf(&b, "%s run=%s %s\n", now, runID, strings.ReplaceAll(e.Error(), "\n", " "))
	}
	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("failed to write exception summary: %s", err)
	}
	return nil
}
