// Package logging builds the process-wide slog logger. The terminal UI
// owns stdout, so records go to a file in the data directory unless
// configured otherwise.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// FileName is the default log file inside the data directory.
const FileName = "dailyflow.log"

// Config holds logger configuration.
type Config struct {
	Level     slog.Level
	Component string
	// Path is the log file. "" means discard, "-" means stderr.
	Path string
}

// New opens the destination and returns a text-handler logger tagged with
// the component. The returned closer releases the file, if any.
func New(cfg Config) (*slog.Logger, io.Closer, error) {
	w, closer, err := open(cfg.Path)
	if err != nil {
		return nil, nil, err
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.Level})
	logger := slog.New(handler)
	if cfg.Component != "" {
		logger = logger.With("component", cfg.Component)
	}
	return logger, closer, nil
}

// DefaultPath is <dataDir>/dailyflow.log.
func DefaultPath(dataDir string) string {
	return filepath.Join(dataDir, FileName)
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func open(path string) (io.Writer, io.Closer, error) {
	switch path {
	case "":
		return io.Discard, nopCloser{}, nil
	case "-":
		return os.Stderr, nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, f, nil
}
