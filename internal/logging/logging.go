// Package logging builds the JSON slog logger shared by the foxnuts binaries.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

type Options struct {
	Service string
	Level   string
	// Path, when set, appends to that file. The terminal client needs this
	// because the UI owns stdout.
	Path string
	// Writer is used when Path is empty. Defaults to stderr.
	Writer    io.Writer
	AddSource bool
}

// New returns the logger and a close function for the underlying file. It
// also installs the logger as slog's default.
func New(opts Options) (*slog.Logger, func() error, error) {
	out := opts.Writer
	if out == nil {
		out = os.Stderr
	}
	closer := func() error { return nil }

	if path := strings.TrimSpace(opts.Path); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = file
		closer = file.Close
	}

	h := slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level:     ParseLevel(opts.Level),
		AddSource: opts.AddSource,
	})
	logger := slog.New(h)
	if opts.Service != "" {
		logger = logger.With("service", opts.Service)
	}
	slog.SetDefault(logger)
	return logger, closer, nil
}

// ParseLevel maps a config string to a level. Unknown values mean info.
func ParseLevel(lvl string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
