// Package logging builds the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// Options configures New.
type Options struct {
	Level  string    // debug, info, warn/warning, error
	File   string    // optional log file, appended to
	Stderr io.Writer // defaults to os.Stderr
	Prefix string
}

// ParseLevel maps a config log_level to a charm log level.
func ParseLevel(level string) (charmlog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return charmlog.DebugLevel, nil
	case "", "info":
		return charmlog.InfoLevel, nil
	case "warn", "warning":
		return charmlog.WarnLevel, nil
	case "error":
		return charmlog.ErrorLevel, nil
	default:
		return charmlog.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// New returns a slog logger backed by a charm log handler. The returned
// closer releases the log file, if any.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	var out io.Writer = opts.Stderr
	if out == nil {
		out = os.Stderr
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0700); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = io.MultiWriter(out, f)
		closer = f
	}

	handler := charmlog.NewWithOptions(out, charmlog.Options{
		Level:           level,
		Prefix:          opts.Prefix,
		ReportTimestamp: true,
	})
	return slog.New(handler), closer, nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
