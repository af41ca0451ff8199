// Package logging builds the slog loggers used by the CLI and the web server.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/justestif/go-vinyl-collection/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string
}

// New constructs a slog logger writing to w.
func New(w io.Writer, opts Options) (*slog.Logger, error) {
	level := parseLevel(opts.Level)
	handlerOpts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	}

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "text"
	}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(w, handlerOpts)
	case "text":
		handler = slog.NewTextHandler(w, handlerOpts)
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	return slog.New(handler), nil
}

// NewFromConfig creates a logger from the [logging] config section.
func NewFromConfig(w io.Writer, cfg *config.Config) (*slog.Logger, error) {
	if cfg == nil {
		return New(w, Options{})
	}
	return New(w, Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
