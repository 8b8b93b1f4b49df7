// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the slog logger used by the CLI and the
// orchestrator.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/pdiddy/file-converter/pkg/types"
)

// New returns a logger writing to w. An empty format picks console output
// when w is a terminal and JSON otherwise.
func New(cfg types.LogConfig, w io.Writer) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	format := types.LogFormat(strings.ToLower(strings.TrimSpace(string(cfg.Format))))
	if format == "" {
		format = detectFormat(w)
	}

	switch format {
	case types.LogConsole:
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case types.LogJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", cfg.Format)
	}
}

// ParseLevel maps a level name to a slog level. Unknown names map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
}

func detectFormat(w io.Writer) types.LogFormat {
	if f, ok := w.(*os.File); ok {
		fd := f.Fd()
		if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
			return types.LogConsole
		}
	}
	return types.LogJSON
}
