// Package logging builds the process-wide slog handler.
package logging

import (
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/google/uuid"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Options configures the process logger.
type Options struct {
	Debug bool
	// Terminal selects the colored handler. Nil means detect from stderr.
	Terminal *bool
	Writer   io.Writer
}

// New returns a logger tagged with a fresh run_id. Terminals get tint output,
// everything else gets JSON.
func New(opts Options) *slog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}

	terminal := isatty.IsTerminal(os.Stderr.Fd())
	if opts.Terminal != nil {
		terminal = *opts.Terminal
	}

	var h slog.Handler
	if terminal {
		h = newTerminalHandler(w, level)
	} else {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}

	return slog.New(h).With("run_id", uuid.NewString())
}

// Setup installs New(opts) as the default logger and returns it.
func Setup(opts Options) *slog.Logger {
	logger := New(opts)
	slog.SetDefault(logger)
	return logger
}

func newTerminalHandler(w io.Writer, level slog.Level) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		NoColor:   runtime.GOOS == "windows",
		AddSource: level <= slog.LevelDebug,
		Level:     level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	})
}
