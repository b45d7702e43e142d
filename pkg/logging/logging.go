package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	FormatJSON = "json"
	FormatText = "text"
)

type ctxKey struct{}

type Options struct {
	Level  string
	Format string
	// Writer defaults to stdout.
	Writer io.Writer
}

func New(level string) *slog.Logger {
	return NewWithOptions(Options{Level: level})
}

func NewWithWriter(w io.Writer, level string) *slog.Logger {
	return NewWithOptions(Options{Level: level, Writer: w})
}

// NewWithOptions builds the process logger. Unknown formats fall back to
// JSON so a typo in config never silences logs.
func NewWithOptions(o Options) *slog.Logger {
	w := o.Writer
	if w == nil {
		w = os.Stdout
	}
	lvl := new(slog.LevelVar)
	lvl.Set(ParseLevel(o.Level))
	opts := &slog.HandlerOptions{Level: lvl}

	if strings.EqualFold(o.Format, FormatText) {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

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

func IntoContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

func FromContext(ctx context.Context) *slog.Logger {
	if v := ctx.Value(ctxKey{}); v != nil {
		if l, ok := v.(*slog.Logger); ok {
			return l
		}
	}
	return slog.Default()
}
