// Package logger is the structured logger shared by every process. It wraps
// slog and stamps each record with the active trace, span and request ids.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/trace"

	"github.com/ghuser/shelfaware/pkg/config"
)

// Logger is what application code depends on. Prefer the *Context methods
// inside request and message handlers so correlation ids are attached.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
	With(args ...any) Logger
	// ToSlog exposes the backing logger for libraries that take *slog.Logger.
	ToSlog() *slog.Logger
}

// New logs JSON to stdout. Development gets slog's text format instead.
func New(cfg *config.Config) Logger {
	format := FormatJSON
	if cfg.Environment == config.EnvDevelopment {
		format = FormatText
	}
	return build(os.Stdout, ParseLevel(cfg.LogLevel), format).With("service", cfg.ServiceName)
}

// NewWithWriter logs JSON to w at level. shelfctl points it at stderr.
func NewWithWriter(w io.Writer, level string) Logger {
	return build(w, ParseLevel(level), FormatJSON)
}

// Nop discards everything.
func Nop() Logger {
	return &slogLogger{Logger: slog.New(slog.DiscardHandler)}
}

// Format selects the slog handler.
type Format int

const (
	FormatJSON Format = iota
	FormatText
)

func build(w io.Writer, level slog.Level, format Format) Logger {
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if format == FormatText {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}
	return &slogLogger{Logger: slog.New(correlate{h})}
}

// ParseLevel maps debug, info, warn and error (any case) to a slog level.
// Anything else is info.
func ParseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return l
}

type slogLogger struct {
	*slog.Logger
}

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{Logger: l.Logger.With(args...)}
}

func (l *slogLogger) ToSlog() *slog.Logger { return l.Logger }

// correlate adds trace_id and span_id for a recording span and request_id
// when chi's RequestID middleware ran.
type correlate struct {
	slog.Handler
}

func (h correlate) Handle(ctx context.Context, r slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	if id := middleware.GetReqID(ctx); id != "" {
		r.AddAttrs(slog.String("request_id", id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h correlate) WithAttrs(attrs []slog.Attr) slog.Handler {
	return correlate{h.Handler.WithAttrs(attrs)}
}

func (h correlate) WithGroup(name string) slog.Handler {
	return correlate{h.Handler.WithGroup(name)}
}
