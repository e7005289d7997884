package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options configures the structured logger.
type Options struct {
	ServiceName string
	Level       zerolog.Level
	Format      string // "json" or "console"
	Output      io.Writer
}

// Logger wraps zerolog with context-scoped fields.
type Logger struct {
	base *zerolog.Logger
}

type ctxKey struct{}

// New builds a logger writing JSON (or console output) to opts.Output.
func New(opts Options) *Logger {
	if opts.Level == zerolog.NoLevel {
		opts.Level = zerolog.InfoLevel
	}

	var output io.Writer = opts.Output
	if output == nil {
		output = os.Stdout
	}
	if opts.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: "15:04:05",
		}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	logger := zerolog.
		New(output).
		With().
		Timestamp().
		Str("service", opts.ServiceName).
		Logger().
		Level(opts.Level)

	return &Logger{base: &logger}
}

// Nop returns a logger that discards everything. Used as the default in constructors.
func Nop() *Logger {
	logger := zerolog.Nop()
	return &Logger{base: &logger}
}

// ParseLevel maps a config string to a zerolog level, defaulting to info.
func ParseLevel(value string) zerolog.Level {
	levelString := strings.ToLower(strings.TrimSpace(value))
	if levelString == "" {
		return zerolog.InfoLevel
	}
	if lvl, err := zerolog.ParseLevel(levelString); err == nil {
		return lvl
	}
	return zerolog.InfoLevel
}

// Component returns a child logger tagged with the component name.
func (l *Logger) Component(name string) *Logger {
	child := l.base.With().Str("component", name).Logger()
	return &Logger{base: &child}
}

func (l *Logger) loggerFromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return l.base
	}
	fields, ok := ctx.Value(ctxKey{}).(map[string]any)
	if !ok || len(fields) == 0 {
		return l.base
	}
	entry := l.base.With().Fields(fields).Logger()
	return &entry
}

// WithField returns a context whose log lines carry key=value, whichever component logs them.
func (l *Logger) WithField(ctx context.Context, key string, value any) context.Context {
	existing, _ := ctx.Value(ctxKey{}).(map[string]any)
	fields := make(map[string]any, len(existing)+1)
	for k, v := range existing {
		fields[k] = v
	}
	fields[key] = value
	return context.WithValue(ctx, ctxKey{}, fields)
}

// WithRequestID tags the context with the request id.
func (l *Logger) WithRequestID(ctx context.Context, requestID string) context.Context {
	return l.WithField(ctx, "request_id", requestID)
}

func (l *Logger) Debug(ctx context.Context, msg string, fields ...any) {
	l.loggerFromContext(ctx).Debug().Fields(fields).Msg(msg)
}

func (l *Logger) Info(ctx context.Context, msg string, fields ...any) {
	l.loggerFromContext(ctx).Info().Fields(fields).Msg(msg)
}

func (l *Logger) Warn(ctx context.Context, msg string, fields ...any) {
	l.loggerFromContext(ctx).Warn().Fields(fields).Msg(msg)
}

func (l *Logger) Error(ctx context.Context, msg string, err error, fields ...any) {
	event := l.loggerFromContext(ctx).Error()
	if err != nil {
		event = event.Err(err)
	}
	event.Fields(fields).Msg(msg)
}
