package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

type runIDKey struct{}

// Config selects level, output format ("text" or "json") and destination.
type Config struct {
	Level  string
	Format string
	Output io.Writer
}

type implLogger struct {
	zl    zerolog.Logger
	level string
}

// New creates a text Logger on stderr at the given level.
func New(level string) Logger {
	return NewWithConfig(Config{Level: level})
}

// NewWithConfig creates a Logger backed by zerolog.
func NewWithConfig(cfg Config) Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	var zl zerolog.Logger
	if strings.EqualFold(cfg.Format, "json") {
		zl = zerolog.New(out).With().Timestamp().Logger()
	} else {
		zl = zerolog.New(zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.TimeOnly,
			NoColor:    !isTerminal(out),
		}).With().Timestamp().Logger()
	}

	return &implLogger{
		zl:    zl,
		level: strings.ToLower(cfg.Level),
	}
}

// WithRunID returns a context whose log lines carry the given invocation id.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunID returns the invocation id stored by WithRunID, if any.
func RunID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (l *implLogger) shouldLog(level string) bool {
	levels := map[string]int{
		"debug": 0,
		"info":  1,
		"warn":  2,
		"error": 3,
	}

	currentLevel, ok := levels[l.level]
	if !ok {
		currentLevel = 1 // default to info
	}

	targetLevel, ok := levels[level]
	if !ok {
		return true
	}

	return targetLevel >= currentLevel
}

func (l *implLogger) write(ctx context.Context, level string, zlevel zerolog.Level, msg string, args []interface{}) {
	if !l.shouldLog(level) {
		return
	}
	event := l.zl.WithLevel(zlevel)
	if id := RunID(ctx); id != "" {
		event = event.Str("run_id", id)
	}
	event.Msgf(msg, args...)
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	l.write(ctx, "debug", zerolog.DebugLevel, msg, args)
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.write(ctx, "info", zerolog.InfoLevel, msg, args)
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.write(ctx, "warn", zerolog.WarnLevel, msg, args)
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.write(ctx, "error", zerolog.ErrorLevel, msg, args)
}

// Nop returns a Logger that discards everything. Useful in tests.
func Nop() Logger {
	return &implLogger{zl: zerolog.Nop(), level: "error"}
}
