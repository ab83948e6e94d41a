package sysarena

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger is the structured logger a Manager reports its operations to.
//
// Successful operations are logged at Debug, failures at Warn. Attributes use
// the keys op, size, addr, slot, reclaimed, merges, active and error.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger on handler.
// A nil handler logs text at Info level to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger writing JSON records of at least level to w.
func NewJSONLogger(w io.Writer, level slog.Leveler) *Logger {
	return NewLogger(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger writing key=value records of at least level to w.
func NewTextLogger(w io.Writer, level slog.Leveler) *Logger {
	return NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that drops every record.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// With returns a Logger that adds args to every record, e.g. a manager name.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// LogAllocate logs an allocate operation.
func (l *Logger) LogAllocate(size uint64, addr Addr, slot int, err error) {
	if err != nil {
		l.failed("allocate", err, slog.Uint64("size", size))
		return
	}
	l.completed("allocate", slog.Uint64("size", size), slog.Uint64("addr", uint64(addr)), slog.Int("slot", slot))
}

// LogFree logs a free operation.
func (l *Logger) LogFree(addr Addr, reclaimed uint64, err error) {
	if err != nil {
		l.failed("free", err, slog.Uint64("addr", uint64(addr)))
		return
	}
	l.completed("free", slog.Uint64("addr", uint64(addr)), slog.Uint64("reclaimed", reclaimed))
}

// LogSplit logs a split operation.
func (l *Logger) LogSplit(slot int, size uint64, addr Addr, err error) {
	if err != nil {
		l.failed("split", err, slog.Int("slot", slot), slog.Uint64("size", size))
		return
	}
	l.completed("split", slog.Int("slot", slot), slog.Uint64("size", size), slog.Uint64("addr", uint64(addr)))
}

// LogDefragment logs a defragmentation pass that merged at least one pair.
func (l *Logger) LogDefragment(merges, active int) {
	if merges == 0 {
		return
	}
	l.completed("defragment", slog.Int("merges", merges), slog.Int("active", active))
}

func (l *Logger) completed(op string, attrs ...slog.Attr) {
	ctx := context.Background()
	if !l.Enabled(ctx, slog.LevelDebug) {
		return
	}
	l.LogAttrs(ctx, slog.LevelDebug, op+" completed", attrs...)
}

func (l *Logger) failed(op string, err error, attrs ...slog.Attr) {
	ctx := context.Background()
	if !l.Enabled(ctx, slog.LevelWarn) {
		return
	}
	attrs = append(attrs, slog.String("kind", ErrorKind(err)), slog.Any("error", err))
	l.LogAttrs(ctx, slog.LevelWarn, op+" failed", attrs...)
}
