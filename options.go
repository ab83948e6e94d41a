package sysarena

import (
	"log/slog"
	"os"
)

// MemoryAcquirer is an optional budget consulted before bytes are handed out.
//
// AcquireMemory must not block; an error rejects the allocation, which then
// fails with ErrOutOfMemory wrapping it. ReleaseMemory receives the bytes an
// arena held when it is freed. resource.Controller implements it.
type MemoryAcquirer interface {
	AcquireMemory(bytes int64) error
	ReleaseMemory(bytes int64)
}

// Option configures a Manager.
type Option func(*options)

type options struct {
	metrics  MetricsCollector
	logger   *Logger
	acquirer MemoryAcquirer
}

// WithMetricsCollector reports every operation to mc. Nil disables metrics.
//
//	mc := &sysarena.BasicMetricsCollector{}
//	m, _ := sysarena.New(buf, slots, sysarena.WithMetricsCollector(mc))
//	_, _ = m.Allocate(64)
//	fmt.Println(mc.GetStats().AllocateBytes) // 64
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithLogger logs every operation to logger. Nil disables logging.
//
//	logger := sysarena.NewJSONLogger(os.Stderr, slog.LevelDebug)
//	m, _ := sysarena.New(buf, slots, sysarena.WithLogger(logger.With("manager", "frames")))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel logs text records of at least level to stderr.
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(os.Stderr, level)
	}
}

// WithMemoryAcquirer makes every allocation reserve its size from acquirer
// first; freeing an arena releases what it held.
func WithMemoryAcquirer(acquirer MemoryAcquirer) Option {
	return func(o *options) {
		o.acquirer = acquirer
	}
}

func applyOptions(fns []Option) options {
	o := options{
		metrics: NoopMetricsCollector{},
		logger:  NoopLogger(),
	}
	for _, fn := range fns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
