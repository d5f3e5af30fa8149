package quarry

type options struct {
	memoryLimit int64
	maxDrivers  int64
	logger      *Logger
	metrics     MetricsCollector
}

// Option configures an Engine.
type Option func(*options)

// WithMemoryLimit sets the hard byte limit for in-flight columnar data
// across all concurrent queries. 0 (the default) only tracks usage.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithMaxDrivers caps the number of concurrently running driver
// goroutines. Defaults to the number of CPUs.
func WithMaxDrivers(n int) Option {
	return func(o *options) {
		o.maxDrivers = int64(n)
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics sets the metrics collector. Defaults to no-op.
func WithMetrics(m MetricsCollector) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}
