package bytevec

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
}

// Option configures a ByteVector at Init/New.
type Option func(*options)

// WithLogger sets the logger for growth, copy and release events.
//
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetricsCollector sets the collector notified of growth, copy and release.
//
// If nil is passed, NoopMetricsCollector is used.
func WithMetricsCollector(m MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = m
	}
}
