package delivery

import (
	"errors"
	"time"
)

var (
	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("batch size must be positive")

	// ErrNegativePollInterval is returned when the poll interval is negative.
	ErrNegativePollInterval = errors.New("poll interval must not be negative")

	// ErrNegativeDeliveryTimeout is returned when the delivery timeout is negative.
	ErrNegativeDeliveryTimeout = errors.New("delivery timeout must not be negative")
)

// Option defines a functional option for configuring a Processor.
type Option func(*Processor) error

// WithBatchSize sets how many events a single run fetches from the feed at most.
func WithBatchSize(batchSize int) Option {
	return func(p *Processor) error {
		if batchSize <= 0 {
			return ErrInvalidBatchSize
		}

		p.batchSize = batchSize

		return nil
	}
}

// WithPollInterval sets how long Run waits before polling again after an idle run.
// A zero interval makes Run poll continuously, which is only useful in tests.
func WithPollInterval(interval time.Duration) Option {
	return func(p *Processor) error {
		if interval < 0 {
			return ErrNegativePollInterval
		}

		p.pollInterval = interval

		return nil
	}
}

// WithDeliveryTimeout bounds the time a single event may spend inside projection effects.
// A zero timeout disables the bound; the run context still applies.
func WithDeliveryTimeout(timeout time.Duration) Option {
	return func(p *Processor) error {
		if timeout < 0 {
			return ErrNegativeDeliveryTimeout
		}

		p.deliveryTimeout = timeout

		return nil
	}
}

// WithRetryOptions sets the retry behavior for transient infrastructure failures.
// The options are applied to every retried feed and checkpoint operation.
func WithRetryOptions(options ...RetryOption) Option {
	return func(p *Processor) error {
		p.retryOptions = options

		return nil
	}
}

// WithProgressListener sets the listener notified after each run that delivered events.
func WithProgressListener(listener ProgressListener) Option {
	return func(p *Processor) error {
		p.progressListener = listener

		return nil
	}
}

// WithLogger sets the logger for the Processor.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: run starts and idle runs (development use)
// Info level: completed runs with event counts and durations (production-safe)
// Error level: failed runs.
func WithLogger(logger Logger) Option {
	return func(p *Processor) error {
		p.logger = logger

		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Processor.
// The contextual logger will receive log messages with context information including
// automatic trace/span correlation when tracing is enabled, enabling unified observability.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(p *Processor) error {
		p.contextualLogger = logger

		return nil
	}
}

// WithMetrics sets the metrics collector for the Processor.
// The metrics collector will receive run durations, run counters, delivered
// event counts, and retry instrumentation for infrastructure failures.
func WithMetrics(collector MetricsCollector) Option {
	return func(p *Processor) error {
		p.metricsCollector = collector

		return nil
	}
}

// WithTracing sets the tracing collector for the Processor.
// The tracing collector will receive span creation for processor runs,
// context propagation, and error tracking.
func WithTracing(collector TracingCollector) Option {
	return func(p *Processor) error {
		p.tracingCollector = collector

		return nil
	}
}
