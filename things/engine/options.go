package engine

import (
	"errors"
	"time"

	"github.com/twinforge/thing-engine-go/observability"
	"github.com/twinforge/thing-engine-go/things/strategies"
	"github.com/twinforge/thing-engine-go/wot"
)

// Option configures an Engine at construction time.
type Option func(*Engine) error

// WithLogger supplies the operational logger.
func WithLogger(logger observability.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		e.logger = logger

		return nil
	}
}

// WithContextualLogger supplies a context-aware logger. It is preferred over
// the plain logger when both are configured.
func WithContextualLogger(logger observability.ContextualLogger) Option {
	return func(e *Engine) error {
		if logger == nil {
			return errors.New("contextual logger must not be nil")
		}
		e.contextualLogger = logger

		return nil
	}
}

// WithMetrics supplies the metrics collector. Collectors also implementing
// ContextualMetricsCollector get the context-aware methods called.
func WithMetrics(collector observability.MetricsCollector) Option {
	return func(e *Engine) error {
		if collector == nil {
			return errors.New("metrics collector must not be nil")
		}
		e.metrics = collector
		if contextual, ok := collector.(observability.ContextualMetricsCollector); ok {
			e.contextualMetrics = contextual
		}

		return nil
	}
}

// WithTracing supplies the tracing collector.
func WithTracing(collector observability.TracingCollector) Option {
	return func(e *Engine) error {
		if collector == nil {
			return errors.New("tracing collector must not be nil")
		}
		e.tracing = collector

		return nil
	}
}

// WithValidator supplies the model validator used by the pre-commit validation
// stage, bounded so a slow validator cannot stall the per-thing pipeline.
func WithValidator(validator wot.Validator, timeout time.Duration) Option {
	return func(e *Engine) error {
		if validator == nil {
			return errors.New("validator must not be nil")
		}
		if timeout <= 0 {
			return errors.New("validation timeout must be positive")
		}
		e.stratCtx.Validator = wot.Bounded(validator, timeout)

		return nil
	}
}

// WithSizeLimit enables the serialized-size budget for mutations.
func WithSizeLimit(maxSize int64, bandFactor float64) Option {
	return func(e *Engine) error {
		e.stratCtx.SizeValidator = strategies.NewSizeValidator(maxSize, bandFactor)
		return nil
	}
}

// WithClock overrides the time source used for event timestamps. Tests use a
// fixed clock for deterministic events.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) error {
		if clock == nil {
			return errors.New("clock must not be nil")
		}
		e.stratCtx.Clock = clock

		return nil
	}
}
