package enforcement

import (
	"errors"
	"time"

	"github.com/twinforge/thing-engine-go/observability"
)

func errProviderConfig(msg string) error {
	return errors.New("enforcement provider config: " + msg)
}

// ProviderOption configures a Provider at construction time.
type ProviderOption func(*Provider) error

// WithBroadcast wires the cluster pub/sub used for invalidation fan-out and
// fan-in. The provider subscribes to the topic on construction.
func WithBroadcast(broadcast Broadcast, topic string) ProviderOption {
	return func(p *Provider) error {
		if broadcast == nil {
			return errProviderConfig("broadcast must not be nil")
		}
		if topic == "" {
			topic = InvalidationTopic
		}
		p.broadcast = broadcast
		p.topic = topic

		return nil
	}
}

// WithNamespaceWatch wires the blocked-namespaces change stream. All cached
// enforcers of a namespace are evicted the moment it becomes blocked.
func WithNamespaceWatch(watch NamespaceWatch) ProviderOption {
	return func(p *Provider) error {
		if watch == nil {
			return errProviderConfig("namespace watch must not be nil")
		}
		p.watch = watch

		return nil
	}
}

// WithCache sizes the backing cache: capacity entries, evicted after ttl.
func WithCache(capacity int, ttl time.Duration) ProviderOption {
	return func(p *Provider) error {
		if capacity <= 0 {
			return errProviderConfig("cache capacity must be positive")
		}
		if ttl <= 0 {
			return errProviderConfig("cache ttl must be positive")
		}
		p.capacity = capacity
		p.ttl = ttl

		return nil
	}
}

// WithGetTimeout bounds how long a Get call may wait for a cache answer or a
// coalesced load before failing with EnforcerUnavailableError.
func WithGetTimeout(timeout time.Duration) ProviderOption {
	return func(p *Provider) error {
		if timeout <= 0 {
			return errProviderConfig("get timeout must be positive")
		}
		p.getTimeout = timeout

		return nil
	}
}

// WithLoadTimeout bounds one backing load.
func WithLoadTimeout(timeout time.Duration) ProviderOption {
	return func(p *Provider) error {
		if timeout <= 0 {
			return errProviderConfig("load timeout must be positive")
		}
		p.loadTimeout = timeout

		return nil
	}
}

// WithProviderLogger supplies the operational logger.
func WithProviderLogger(logger observability.Logger) ProviderOption {
	return func(p *Provider) error {
		if logger == nil {
			return errProviderConfig("logger must not be nil")
		}
		p.logger = logger

		return nil
	}
}

// WithProviderMetrics supplies the metrics collector.
func WithProviderMetrics(collector observability.MetricsCollector) ProviderOption {
	return func(p *Provider) error {
		if collector == nil {
			return errProviderConfig("metrics collector must not be nil")
		}
		p.metrics = collector

		return nil
	}
}
