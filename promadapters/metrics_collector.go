// Package promadapters provides a Prometheus implementation of the
// observability metrics interface.
package promadapters

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/twinforge/thing-engine-go/observability"
)

// MetricsCollector implements observability.MetricsCollector on
// prometheus/client_golang. Metric vectors are registered lazily on first use;
// Prometheus requires fixed label names per vector, so the vector identity is
// the metric name plus the sorted label-name set.
type MetricsCollector struct {
	registerer prometheus.Registerer

	mu         sync.Mutex
	histograms map[string]*prometheus.HistogramVec
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
}

// NewMetricsCollector creates a collector registering on the given registerer.
// Pass prometheus.DefaultRegisterer for the process-global registry.
func NewMetricsCollector(registerer prometheus.Registerer) *MetricsCollector {
	return &MetricsCollector{
		registerer: registerer,
		histograms: make(map[string]*prometheus.HistogramVec),
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
	}
}

// RecordDuration observes a duration in seconds on a histogram vector.
func (m *MetricsCollector) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	names, values := splitLabels(labels)

	m.mu.Lock()
	key := vectorKey(metric, names)
	histogram, ok := m.histograms[key]
	if !ok {
		histogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: metric,
			Help: "thing engine operation duration in seconds",
		}, names)
		if err := m.registerer.Register(histogram); err != nil {
			m.mu.Unlock()
			return
		}
		m.histograms[key] = histogram
	}
	m.mu.Unlock()

	histogram.WithLabelValues(values...).Observe(duration.Seconds())
}

// IncrementCounter increments a counter vector.
func (m *MetricsCollector) IncrementCounter(metric string, labels map[string]string) {
	names, values := splitLabels(labels)

	m.mu.Lock()
	key := vectorKey(metric, names)
	counter, ok := m.counters[key]
	if !ok {
		counter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metric,
			Help: "thing engine operation counter",
		}, names)
		if err := m.registerer.Register(counter); err != nil {
			m.mu.Unlock()
			return
		}
		m.counters[key] = counter
	}
	m.mu.Unlock()

	counter.WithLabelValues(values...).Inc()
}

// RecordValue sets a gauge vector to the given value.
func (m *MetricsCollector) RecordValue(metric string, value float64, labels map[string]string) {
	names, values := splitLabels(labels)

	m.mu.Lock()
	key := vectorKey(metric, names)
	gauge, ok := m.gauges[key]
	if !ok {
		gauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: metric,
			Help: "thing engine current value",
		}, names)
		if err := m.registerer.Register(gauge); err != nil {
			m.mu.Unlock()
			return
		}
		m.gauges[key] = gauge
	}
	m.mu.Unlock()

	gauge.WithLabelValues(values...).Set(value)
}

func splitLabels(labels map[string]string) (names []string, values []string) {
	names = make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}
	sort.Strings(names)

	values = make([]string, len(names))
	for i, name := range names {
		values[i] = labels[name]
	}

	return names, values
}

func vectorKey(metric string, names []string) string {
	return metric + "|" + strings.Join(names, ",")
}

var _ observability.MetricsCollector = (*MetricsCollector)(nil)
