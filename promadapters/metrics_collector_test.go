package promadapters_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twinforge/thing-engine-go/promadapters"
)

func gatheredNames(t *testing.T, registry *prometheus.Registry) map[string]bool {
	t.Helper()

	families, err := registry.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, family := range families {
		names[family.GetName()] = true
	}

	return names
}

func Test_MetricsCollector_RegistersOnFirstUse(t *testing.T) {
	// arrange
	registry := prometheus.NewRegistry()
	collector := promadapters.NewMetricsCollector(registry)

	// act
	collector.RecordDuration("thing_engine_command_duration", 20*time.Millisecond, map[string]string{"command": "createThing"})
	collector.IncrementCounter("thing_engine_events_appended_total", map[string]string{"eventType": "thingCreated"})
	collector.RecordValue("thing_engine_journal_depth", 3, nil)

	// assert
	names := gatheredNames(t, registry)
	assert.True(t, names["thing_engine_command_duration"])
	assert.True(t, names["thing_engine_events_appended_total"])
	assert.True(t, names["thing_engine_journal_depth"])
}

func Test_MetricsCollector_CounterAccumulates(t *testing.T) {
	// arrange
	registry := prometheus.NewRegistry()
	collector := promadapters.NewMetricsCollector(registry)
	labels := map[string]string{"command": "modifyThing"}

	// act
	collector.IncrementCounter("thing_engine_command_errors_total", labels)
	collector.IncrementCounter("thing_engine_command_errors_total", labels)

	// assert
	families, err := registry.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	require.Len(t, families[0].GetMetric(), 1)
	assert.Equal(t, 2.0, families[0].GetMetric()[0].GetCounter().GetValue())
}

func Test_MetricsCollector_SameMetricWithDifferentLabelValues(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := promadapters.NewMetricsCollector(registry)

	collector.IncrementCounter("thing_engine_command_errors_total", map[string]string{"command": "createThing"})
	collector.IncrementCounter("thing_engine_command_errors_total", map[string]string{"command": "deleteThing"})

	families, err := registry.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Len(t, families[0].GetMetric(), 2, "one series per label value")
}
