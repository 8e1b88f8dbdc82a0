package config_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twinforge/thing-engine-go/config"
	"github.com/twinforge/thing-engine-go/enforcement"
	"github.com/twinforge/thing-engine-go/things/engine"
	"github.com/twinforge/thing-engine-go/things/model"
	"github.com/twinforge/thing-engine-go/wot"
)

func Test_Load_Defaults(t *testing.T) {
	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, int64(102400), cfg.MaxThingSize)
	assert.Equal(t, 2.0, cfg.SizeBandFactor)
	assert.Equal(t, 30*time.Second, cfg.ValidationTimeout)
	assert.Equal(t, 10*time.Minute, cfg.EnforcerCacheTTL)
	assert.Equal(t, 20000, cfg.EnforcerCacheCapacity)
	assert.Equal(t, 10*time.Second, cfg.EnforcerGetTimeout)
	assert.Equal(t, 60*time.Second, cfg.EnforcerLoadTimeout)
}

func Test_Load_EnvironmentOverrides(t *testing.T) {
	// arrange
	t.Setenv("THING_ENGINE_MAX_THING_SIZE", "2048")
	t.Setenv("THING_ENGINE_SIZE_BAND_FACTOR", "1.5")
	t.Setenv("THING_ENGINE_VALIDATION_TIMEOUT", "5s")
	t.Setenv("THING_ENGINE_ENFORCER_CACHE_TTL", "1m")
	t.Setenv("THING_ENGINE_ENFORCER_CACHE_CAPACITY", "100")

	// act
	cfg, err := config.Load()

	// assert
	require.NoError(t, err)
	assert.Equal(t, int64(2048), cfg.MaxThingSize)
	assert.Equal(t, 1.5, cfg.SizeBandFactor)
	assert.Equal(t, 5*time.Second, cfg.ValidationTimeout)
	assert.Equal(t, time.Minute, cfg.EnforcerCacheTTL)
	assert.Equal(t, 100, cfg.EnforcerCacheCapacity)
}

func Test_Config_WiresEngineAndProviderOptions(t *testing.T) {
	// arrange
	cfg, err := config.Load()
	require.NoError(t, err)

	// act - the fields feed the constructor options one to one
	eng, err := engine.NewEngine(engine.NewInMemoryStore(),
		engine.WithSizeLimit(cfg.MaxThingSize, cfg.SizeBandFactor),
		engine.WithValidator(wot.Disabled(), cfg.ValidationTimeout),
	)
	require.NoError(t, err)

	loader := func(context.Context, model.PolicyID) (*enforcement.Enforcer, bool, error) {
		return nil, false, nil
	}
	provider, err := enforcement.NewProvider(loader,
		enforcement.WithCache(cfg.EnforcerCacheCapacity, cfg.EnforcerCacheTTL),
		enforcement.WithGetTimeout(cfg.EnforcerGetTimeout),
		enforcement.WithLoadTimeout(cfg.EnforcerLoadTimeout),
	)
	require.NoError(t, err)
	defer func() { _ = provider.Close() }()

	// assert
	assert.NotNil(t, eng)
	assert.NotNil(t, provider)
}

func Test_Load_RejectsUnparsableValues(t *testing.T) {
	tests := []struct {
		name     string
		variable string
		value    string
	}{
		{name: "non_numeric_size", variable: "THING_ENGINE_MAX_THING_SIZE", value: "lots"},
		{name: "non_duration_timeout", variable: "THING_ENGINE_VALIDATION_TIMEOUT", value: "soon"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.variable, tc.value)

			_, err := config.Load()

			assert.Error(t, err)
		})
	}
}
