package wot_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twinforge/thing-engine-go/things/model"
	"github.com/twinforge/thing-engine-go/wot"
)

func Test_LoadConfig_Defaults(t *testing.T) {
	cfg, err := wot.LoadConfig()

	require.NoError(t, err)
	assert.True(t, cfg.Enabled)
	assert.True(t, cfg.EnforceThingDescriptionModification)
	assert.True(t, cfg.EnforceAttributes)
	assert.True(t, cfg.EnforceProperties)
	assert.True(t, cfg.EnforceDesiredProperties)
	assert.False(t, cfg.ForbidNonModeledFeatures)
}

func Test_LoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("THING_ENGINE_WOT_VALIDATION_ENABLED", "false")
	t.Setenv("THING_ENGINE_WOT_FORBID_NON_MODELED_FEATURES", "true")

	cfg, err := wot.LoadConfig()

	require.NoError(t, err)
	assert.False(t, cfg.Enabled)
	assert.True(t, cfg.ForbidNonModeledFeatures)
}

func Test_LoadConfig_RejectsUnparsableToggle(t *testing.T) {
	t.Setenv("THING_ENGINE_WOT_ENFORCE_ATTRIBUTES", "maybe")

	_, err := wot.LoadConfig()

	assert.Error(t, err)
}

// countingValidator records which validation aspects were consulted.
type countingValidator struct {
	thingCalls    int
	attrCalls     int
	featureCalls  int
	propertyCalls int
	deletionCalls int
}

func (c *countingValidator) ValidateThing(context.Context, model.DefinitionID, map[string]any, string) error {
	c.thingCalls++
	return nil
}

func (c *countingValidator) ValidateAttributes(
	context.Context, model.DefinitionID, model.Pointer, any, string,
) error {
	c.attrCalls++
	return nil
}

func (c *countingValidator) ValidateFeature(context.Context, model.DefinitionID, model.Feature, string) error {
	c.featureCalls++
	return nil
}

func (c *countingValidator) ValidateFeatureProperty(
	context.Context, model.DefinitionID, []model.DefinitionID, string, model.Pointer, any, bool, string,
) error {
	c.propertyCalls++
	return nil
}

func (c *countingValidator) ValidateScopedDeletion(
	context.Context, model.DefinitionID, []model.DefinitionID, string, model.Pointer, string,
) error {
	c.deletionCalls++
	return nil
}

func enabledConfig() wot.Config {
	return wot.Config{
		Enabled:                             true,
		EnforceThingDescriptionModification: true,
		EnforceAttributes:                   true,
		EnforceProperties:                   true,
		EnforceDesiredProperties:            true,
	}
}

func Test_FromConfig_DisabledIntegrationConsultsNothing(t *testing.T) {
	// arrange
	inner := &countingValidator{}
	validator := wot.FromConfig(wot.Config{Enabled: false}, inner)

	// act
	require.NoError(t, validator.ValidateThing(context.Background(), "", nil, "corr"))
	require.NoError(t, validator.ValidateAttributes(context.Background(), "", model.MustPointer("/x"), 1, "corr"))

	// assert
	assert.Zero(t, inner.thingCalls)
	assert.Zero(t, inner.attrCalls)
}

func Test_FromConfig_EnabledTogglesDelegate(t *testing.T) {
	inner := &countingValidator{}
	validator := wot.FromConfig(enabledConfig(), inner)

	require.NoError(t, validator.ValidateThing(context.Background(), "", nil, "corr"))
	require.NoError(t, validator.ValidateAttributes(context.Background(), "", model.MustPointer("/x"), 1, "corr"))
	require.NoError(t, validator.ValidateFeature(context.Background(), "", model.NewFeature("bulb"), "corr"))
	require.NoError(t, validator.ValidateScopedDeletion(
		context.Background(), "", nil, "bulb", model.MustPointer("/on"), "corr",
	))

	assert.Equal(t, 1, inner.thingCalls)
	assert.Equal(t, 1, inner.attrCalls)
	assert.Equal(t, 1, inner.featureCalls)
	assert.Equal(t, 1, inner.deletionCalls)
}

func Test_FromConfig_IndividualTogglesSkipTheirAspect(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(cfg *wot.Config)
		exercise func(v wot.Validator) error
		skipped  func(c *countingValidator) int
	}{
		{
			name:   "thing_description_modification",
			mutate: func(cfg *wot.Config) { cfg.EnforceThingDescriptionModification = false },
			exercise: func(v wot.Validator) error {
				return v.ValidateThing(context.Background(), "", nil, "corr")
			},
			skipped: func(c *countingValidator) int { return c.thingCalls },
		},
		{
			name:   "attributes",
			mutate: func(cfg *wot.Config) { cfg.EnforceAttributes = false },
			exercise: func(v wot.Validator) error {
				return v.ValidateAttributes(context.Background(), "", model.MustPointer("/x"), 1, "corr")
			},
			skipped: func(c *countingValidator) int { return c.attrCalls },
		},
		{
			name:   "reported_properties",
			mutate: func(cfg *wot.Config) { cfg.EnforceProperties = false },
			exercise: func(v wot.Validator) error {
				return v.ValidateFeatureProperty(
					context.Background(), "", nil, "bulb", model.MustPointer("/on"), true, false, "corr",
				)
			},
			skipped: func(c *countingValidator) int { return c.propertyCalls },
		},
		{
			name:   "desired_properties",
			mutate: func(cfg *wot.Config) { cfg.EnforceDesiredProperties = false },
			exercise: func(v wot.Validator) error {
				return v.ValidateFeatureProperty(
					context.Background(), "", nil, "bulb", model.MustPointer("/on"), true, true, "corr",
				)
			},
			skipped: func(c *countingValidator) int { return c.propertyCalls },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			inner := &countingValidator{}
			cfg := enabledConfig()
			tc.mutate(&cfg)
			validator := wot.FromConfig(cfg, inner)

			// act
			require.NoError(t, tc.exercise(validator))

			// assert
			assert.Zero(t, tc.skipped(inner))
		})
	}
}

func Test_FromConfig_DesiredToggleLeavesReportedEnforced(t *testing.T) {
	// arrange - desired-property validation off, reported stays on
	inner := &countingValidator{}
	cfg := enabledConfig()
	cfg.EnforceDesiredProperties = false
	validator := wot.FromConfig(cfg, inner)

	// act
	require.NoError(t, validator.ValidateFeatureProperty(
		context.Background(), "", nil, "bulb", model.MustPointer("/on"), true, false, "corr",
	))
	require.NoError(t, validator.ValidateFeatureProperty(
		context.Background(), "", nil, "bulb", model.MustPointer("/on"), true, true, "corr",
	))

	// assert - only the reported call reached the inner validator
	assert.Equal(t, 1, inner.propertyCalls)
}

func Test_FromConfig_FeatureValidationSkippedOnlyWhenBothTreesAreOff(t *testing.T) {
	inner := &countingValidator{}
	cfg := enabledConfig()
	cfg.EnforceProperties = false
	cfg.EnforceDesiredProperties = false
	validator := wot.FromConfig(cfg, inner)

	require.NoError(t, validator.ValidateFeature(context.Background(), "", model.NewFeature("bulb"), "corr"))

	assert.Zero(t, inner.featureCalls)
}
