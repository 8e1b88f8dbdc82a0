package wot

import (
	"context"

	"github.com/caarlos0/env/v11"

	"github.com/twinforge/thing-engine-go/things/model"
)

// Config carries the feature-validation toggles. Toggles scope what a
// Validator implementation enforces; the engine only passes them through.
type Config struct {
	// Enabled switches the WoT integration on or off globally.
	Enabled bool `env:"THING_ENGINE_WOT_VALIDATION_ENABLED" envDefault:"true"`

	// EnforceThingDescriptionModification validates full thing replacements
	// against the referenced thing model.
	EnforceThingDescriptionModification bool `env:"THING_ENGINE_WOT_ENFORCE_TD_MODIFICATION" envDefault:"true"`

	// EnforceAttributes validates attribute modifications.
	EnforceAttributes bool `env:"THING_ENGINE_WOT_ENFORCE_ATTRIBUTES" envDefault:"true"`

	// EnforceProperties validates reported feature property modifications.
	EnforceProperties bool `env:"THING_ENGINE_WOT_ENFORCE_PROPERTIES" envDefault:"true"`

	// EnforceDesiredProperties validates desired feature property modifications.
	EnforceDesiredProperties bool `env:"THING_ENGINE_WOT_ENFORCE_DESIRED_PROPERTIES" envDefault:"true"`

	// ForbidNonModeledFeatures rejects features not present in the thing model.
	ForbidNonModeledFeatures bool `env:"THING_ENGINE_WOT_FORBID_NON_MODELED_FEATURES" envDefault:"false"`
}

// LoadConfig parses the validation toggles from the environment.
func LoadConfig() (Config, error) {
	return env.ParseAs[Config]()
}

// FromConfig applies the feature toggles to a validator. A globally disabled
// integration accepts everything; otherwise each toggle switches its
// validation aspect off while the rest stays enforced. The
// ForbidNonModeledFeatures toggle is a model-level concern the inner
// implementation consults itself.
func FromConfig(cfg Config, inner Validator) Validator {
	if !cfg.Enabled {
		return Disabled()
	}

	return &toggledValidator{inner: inner, cfg: cfg}
}

type toggledValidator struct {
	inner Validator
	cfg   Config
}

func (t *toggledValidator) ValidateThing(
	ctx context.Context, def model.DefinitionID, thing map[string]any, correlationID string,
) error {
	if !t.cfg.EnforceThingDescriptionModification {
		return nil
	}

	return t.inner.ValidateThing(ctx, def, thing, correlationID)
}

func (t *toggledValidator) ValidateAttributes(
	ctx context.Context, def model.DefinitionID, ptr model.Pointer, value any, correlationID string,
) error {
	if !t.cfg.EnforceAttributes {
		return nil
	}

	return t.inner.ValidateAttributes(ctx, def, ptr, value, correlationID)
}

func (t *toggledValidator) ValidateFeature(
	ctx context.Context, def model.DefinitionID, feature model.Feature, correlationID string,
) error {
	// Whole-feature validation covers both property trees; it is skipped only
	// when neither tree is enforced.
	if !t.cfg.EnforceProperties && !t.cfg.EnforceDesiredProperties {
		return nil
	}

	return t.inner.ValidateFeature(ctx, def, feature, correlationID)
}

func (t *toggledValidator) ValidateFeatureProperty(
	ctx context.Context,
	def model.DefinitionID,
	featureDef []model.DefinitionID,
	featureID string,
	ptr model.Pointer,
	value any,
	desired bool,
	correlationID string,
) error {
	if desired && !t.cfg.EnforceDesiredProperties {
		return nil
	}
	if !desired && !t.cfg.EnforceProperties {
		return nil
	}

	return t.inner.ValidateFeatureProperty(ctx, def, featureDef, featureID, ptr, value, desired, correlationID)
}

func (t *toggledValidator) ValidateScopedDeletion(
	ctx context.Context,
	def model.DefinitionID,
	featureDef []model.DefinitionID,
	featureID string,
	ptr model.Pointer,
	correlationID string,
) error {
	return t.inner.ValidateScopedDeletion(ctx, def, featureDef, featureID, ptr, correlationID)
}
