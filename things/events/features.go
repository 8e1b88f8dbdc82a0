package events

import (
	"time"

	"github.com/twinforge/thing-engine-go/things/model"
)

// Event type identifiers for feature events.
const (
	FeaturesCreatedType           = "things.events:featuresCreated"
	FeaturesModifiedType          = "things.events:featuresModified"
	FeaturesDeletedType           = "things.events:featuresDeleted"
	FeatureCreatedType            = "things.events:featureCreated"
	FeatureModifiedType           = "things.events:featureModified"
	FeatureDeletedType            = "things.events:featureDeleted"
	FeatureDefinitionCreatedType  = "things.events:featureDefinitionCreated"
	FeatureDefinitionModifiedType = "things.events:featureDefinitionModified"
	FeatureDefinitionDeletedType  = "things.events:featureDefinitionDeleted"
)

func featuresToJSON(features map[string]model.Feature) map[string]any {
	obj := make(map[string]any, len(features))
	for id, f := range features {
		obj[id] = f.ToJSON()
	}

	return obj
}

// FeaturesCreated records creation of the whole features container.
type FeaturesCreated struct {
	base
	Features map[string]any `json:"features"`
}

// BuildFeaturesCreated creates a FeaturesCreated event.
func BuildFeaturesCreated(
	id model.ThingID,
	features map[string]model.Feature,
	revision int64,
	ts time.Time,
	metadata Metadata,
) FeaturesCreated {
	return FeaturesCreated{base: newBase(id, revision, ts, metadata), Features: featuresToJSON(features)}
}

func (e FeaturesCreated) EventType() string { return FeaturesCreatedType }

// FeaturesModified records replacement of the whole features container.
type FeaturesModified struct {
	base
	Features map[string]any `json:"features"`
}

// BuildFeaturesModified creates a FeaturesModified event.
func BuildFeaturesModified(
	id model.ThingID,
	features map[string]model.Feature,
	revision int64,
	ts time.Time,
	metadata Metadata,
) FeaturesModified {
	return FeaturesModified{base: newBase(id, revision, ts, metadata), Features: featuresToJSON(features)}
}

func (e FeaturesModified) EventType() string { return FeaturesModifiedType }

// FeaturesDeleted records removal of the whole features container.
type FeaturesDeleted struct {
	base
}

// BuildFeaturesDeleted creates a FeaturesDeleted event.
func BuildFeaturesDeleted(id model.ThingID, revision int64, ts time.Time, metadata Metadata) FeaturesDeleted {
	return FeaturesDeleted{base: newBase(id, revision, ts, metadata)}
}

func (e FeaturesDeleted) EventType() string { return FeaturesDeletedType }

// FeatureCreated records creation of a single feature.
type FeatureCreated struct {
	base
	FeatureID string         `json:"featureId"`
	Feature   map[string]any `json:"feature"`
}

// BuildFeatureCreated creates a FeatureCreated event.
func BuildFeatureCreated(
	id model.ThingID,
	feature model.Feature,
	revision int64,
	ts time.Time,
	metadata Metadata,
) FeatureCreated {
	return FeatureCreated{
		base:      newBase(id, revision, ts, metadata),
		FeatureID: feature.ID(),
		Feature:   feature.ToJSON(),
	}
}

func (e FeatureCreated) EventType() string { return FeatureCreatedType }

// FeatureModified records replacement of a single feature.
type FeatureModified struct {
	base
	FeatureID string         `json:"featureId"`
	Feature   map[string]any `json:"feature"`
}

// BuildFeatureModified creates a FeatureModified event.
func BuildFeatureModified(
	id model.ThingID,
	feature model.Feature,
	revision int64,
	ts time.Time,
	metadata Metadata,
) FeatureModified {
	return FeatureModified{
		base:      newBase(id, revision, ts, metadata),
		FeatureID: feature.ID(),
		Feature:   feature.ToJSON(),
	}
}

func (e FeatureModified) EventType() string { return FeatureModifiedType }

// FeatureDeleted records removal of a single feature.
type FeatureDeleted struct {
	base
	FeatureID string `json:"featureId"`
}

// BuildFeatureDeleted creates a FeatureDeleted event.
func BuildFeatureDeleted(
	id model.ThingID,
	featureID string,
	revision int64,
	ts time.Time,
	metadata Metadata,
) FeatureDeleted {
	return FeatureDeleted{base: newBase(id, revision, ts, metadata), FeatureID: featureID}
}

func (e FeatureDeleted) EventType() string { return FeatureDeletedType }

func definitionToStrings(definition []model.DefinitionID) []string {
	out := make([]string, len(definition))
	for i, d := range definition {
		out[i] = string(d)
	}

	return out
}

// FeatureDefinitionCreated records creation of a feature's definition.
type FeatureDefinitionCreated struct {
	base
	FeatureID  string   `json:"featureId"`
	Definition []string `json:"definition"`
}

// BuildFeatureDefinitionCreated creates a FeatureDefinitionCreated event.
func BuildFeatureDefinitionCreated(
	id model.ThingID,
	featureID string,
	definition []model.DefinitionID,
	revision int64,
	ts time.Time,
	metadata Metadata,
) FeatureDefinitionCreated {
	return FeatureDefinitionCreated{
		base:       newBase(id, revision, ts, metadata),
		FeatureID:  featureID,
		Definition: definitionToStrings(definition),
	}
}

func (e FeatureDefinitionCreated) EventType() string { return FeatureDefinitionCreatedType }

// FeatureDefinitionModified records replacement of a feature's definition.
type FeatureDefinitionModified struct {
	base
	FeatureID  string   `json:"featureId"`
	Definition []string `json:"definition"`
}

// BuildFeatureDefinitionModified creates a FeatureDefinitionModified event.
func BuildFeatureDefinitionModified(
	id model.ThingID,
	featureID string,
	definition []model.DefinitionID,
	revision int64,
	ts time.Time,
	metadata Metadata,
) FeatureDefinitionModified {
	return FeatureDefinitionModified{
		base:       newBase(id, revision, ts, metadata),
		FeatureID:  featureID,
		Definition: definitionToStrings(definition),
	}
}

func (e FeatureDefinitionModified) EventType() string { return FeatureDefinitionModifiedType }

// FeatureDefinitionDeleted records removal of a feature's definition.
type FeatureDefinitionDeleted struct {
	base
	FeatureID string `json:"featureId"`
}

// BuildFeatureDefinitionDeleted creates a FeatureDefinitionDeleted event.
func BuildFeatureDefinitionDeleted(
	id model.ThingID,
	featureID string,
	revision int64,
	ts time.Time,
	metadata Metadata,
) FeatureDefinitionDeleted {
	return FeatureDefinitionDeleted{base: newBase(id, revision, ts, metadata), FeatureID: featureID}
}

func (e FeatureDefinitionDeleted) EventType() string { return FeatureDefinitionDeletedType }
