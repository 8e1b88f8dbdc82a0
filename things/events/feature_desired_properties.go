package events

import (
	"time"

	"github.com/twinforge/thing-engine-go/things/model"
)

// Event type identifiers for feature desired property events.
const (
	FeatureDesiredPropertiesCreatedType  = "things.events:featureDesiredPropertiesCreated"
	FeatureDesiredPropertiesModifiedType = "things.events:featureDesiredPropertiesModified"
	FeatureDesiredPropertiesDeletedType  = "things.events:featureDesiredPropertiesDeleted"
	FeatureDesiredPropertyCreatedType    = "things.events:featureDesiredPropertyCreated"
	FeatureDesiredPropertyModifiedType   = "things.events:featureDesiredPropertyModified"
	FeatureDesiredPropertyDeletedType    = "things.events:featureDesiredPropertyDeleted"
)

// FeatureDesiredPropertiesCreated records creation of a feature's desired properties tree.
type FeatureDesiredPropertiesCreated struct {
	base
	FeatureID         string         `json:"featureId"`
	DesiredProperties map[string]any `json:"desiredProperties"`
}

// BuildFeatureDesiredPropertiesCreated creates a FeatureDesiredPropertiesCreated event.
func BuildFeatureDesiredPropertiesCreated(
	id model.ThingID,
	featureID string,
	desiredProperties map[string]any,
	revision int64,
	ts time.Time,
	metadata Metadata,
) FeatureDesiredPropertiesCreated {
	return FeatureDesiredPropertiesCreated{
		base:              newBase(id, revision, ts, metadata),
		FeatureID:         featureID,
		DesiredProperties: desiredProperties,
	}
}

func (e FeatureDesiredPropertiesCreated) EventType() string {
	return FeatureDesiredPropertiesCreatedType
}

// FeatureDesiredPropertiesModified records replacement of a feature's desired properties tree.
type FeatureDesiredPropertiesModified struct {
	base
	FeatureID         string         `json:"featureId"`
	DesiredProperties map[string]any `json:"desiredProperties"`
}

// BuildFeatureDesiredPropertiesModified creates a FeatureDesiredPropertiesModified event.
func BuildFeatureDesiredPropertiesModified(
	id model.ThingID,
	featureID string,
	desiredProperties map[string]any,
	revision int64,
	ts time.Time,
	metadata Metadata,
) FeatureDesiredPropertiesModified {
	return FeatureDesiredPropertiesModified{
		base:              newBase(id, revision, ts, metadata),
		FeatureID:         featureID,
		DesiredProperties: desiredProperties,
	}
}

func (e FeatureDesiredPropertiesModified) EventType() string {
	return FeatureDesiredPropertiesModifiedType
}

// FeatureDesiredPropertiesDeleted records removal of a feature's desired properties tree.
type FeatureDesiredPropertiesDeleted struct {
	base
	FeatureID string `json:"featureId"`
}

// BuildFeatureDesiredPropertiesDeleted creates a FeatureDesiredPropertiesDeleted event.
func BuildFeatureDesiredPropertiesDeleted(
	id model.ThingID,
	featureID string,
	revision int64,
	ts time.Time,
	metadata Metadata,
) FeatureDesiredPropertiesDeleted {
	return FeatureDesiredPropertiesDeleted{base: newBase(id, revision, ts, metadata), FeatureID: featureID}
}

func (e FeatureDesiredPropertiesDeleted) EventType() string {
	return FeatureDesiredPropertiesDeletedType
}

// FeatureDesiredPropertyCreated records creation of a single desired property.
type FeatureDesiredPropertyCreated struct {
	base
	FeatureID string `json:"featureId"`
	Pointer   string `json:"desiredProperty"`
	Value     any    `json:"value"`
}

// BuildFeatureDesiredPropertyCreated creates a FeatureDesiredPropertyCreated event.
func BuildFeatureDesiredPropertyCreated(
	id model.ThingID,
	featureID string,
	ptr model.Pointer,
	value any,
	revision int64,
	ts time.Time,
	metadata Metadata,
) FeatureDesiredPropertyCreated {
	return FeatureDesiredPropertyCreated{
		base:      newBase(id, revision, ts, metadata),
		FeatureID: featureID,
		Pointer:   ptr.String(),
		Value:     value,
	}
}

func (e FeatureDesiredPropertyCreated) EventType() string { return FeatureDesiredPropertyCreatedType }

// FeatureDesiredPropertyModified records replacement of a single desired property.
type FeatureDesiredPropertyModified struct {
	base
	FeatureID string `json:"featureId"`
	Pointer   string `json:"desiredProperty"`
	Value     any    `json:"value"`
}

// BuildFeatureDesiredPropertyModified creates a FeatureDesiredPropertyModified event.
func BuildFeatureDesiredPropertyModified(
	id model.ThingID,
	featureID string,
	ptr model.Pointer,
	value any,
	revision int64,
	ts time.Time,
	metadata Metadata,
) FeatureDesiredPropertyModified {
	return FeatureDesiredPropertyModified{
		base:      newBase(id, revision, ts, metadata),
		FeatureID: featureID,
		Pointer:   ptr.String(),
		Value:     value,
	}
}

func (e FeatureDesiredPropertyModified) EventType() string {
	return FeatureDesiredPropertyModifiedType
}

// FeatureDesiredPropertyDeleted records removal of a single desired property.
type FeatureDesiredPropertyDeleted struct {
	base
	FeatureID string `json:"featureId"`
	Pointer   string `json:"desiredProperty"`
}

// BuildFeatureDesiredPropertyDeleted creates a FeatureDesiredPropertyDeleted event.
func BuildFeatureDesiredPropertyDeleted(
	id model.ThingID,
	featureID string,
	ptr model.Pointer,
	revision int64,
	ts time.Time,
	metadata Metadata,
) FeatureDesiredPropertyDeleted {
	return FeatureDesiredPropertyDeleted{
		base:      newBase(id, revision, ts, metadata),
		FeatureID: featureID,
		Pointer:   ptr.String(),
	}
}

func (e FeatureDesiredPropertyDeleted) EventType() string { return FeatureDesiredPropertyDeletedType }
