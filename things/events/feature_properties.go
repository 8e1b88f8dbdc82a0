package events

import (
	"time"

	"github.com/twinforge/thing-engine-go/things/model"
)

// Event type identifiers for feature property events.
const (
	FeaturePropertiesCreatedType  = "things.events:featurePropertiesCreated"
	FeaturePropertiesModifiedType = "things.events:featurePropertiesModified"
	FeaturePropertiesDeletedType  = "things.events:featurePropertiesDeleted"
	FeaturePropertyCreatedType    = "things.events:featurePropertyCreated"
	FeaturePropertyModifiedType   = "things.events:featurePropertyModified"
	FeaturePropertyDeletedType    = "things.events:featurePropertyDeleted"
)

// FeaturePropertiesCreated records creation of a feature's reported properties tree.
type FeaturePropertiesCreated struct {
	base
	FeatureID  string         `json:"featureId"`
	Properties map[string]any `json:"properties"`
}

// BuildFeaturePropertiesCreated creates a FeaturePropertiesCreated event.
func BuildFeaturePropertiesCreated(
	id model.ThingID,
	featureID string,
	properties map[string]any,
	revision int64,
	ts time.Time,
	metadata Metadata,
) FeaturePropertiesCreated {
	return FeaturePropertiesCreated{
		base:       newBase(id, revision, ts, metadata),
		FeatureID:  featureID,
		Properties: properties,
	}
}

func (e FeaturePropertiesCreated) EventType() string { return FeaturePropertiesCreatedType }

// FeaturePropertiesModified records replacement of a feature's reported properties tree.
type FeaturePropertiesModified struct {
	base
	FeatureID  string         `json:"featureId"`
	Properties map[string]any `json:"properties"`
}

// BuildFeaturePropertiesModified creates a FeaturePropertiesModified event.
func BuildFeaturePropertiesModified(
	id model.ThingID,
	featureID string,
	properties map[string]any,
	revision int64,
	ts time.Time,
	metadata Metadata,
) FeaturePropertiesModified {
	return FeaturePropertiesModified{
		base:       newBase(id, revision, ts, metadata),
		FeatureID:  featureID,
		Properties: properties,
	}
}

func (e FeaturePropertiesModified) EventType() string { return FeaturePropertiesModifiedType }

// FeaturePropertiesDeleted records removal of a feature's reported properties tree.
type FeaturePropertiesDeleted struct {
	base
	FeatureID string `json:"featureId"`
}

// BuildFeaturePropertiesDeleted creates a FeaturePropertiesDeleted event.
func BuildFeaturePropertiesDeleted(
	id model.ThingID,
	featureID string,
	revision int64,
	ts time.Time,
	metadata Metadata,
) FeaturePropertiesDeleted {
	return FeaturePropertiesDeleted{base: newBase(id, revision, ts, metadata), FeatureID: featureID}
}

func (e FeaturePropertiesDeleted) EventType() string { return FeaturePropertiesDeletedType }

// FeaturePropertyCreated records creation of a single reported property.
type FeaturePropertyCreated struct {
	base
	FeatureID string `json:"featureId"`
	Pointer   string `json:"property"`
	Value     any    `json:"value"`
}

// BuildFeaturePropertyCreated creates a FeaturePropertyCreated event.
func BuildFeaturePropertyCreated(
	id model.ThingID,
	featureID string,
	ptr model.Pointer,
	value any,
	revision int64,
	ts time.Time,
	metadata Metadata,
) FeaturePropertyCreated {
	return FeaturePropertyCreated{
		base:      newBase(id, revision, ts, metadata),
		FeatureID: featureID,
		Pointer:   ptr.String(),
		Value:     value,
	}
}

func (e FeaturePropertyCreated) EventType() string { return FeaturePropertyCreatedType }

// FeaturePropertyModified records replacement of a single reported property.
type FeaturePropertyModified struct {
	base
	FeatureID string `json:"featureId"`
	Pointer   string `json:"property"`
	Value     any    `json:"value"`
}

// BuildFeaturePropertyModified creates a FeaturePropertyModified event.
func BuildFeaturePropertyModified(
	id model.ThingID,
	featureID string,
	ptr model.Pointer,
	value any,
	revision int64,
	ts time.Time,
	metadata Metadata,
) FeaturePropertyModified {
	return FeaturePropertyModified{
		base:      newBase(id, revision, ts, metadata),
		FeatureID: featureID,
		Pointer:   ptr.String(),
		Value:     value,
	}
}

func (e FeaturePropertyModified) EventType() string { return FeaturePropertyModifiedType }

// FeaturePropertyDeleted records removal of a single reported property.
type FeaturePropertyDeleted struct {
	base
	FeatureID string `json:"featureId"`
	Pointer   string `json:"property"`
}

// BuildFeaturePropertyDeleted creates a FeaturePropertyDeleted event.
func BuildFeaturePropertyDeleted(
	id model.ThingID,
	featureID string,
	ptr model.Pointer,
	revision int64,
	ts time.Time,
	metadata Metadata,
) FeaturePropertyDeleted {
	return FeaturePropertyDeleted{
		base:      newBase(id, revision, ts, metadata),
		FeatureID: featureID,
		Pointer:   ptr.String(),
	}
}

func (e FeaturePropertyDeleted) EventType() string { return FeaturePropertyDeletedType }
