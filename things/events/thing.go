package events

import (
	"time"

	"github.com/twinforge/thing-engine-go/things/model"
)

// Event type identifiers for thing-level events.
const (
	ThingCreatedType     = "things.events:thingCreated"
	ThingModifiedType    = "things.events:thingModified"
	ThingDeletedType     = "things.events:thingDeleted"
	PolicyIDModifiedType = "things.events:policyIdModified"
)

// ThingCreated records the creation of a thing. The payload carries the full
// created content.
type ThingCreated struct {
	base
	Thing map[string]any `json:"thing"`
}

// BuildThingCreated creates a ThingCreated event.
func BuildThingCreated(thing model.Thing, revision int64, ts time.Time, metadata Metadata) ThingCreated {
	return ThingCreated{base: newBase(thing.ID(), revision, ts, metadata), Thing: thing.ToJSON()}
}

func (e ThingCreated) EventType() string { return ThingCreatedType }

// ThingModified records full replacement of a thing's content.
type ThingModified struct {
	base
	Thing map[string]any `json:"thing"`
}

// BuildThingModified creates a ThingModified event.
func BuildThingModified(thing model.Thing, revision int64, ts time.Time, metadata Metadata) ThingModified {
	return ThingModified{base: newBase(thing.ID(), revision, ts, metadata), Thing: thing.ToJSON()}
}

func (e ThingModified) EventType() string { return ThingModifiedType }

// ThingDeleted records deletion of a thing. It carries identity and revision only.
type ThingDeleted struct {
	base
}

// BuildThingDeleted creates a ThingDeleted event.
func BuildThingDeleted(id model.ThingID, revision int64, ts time.Time, metadata Metadata) ThingDeleted {
	return ThingDeleted{base: newBase(id, revision, ts, metadata)}
}

func (e ThingDeleted) EventType() string { return ThingDeletedType }

// PolicyIDModified records replacement of the thing's policy reference.
type PolicyIDModified struct {
	base
	PolicyID string `json:"policyId"`
}

// BuildPolicyIDModified creates a PolicyIDModified event.
func BuildPolicyIDModified(
	id model.ThingID,
	policyID model.PolicyID,
	revision int64,
	ts time.Time,
	metadata Metadata,
) PolicyIDModified {
	return PolicyIDModified{base: newBase(id, revision, ts, metadata), PolicyID: policyID.String()}
}

func (e PolicyIDModified) EventType() string { return PolicyIDModifiedType }
