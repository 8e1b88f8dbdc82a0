package events

import (
	"time"

	"github.com/twinforge/thing-engine-go/things/model"
)

// Event type identifiers for thing-definition events.
const (
	ThingDefinitionCreatedType  = "things.events:definitionCreated"
	ThingDefinitionModifiedType = "things.events:definitionModified"
	ThingDefinitionDeletedType  = "things.events:definitionDeleted"
)

// ThingDefinitionCreated records creation of the thing definition.
type ThingDefinitionCreated struct {
	base
	Definition string `json:"definition"`
}

// BuildThingDefinitionCreated creates a ThingDefinitionCreated event.
func BuildThingDefinitionCreated(
	id model.ThingID,
	definition model.DefinitionID,
	revision int64,
	ts time.Time,
	metadata Metadata,
) ThingDefinitionCreated {
	return ThingDefinitionCreated{base: newBase(id, revision, ts, metadata), Definition: string(definition)}
}

func (e ThingDefinitionCreated) EventType() string { return ThingDefinitionCreatedType }

// ThingDefinitionModified records replacement of the thing definition.
type ThingDefinitionModified struct {
	base
	Definition string `json:"definition"`
}

// BuildThingDefinitionModified creates a ThingDefinitionModified event.
func BuildThingDefinitionModified(
	id model.ThingID,
	definition model.DefinitionID,
	revision int64,
	ts time.Time,
	metadata Metadata,
) ThingDefinitionModified {
	return ThingDefinitionModified{base: newBase(id, revision, ts, metadata), Definition: string(definition)}
}

func (e ThingDefinitionModified) EventType() string { return ThingDefinitionModifiedType }

// ThingDefinitionDeleted records removal of the thing definition.
type ThingDefinitionDeleted struct {
	base
}

// BuildThingDefinitionDeleted creates a ThingDefinitionDeleted event.
func BuildThingDefinitionDeleted(id model.ThingID, revision int64, ts time.Time, metadata Metadata) ThingDefinitionDeleted {
	return ThingDefinitionDeleted{base: newBase(id, revision, ts, metadata)}
}

func (e ThingDefinitionDeleted) EventType() string { return ThingDefinitionDeletedType }
