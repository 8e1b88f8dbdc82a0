package events

import (
	"time"

	"github.com/twinforge/thing-engine-go/things/model"
)

// Event type identifiers for attribute events.
const (
	AttributesCreatedType  = "things.events:attributesCreated"
	AttributesModifiedType = "things.events:attributesModified"
	AttributesDeletedType  = "things.events:attributesDeleted"
	AttributeCreatedType   = "things.events:attributeCreated"
	AttributeModifiedType  = "things.events:attributeModified"
	AttributeDeletedType   = "things.events:attributeDeleted"
)

// AttributesCreated records creation of the whole attributes tree.
type AttributesCreated struct {
	base
	Attributes map[string]any `json:"attributes"`
}

// BuildAttributesCreated creates an AttributesCreated event.
func BuildAttributesCreated(
	id model.ThingID,
	attributes map[string]any,
	revision int64,
	ts time.Time,
	metadata Metadata,
) AttributesCreated {
	return AttributesCreated{base: newBase(id, revision, ts, metadata), Attributes: attributes}
}

func (e AttributesCreated) EventType() string { return AttributesCreatedType }

// AttributesModified records replacement of the whole attributes tree.
type AttributesModified struct {
	base
	Attributes map[string]any `json:"attributes"`
}

// BuildAttributesModified creates an AttributesModified event.
func BuildAttributesModified(
	id model.ThingID,
	attributes map[string]any,
	revision int64,
	ts time.Time,
	metadata Metadata,
) AttributesModified {
	return AttributesModified{base: newBase(id, revision, ts, metadata), Attributes: attributes}
}

func (e AttributesModified) EventType() string { return AttributesModifiedType }

// AttributesDeleted records removal of the whole attributes tree.
type AttributesDeleted struct {
	base
}

// BuildAttributesDeleted creates an AttributesDeleted event.
func BuildAttributesDeleted(id model.ThingID, revision int64, ts time.Time, metadata Metadata) AttributesDeleted {
	return AttributesDeleted{base: newBase(id, revision, ts, metadata)}
}

func (e AttributesDeleted) EventType() string { return AttributesDeletedType }

// AttributeCreated records creation of a single attribute.
type AttributeCreated struct {
	base
	Pointer string `json:"attribute"`
	Value   any    `json:"value"`
}

// BuildAttributeCreated creates an AttributeCreated event.
func BuildAttributeCreated(
	id model.ThingID,
	ptr model.Pointer,
	value any,
	revision int64,
	ts time.Time,
	metadata Metadata,
) AttributeCreated {
	return AttributeCreated{base: newBase(id, revision, ts, metadata), Pointer: ptr.String(), Value: value}
}

func (e AttributeCreated) EventType() string { return AttributeCreatedType }

// AttributeModified records replacement of a single attribute.
type AttributeModified struct {
	base
	Pointer string `json:"attribute"`
	Value   any    `json:"value"`
}

// BuildAttributeModified creates an AttributeModified event.
func BuildAttributeModified(
	id model.ThingID,
	ptr model.Pointer,
	value any,
	revision int64,
	ts time.Time,
	metadata Metadata,
) AttributeModified {
	return AttributeModified{base: newBase(id, revision, ts, metadata), Pointer: ptr.String(), Value: value}
}

func (e AttributeModified) EventType() string { return AttributeModifiedType }

// AttributeDeleted records removal of a single attribute. It carries the
// pointer identity only, no payload.
type AttributeDeleted struct {
	base
	Pointer string `json:"attribute"`
}

// BuildAttributeDeleted creates an AttributeDeleted event.
func BuildAttributeDeleted(
	id model.ThingID,
	ptr model.Pointer,
	revision int64,
	ts time.Time,
	metadata Metadata,
) AttributeDeleted {
	return AttributeDeleted{base: newBase(id, revision, ts, metadata), Pointer: ptr.String()}
}

func (e AttributeDeleted) EventType() string { return AttributeDeletedType }
