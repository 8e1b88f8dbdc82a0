// Package events defines the immutable domain events emitted by the command
// strategies. Every accepted mutation produces exactly one event; the
// persistence collaborator owns it afterwards and is the sole authority
// advancing the entity revision.
package events

import (
	"time"

	"github.com/twinforge/thing-engine-go/things/model"
)

// Metadata carries optional key-value annotations propagated unchanged from
// the command into the event.
type Metadata map[string]string

// Event represents an accepted mutation of one Thing.
type Event interface {
	// EventType returns the string identifier for this event type.
	EventType() string

	// ThingID returns the id of the mutated thing.
	ThingID() model.ThingID

	// Revision returns the new revision the event establishes.
	Revision() int64

	// Timestamp returns when the event was produced.
	Timestamp() time.Time

	// EventMetadata returns the optional metadata annotations.
	EventMetadata() Metadata
}

// base carries the fields shared by all event types. The exported fields
// define the persisted payload shape.
type base struct {
	id model.ThingID

	EntityID string    `json:"entityId"`
	Rev      int64     `json:"revision"`
	TS       time.Time `json:"timestamp"`
	Meta     Metadata  `json:"metadata,omitempty"`
}

func newBase(id model.ThingID, revision int64, ts time.Time, metadata Metadata) base {
	return base{
		id:       id,
		EntityID: id.String(),
		Rev:      revision,
		TS:       ts,
		Meta:     metadata,
	}
}

func (b base) ThingID() model.ThingID   { return b.id }
func (b base) Revision() int64          { return b.Rev }
func (b base) Timestamp() time.Time     { return b.TS }
func (b base) EventMetadata() Metadata  { return b.Meta }
