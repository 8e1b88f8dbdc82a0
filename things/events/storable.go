package events

import (
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var (
	// ErrInvalidPayloadJSON is returned when an event payload is not valid JSON.
	ErrInvalidPayloadJSON = errors.New("payload json is not valid")

	// ErrMappingToStorableEventFailed is returned when event serialization fails.
	ErrMappingToStorableEventFailed = errors.New("mapping to storable event failed")
)

// StorableEvent is a DTO used by a persistence collaborator to append events
// to a journal and query them back. It is built on scalars to stay agnostic
// of the concrete event types.
//
// The payload always carries the observable shape
// {entityId, revision, timestamp, metadata?, eventType, ...type-specific fields}.
type StorableEvent struct {
	EventType   string
	OccurredAt  time.Time
	PayloadJSON []byte
}

// StorableEventFrom converts an Event into its storable representation.
// The event type identifier is folded into the payload so that the payload
// alone reproduces the persisted shape.
func StorableEventFrom(event Event) (StorableEvent, error) {
	encoded, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(event)
	if err != nil {
		return StorableEvent{}, errors.Join(ErrMappingToStorableEventFailed, err)
	}

	var payload map[string]any
	if err = jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(encoded, &payload); err != nil {
		return StorableEvent{}, errors.Join(ErrMappingToStorableEventFailed, err)
	}
	payload["eventType"] = event.EventType()

	payloadJSON, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(payload)
	if err != nil {
		return StorableEvent{}, errors.Join(ErrMappingToStorableEventFailed, err)
	}

	if !jsoniter.ConfigFastest.Valid(payloadJSON) {
		return StorableEvent{}, ErrInvalidPayloadJSON
	}

	return StorableEvent{
		EventType:   event.EventType(),
		OccurredAt:  event.Timestamp(),
		PayloadJSON: payloadJSON,
	}, nil
}
