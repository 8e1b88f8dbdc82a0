// Package commands defines the immutable command types consumed by the
// strategy layer. A command is a request to mutate or query exactly one
// Thing, carrying the thing id, headers (correlation id, conditional-request
// matchers), and a type-specific payload. Commands are constructed by a
// protocol adapter, consumed exactly once by a command strategy, and never
// mutated.
package commands

import (
	"github.com/twinforge/thing-engine-go/things/model"
)

// Command is implemented by every command type.
type Command interface {
	// CommandType returns the string identifier for this command type.
	CommandType() string

	// ThingID returns the id of the addressed thing.
	ThingID() model.ThingID

	// CommandHeaders returns the headers the command was issued with.
	CommandHeaders() Headers
}

// base carries the fields shared by all command types.
type base struct {
	id      model.ThingID
	headers Headers
}

func (b base) ThingID() model.ThingID  { return b.id }
func (b base) CommandHeaders() Headers { return b.headers }
