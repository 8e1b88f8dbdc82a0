// Package strategies implements the command state machines of the thing
// engine: one strategy per command type, all sharing the same protocol of
// applicability guard, entity-tag computation, and apply. Strategies are pure
// over immutable entity snapshots; the only suspension point is the deferred
// pre-commit validation stage carried inside a mutation Result.
package strategies

import (
	"time"

	"github.com/twinforge/thing-engine-go/observability"
	"github.com/twinforge/thing-engine-go/things/commands"
	"github.com/twinforge/thing-engine-go/things/etag"
	"github.com/twinforge/thing-engine-go/things/events"
	"github.com/twinforge/thing-engine-go/things/model"
	"github.com/twinforge/thing-engine-go/wot"
)

// Strategy handles exactly one command type.
//
// PreviousEntityTag and NextEntityTag must be computable independently of
// whether the mutation is ultimately accepted: the engine uses them for
// conditional-request pre-checks that happen before Apply.
type Strategy interface {
	// IsDefined is the cheap applicability guard: whether the command can be
	// handled at all given the current entity state (e.g. mutations require
	// an existing thing, creation requires a missing one).
	IsDefined(ctx *Context, thing *model.Thing, cmd commands.Command) bool

	// PreviousEntityTag computes the entity tag of the addressed value in the
	// previous entity state, if present.
	PreviousEntityTag(cmd commands.Command, previous *model.Thing) (etag.Tag, bool)

	// NextEntityTag computes the entity tag of the addressed value as it will
	// be after the mutation, if computable. Deletions have no next tag.
	NextEntityTag(cmd commands.Command, next *model.Thing) (etag.Tag, bool)

	// Apply validates the command against the current entity state and
	// produces a Result. nextRevision is the revision the emitted event will
	// establish; metadata is propagated unchanged into the event.
	Apply(
		ctx *Context,
		thing *model.Thing,
		nextRevision int64,
		cmd commands.Command,
		metadata events.Metadata,
	) Result
}

// Context carries the per-engine collaborators a strategy needs. It is
// constructed once by the engine and shared across commands; strategies never
// mutate it.
type Context struct {
	Log           observability.Logger
	SizeValidator SizeValidator
	Validator     wot.Validator
	Clock         func() time.Time
}

func (c *Context) now() time.Time {
	if c.Clock != nil {
		return c.Clock()
	}

	return time.Now().UTC()
}

func (c *Context) logger() observability.Logger {
	if c.Log != nil {
		return c.Log
	}

	return observability.NopLogger{}
}
