package strategies

import (
	"context"

	"github.com/twinforge/thing-engine-go/things/commands"
	"github.com/twinforge/thing-engine-go/things/etag"
	"github.com/twinforge/thing-engine-go/things/events"
	"github.com/twinforge/thing-engine-go/things/model"
)

// createThingStrategy handles creation of a not-yet-existing thing. It is the
// only strategy defined on an absent entity.
type createThingStrategy struct{}

func (createThingStrategy) IsDefined(_ *Context, thing *model.Thing, _ commands.Command) bool {
	return thing == nil
}

func (createThingStrategy) PreviousEntityTag(commands.Command, *model.Thing) (etag.Tag, bool) {
	return "", false
}

func (createThingStrategy) NextEntityTag(_ commands.Command, next *model.Thing) (etag.Tag, bool) {
	return tagOf(next, next != nil)
}

func (createThingStrategy) Apply(
	ctx *Context,
	thing *model.Thing,
	nextRevision int64,
	cmd commands.Command,
	metadata events.Metadata,
) Result {
	c, ok := cmd.(commands.CreateThing)
	if !ok {
		return NewErrorResult(cmd, &UnsupportedCommandError{CommandType: cmd.CommandType()})
	}
	if thing != nil {
		return NewErrorResult(cmd, ThingConflict(c.ThingID()))
	}

	content := c.Thing.ToJSON()
	err := ctx.SizeValidator.EnsureValidSize(
		c.ThingID(),
		func() int64 { return model.UpperBoundSize(content) },
		func() int64 { return model.ExactSize(content) },
		c.CommandHeaders,
	)
	if err != nil {
		return NewErrorResult(cmd, err)
	}

	created := c.Thing
	ts := ctx.now()
	headers := c.CommandHeaders()

	validation := func(vctx context.Context) error {
		return ctx.Validator.ValidateThing(vctx, thingDefinition(&created), content, headers.CorrelationID)
	}
	event := func() events.Event {
		return events.BuildThingCreated(created, nextRevision, ts, metadata)
	}
	response := func() Response {
		tag, tagOK := etag.FromValue(created)
		return buildResponse(statusCreated, content, headers, nextRevision, tag, tagOK)
	}

	return NewMutationResult(cmd, validation, event, response)
}

// modifyThingStrategy replaces the whole content of an existing thing. The
// policy reference of the previous state is carried over when the replacement
// does not name one.
type modifyThingStrategy struct{}

func (modifyThingStrategy) IsDefined(_ *Context, thing *model.Thing, _ commands.Command) bool {
	return thing != nil
}

func (modifyThingStrategy) PreviousEntityTag(_ commands.Command, previous *model.Thing) (etag.Tag, bool) {
	return tagOf(previous, previous != nil)
}

func (modifyThingStrategy) NextEntityTag(_ commands.Command, next *model.Thing) (etag.Tag, bool) {
	return tagOf(next, next != nil)
}

func (modifyThingStrategy) Apply(
	ctx *Context,
	thing *model.Thing,
	nextRevision int64,
	cmd commands.Command,
	metadata events.Metadata,
) Result {
	c, ok := cmd.(commands.ModifyThing)
	if !ok {
		return NewErrorResult(cmd, &UnsupportedCommandError{CommandType: cmd.CommandType()})
	}
	if thing == nil {
		return NewErrorResult(cmd, ThingNotFound(c.ThingID()))
	}

	replacement := c.Thing
	if _, has := replacement.PolicyID(); !has {
		if previous, hadPolicy := thing.PolicyID(); hadPolicy {
			replacement = replacement.SetPolicyID(previous)
		}
	}

	content := replacement.ToJSON()
	err := ctx.SizeValidator.EnsureValidSize(
		c.ThingID(),
		func() int64 { return model.UpperBoundSize(content) },
		func() int64 { return model.ExactSize(content) },
		c.CommandHeaders,
	)
	if err != nil {
		return NewErrorResult(cmd, err)
	}

	ts := ctx.now()
	headers := c.CommandHeaders()

	validation := func(vctx context.Context) error {
		return ctx.Validator.ValidateThing(vctx, thingDefinition(&replacement), content, headers.CorrelationID)
	}
	event := func() events.Event {
		return events.BuildThingModified(replacement, nextRevision, ts, metadata)
	}
	response := func() Response {
		tag, tagOK := etag.FromValue(replacement)
		return buildResponse(statusOK, content, headers, nextRevision, tag, tagOK)
	}

	return NewMutationResult(cmd, validation, event, response)
}

// deleteThingStrategy deletes an existing thing.
type deleteThingStrategy struct{}

func (deleteThingStrategy) IsDefined(_ *Context, thing *model.Thing, _ commands.Command) bool {
	return thing != nil
}

func (deleteThingStrategy) PreviousEntityTag(_ commands.Command, previous *model.Thing) (etag.Tag, bool) {
	return tagOf(previous, previous != nil)
}

func (deleteThingStrategy) NextEntityTag(commands.Command, *model.Thing) (etag.Tag, bool) {
	return "", false
}

func (deleteThingStrategy) Apply(
	ctx *Context,
	thing *model.Thing,
	nextRevision int64,
	cmd commands.Command,
	metadata events.Metadata,
) Result {
	c, ok := cmd.(commands.DeleteThing)
	if !ok {
		return NewErrorResult(cmd, &UnsupportedCommandError{CommandType: cmd.CommandType()})
	}
	if thing == nil {
		return NewErrorResult(cmd, ThingNotFound(c.ThingID()))
	}

	ts := ctx.now()
	headers := c.CommandHeaders()

	event := func() events.Event {
		return events.BuildThingDeleted(c.ThingID(), nextRevision, ts, metadata)
	}
	response := func() Response {
		return buildResponse(statusNoContent, nil, headers, nextRevision, "", false)
	}

	return NewMutationResult(cmd, nil, event, response)
}

// retrieveThingStrategy answers the current thing content.
type retrieveThingStrategy struct{}

func (retrieveThingStrategy) IsDefined(_ *Context, thing *model.Thing, _ commands.Command) bool {
	return thing != nil
}

func (retrieveThingStrategy) PreviousEntityTag(_ commands.Command, previous *model.Thing) (etag.Tag, bool) {
	return tagOf(previous, previous != nil)
}

func (retrieveThingStrategy) NextEntityTag(_ commands.Command, next *model.Thing) (etag.Tag, bool) {
	return tagOf(next, next != nil)
}

func (retrieveThingStrategy) Apply(
	_ *Context,
	thing *model.Thing,
	nextRevision int64,
	cmd commands.Command,
	_ events.Metadata,
) Result {
	c, ok := cmd.(commands.RetrieveThing)
	if !ok {
		return NewErrorResult(cmd, &UnsupportedCommandError{CommandType: cmd.CommandType()})
	}
	if thing == nil {
		return NewErrorResult(cmd, ThingNotFound(c.ThingID()))
	}

	tag, tagOK := etag.FromValue(thing)

	return NewQueryResult(cmd, buildResponse(statusOK, thing.ToJSON(), c.CommandHeaders(), nextRevision-1, tag, tagOK))
}
