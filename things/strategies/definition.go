package strategies

import (
	"context"

	"github.com/twinforge/thing-engine-go/things/commands"
	"github.com/twinforge/thing-engine-go/things/etag"
	"github.com/twinforge/thing-engine-go/things/events"
	"github.com/twinforge/thing-engine-go/things/model"
)

var definitionPointer = model.MustPointer("/definition")

func definitionTag(thing *model.Thing) (etag.Tag, bool) {
	if thing == nil {
		return "", false
	}
	def, present := thing.Definition()

	return tagOf(string(def), present)
}

// modifyDefinitionStrategy sets or replaces the thing definition. Whether the
// definition existed before decides between the created and modified event.
type modifyDefinitionStrategy struct{}

func (modifyDefinitionStrategy) IsDefined(_ *Context, thing *model.Thing, _ commands.Command) bool {
	return thing != nil
}

func (modifyDefinitionStrategy) PreviousEntityTag(_ commands.Command, previous *model.Thing) (etag.Tag, bool) {
	return definitionTag(previous)
}

func (modifyDefinitionStrategy) NextEntityTag(_ commands.Command, next *model.Thing) (etag.Tag, bool) {
	return definitionTag(next)
}

func (modifyDefinitionStrategy) Apply(
	ctx *Context,
	thing *model.Thing,
	nextRevision int64,
	cmd commands.Command,
	metadata events.Metadata,
) Result {
	c, ok := cmd.(commands.ModifyDefinition)
	if !ok {
		return NewErrorResult(cmd, &UnsupportedCommandError{CommandType: cmd.CommandType()})
	}
	if thing == nil {
		return NewErrorResult(cmd, ThingNotFound(c.ThingID()))
	}

	err := checkSize(ctx, c, thing.RemoveDefinition(), string(c.Definition), "/definition", func() model.Thing {
		return thing.SetDefinition(c.Definition)
	})
	if err != nil {
		return NewErrorResult(cmd, err)
	}

	_, existed := thing.Definition()
	updated := thing.SetDefinition(c.Definition)
	ts := ctx.now()
	headers := c.CommandHeaders()

	validation := func(vctx context.Context) error {
		return ctx.Validator.ValidateThing(vctx, c.Definition, updated.ToJSON(), headers.CorrelationID)
	}
	event := func() events.Event {
		if existed {
			return events.BuildThingDefinitionModified(c.ThingID(), c.Definition, nextRevision, ts, metadata)
		}

		return events.BuildThingDefinitionCreated(c.ThingID(), c.Definition, nextRevision, ts, metadata)
	}
	response := func() Response {
		status := statusCreated
		if existed {
			status = statusOK
		}
		tag, tagOK := etag.FromValue(string(c.Definition))

		return buildResponse(status, string(c.Definition), headers, nextRevision, tag, tagOK)
	}

	return NewMutationResult(cmd, validation, event, response)
}

// deleteDefinitionStrategy removes the thing definition.
type deleteDefinitionStrategy struct{}

func (deleteDefinitionStrategy) IsDefined(_ *Context, thing *model.Thing, _ commands.Command) bool {
	return thing != nil
}

func (deleteDefinitionStrategy) PreviousEntityTag(_ commands.Command, previous *model.Thing) (etag.Tag, bool) {
	return definitionTag(previous)
}

func (deleteDefinitionStrategy) NextEntityTag(commands.Command, *model.Thing) (etag.Tag, bool) {
	return "", false
}

func (deleteDefinitionStrategy) Apply(
	ctx *Context,
	thing *model.Thing,
	nextRevision int64,
	cmd commands.Command,
	metadata events.Metadata,
) Result {
	c, ok := cmd.(commands.DeleteDefinition)
	if !ok {
		return NewErrorResult(cmd, &UnsupportedCommandError{CommandType: cmd.CommandType()})
	}
	if thing == nil {
		return NewErrorResult(cmd, ThingNotFound(c.ThingID()))
	}
	if _, present := thing.Definition(); !present {
		return NewErrorResult(cmd, DefinitionNotFound(c.ThingID()))
	}

	ts := ctx.now()
	headers := c.CommandHeaders()
	previousDef := thingDefinition(thing)

	validation := func(vctx context.Context) error {
		return ctx.Validator.ValidateScopedDeletion(vctx, previousDef, nil, "", definitionPointer, headers.CorrelationID)
	}
	event := func() events.Event {
		return events.BuildThingDefinitionDeleted(c.ThingID(), nextRevision, ts, metadata)
	}
	response := func() Response {
		return buildResponse(statusNoContent, nil, headers, nextRevision, "", false)
	}

	return NewMutationResult(cmd, validation, event, response)
}
