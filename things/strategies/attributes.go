package strategies

import (
	"context"

	"github.com/twinforge/thing-engine-go/things/commands"
	"github.com/twinforge/thing-engine-go/things/etag"
	"github.com/twinforge/thing-engine-go/things/events"
	"github.com/twinforge/thing-engine-go/things/model"
)

// rootPointer addresses the whole tree of the scope under validation.
var rootPointer = model.MustPointer("/")

func attributesTag(thing *model.Thing) (etag.Tag, bool) {
	if thing == nil {
		return "", false
	}
	attributes, present := thing.Attributes()

	return tagOf(attributes, present)
}

func attributeTag(thing *model.Thing, ptr model.Pointer) (etag.Tag, bool) {
	if thing == nil {
		return "", false
	}
	value, present := thing.Attribute(ptr)

	return tagOf(value, present)
}

// modifyAttributesStrategy sets or replaces the whole attributes tree.
type modifyAttributesStrategy struct{}

func (modifyAttributesStrategy) IsDefined(_ *Context, thing *model.Thing, _ commands.Command) bool {
	return thing != nil
}

func (modifyAttributesStrategy) PreviousEntityTag(_ commands.Command, previous *model.Thing) (etag.Tag, bool) {
	return attributesTag(previous)
}

func (modifyAttributesStrategy) NextEntityTag(_ commands.Command, next *model.Thing) (etag.Tag, bool) {
	return attributesTag(next)
}

func (modifyAttributesStrategy) Apply(
	ctx *Context,
	thing *model.Thing,
	nextRevision int64,
	cmd commands.Command,
	metadata events.Metadata,
) Result {
	c, ok := cmd.(commands.ModifyAttributes)
	if !ok {
		return NewErrorResult(cmd, &UnsupportedCommandError{CommandType: cmd.CommandType()})
	}
	if thing == nil {
		return NewErrorResult(cmd, ThingNotFound(c.ThingID()))
	}

	err := checkSize(ctx, c, thing.RemoveAttributes(), c.Attributes, "/attributes", func() model.Thing {
		return thing.SetAttributes(c.Attributes)
	})
	if err != nil {
		return NewErrorResult(cmd, err)
	}

	_, existed := thing.Attributes()
	attributes, _ := model.CopyTree(c.Attributes).(map[string]any)
	ts := ctx.now()
	headers := c.CommandHeaders()

	validation := func(vctx context.Context) error {
		return ctx.Validator.ValidateAttributes(vctx, thingDefinition(thing), rootPointer, attributes, headers.CorrelationID)
	}
	event := func() events.Event {
		if existed {
			return events.BuildAttributesModified(c.ThingID(), attributes, nextRevision, ts, metadata)
		}

		return events.BuildAttributesCreated(c.ThingID(), attributes, nextRevision, ts, metadata)
	}
	response := func() Response {
		status := statusCreated
		if existed {
			status = statusOK
		}
		tag, tagOK := etag.FromValue(attributes)

		return buildResponse(status, attributes, headers, nextRevision, tag, tagOK)
	}

	return NewMutationResult(cmd, validation, event, response)
}

// deleteAttributesStrategy removes the whole attributes tree.
type deleteAttributesStrategy struct{}

func (deleteAttributesStrategy) IsDefined(_ *Context, thing *model.Thing, _ commands.Command) bool {
	return thing != nil
}

func (deleteAttributesStrategy) PreviousEntityTag(_ commands.Command, previous *model.Thing) (etag.Tag, bool) {
	return attributesTag(previous)
}

func (deleteAttributesStrategy) NextEntityTag(commands.Command, *model.Thing) (etag.Tag, bool) {
	return "", false
}

func (deleteAttributesStrategy) Apply(
	ctx *Context,
	thing *model.Thing,
	nextRevision int64,
	cmd commands.Command,
	metadata events.Metadata,
) Result {
	c, ok := cmd.(commands.DeleteAttributes)
	if !ok {
		return NewErrorResult(cmd, &UnsupportedCommandError{CommandType: cmd.CommandType()})
	}
	if thing == nil {
		return NewErrorResult(cmd, ThingNotFound(c.ThingID()))
	}
	if _, present := thing.Attributes(); !present {
		return NewErrorResult(cmd, AttributesNotFound(c.ThingID()))
	}

	ts := ctx.now()
	headers := c.CommandHeaders()
	def := thingDefinition(thing)

	validation := func(vctx context.Context) error {
		return ctx.Validator.ValidateScopedDeletion(vctx, def, nil, "", rootPointer, headers.CorrelationID)
	}
	event := func() events.Event {
		return events.BuildAttributesDeleted(c.ThingID(), nextRevision, ts, metadata)
	}
	response := func() Response {
		return buildResponse(statusNoContent, nil, headers, nextRevision, "", false)
	}

	return NewMutationResult(cmd, validation, event, response)
}

// modifyAttributeStrategy sets a single attribute addressed by pointer,
// materializing intermediate objects as needed.
type modifyAttributeStrategy struct{}

func (modifyAttributeStrategy) IsDefined(_ *Context, thing *model.Thing, _ commands.Command) bool {
	return thing != nil
}

func (modifyAttributeStrategy) PreviousEntityTag(cmd commands.Command, previous *model.Thing) (etag.Tag, bool) {
	c, ok := cmd.(commands.ModifyAttribute)
	if !ok {
		return "", false
	}

	return attributeTag(previous, c.Pointer)
}

func (modifyAttributeStrategy) NextEntityTag(cmd commands.Command, next *model.Thing) (etag.Tag, bool) {
	c, ok := cmd.(commands.ModifyAttribute)
	if !ok {
		return "", false
	}

	return attributeTag(next, c.Pointer)
}

func (modifyAttributeStrategy) Apply(
	ctx *Context,
	thing *model.Thing,
	nextRevision int64,
	cmd commands.Command,
	metadata events.Metadata,
) Result {
	c, ok := cmd.(commands.ModifyAttribute)
	if !ok {
		return NewErrorResult(cmd, &UnsupportedCommandError{CommandType: cmd.CommandType()})
	}
	if thing == nil {
		return NewErrorResult(cmd, ThingNotFound(c.ThingID()))
	}

	path := "/attributes" + c.Pointer.String()
	err := checkSize(ctx, c, thing.RemoveAttribute(c.Pointer), c.Value, path, func() model.Thing {
		return thing.SetAttribute(c.Pointer, c.Value)
	})
	if err != nil {
		return NewErrorResult(cmd, err)
	}

	_, existed := thing.Attribute(c.Pointer)
	value := model.CopyTree(c.Value)
	ts := ctx.now()
	headers := c.CommandHeaders()

	validation := func(vctx context.Context) error {
		return ctx.Validator.ValidateAttributes(vctx, thingDefinition(thing), c.Pointer, value, headers.CorrelationID)
	}
	event := func() events.Event {
		if existed {
			return events.BuildAttributeModified(c.ThingID(), c.Pointer, value, nextRevision, ts, metadata)
		}

		return events.BuildAttributeCreated(c.ThingID(), c.Pointer, value, nextRevision, ts, metadata)
	}
	response := func() Response {
		status := statusCreated
		if existed {
			status = statusOK
		}
		tag, tagOK := etag.FromValue(value)

		return buildResponse(status, value, headers, nextRevision, tag, tagOK)
	}

	return NewMutationResult(cmd, validation, event, response)
}

// deleteAttributeStrategy removes a single attribute addressed by pointer.
type deleteAttributeStrategy struct{}

func (deleteAttributeStrategy) IsDefined(_ *Context, thing *model.Thing, _ commands.Command) bool {
	return thing != nil
}

func (deleteAttributeStrategy) PreviousEntityTag(cmd commands.Command, previous *model.Thing) (etag.Tag, bool) {
	c, ok := cmd.(commands.DeleteAttribute)
	if !ok {
		return "", false
	}

	return attributeTag(previous, c.Pointer)
}

func (deleteAttributeStrategy) NextEntityTag(commands.Command, *model.Thing) (etag.Tag, bool) {
	return "", false
}

func (deleteAttributeStrategy) Apply(
	ctx *Context,
	thing *model.Thing,
	nextRevision int64,
	cmd commands.Command,
	metadata events.Metadata,
) Result {
	c, ok := cmd.(commands.DeleteAttribute)
	if !ok {
		return NewErrorResult(cmd, &UnsupportedCommandError{CommandType: cmd.CommandType()})
	}
	if thing == nil {
		return NewErrorResult(cmd, ThingNotFound(c.ThingID()))
	}
	if _, present := thing.Attribute(c.Pointer); !present {
		return NewErrorResult(cmd, AttributeNotFound(c.ThingID(), c.Pointer))
	}

	ts := ctx.now()
	headers := c.CommandHeaders()
	def := thingDefinition(thing)

	validation := func(vctx context.Context) error {
		return ctx.Validator.ValidateScopedDeletion(vctx, def, nil, "", c.Pointer, headers.CorrelationID)
	}
	event := func() events.Event {
		return events.BuildAttributeDeleted(c.ThingID(), c.Pointer, nextRevision, ts, metadata)
	}
	response := func() Response {
		return buildResponse(statusNoContent, nil, headers, nextRevision, "", false)
	}

	return NewMutationResult(cmd, validation, event, response)
}

// retrieveAttributeStrategy answers a single attribute addressed by pointer.
type retrieveAttributeStrategy struct{}

func (retrieveAttributeStrategy) IsDefined(_ *Context, thing *model.Thing, _ commands.Command) bool {
	return thing != nil
}

func (retrieveAttributeStrategy) PreviousEntityTag(cmd commands.Command, previous *model.Thing) (etag.Tag, bool) {
	c, ok := cmd.(commands.RetrieveAttribute)
	if !ok {
		return "", false
	}

	return attributeTag(previous, c.Pointer)
}

func (retrieveAttributeStrategy) NextEntityTag(cmd commands.Command, next *model.Thing) (etag.Tag, bool) {
	c, ok := cmd.(commands.RetrieveAttribute)
	if !ok {
		return "", false
	}

	return attributeTag(next, c.Pointer)
}

func (retrieveAttributeStrategy) Apply(
	_ *Context,
	thing *model.Thing,
	nextRevision int64,
	cmd commands.Command,
	_ events.Metadata,
) Result {
	c, ok := cmd.(commands.RetrieveAttribute)
	if !ok {
		return NewErrorResult(cmd, &UnsupportedCommandError{CommandType: cmd.CommandType()})
	}
	if thing == nil {
		return NewErrorResult(cmd, ThingNotFound(c.ThingID()))
	}

	value, present := thing.Attribute(c.Pointer)
	if !present {
		return NewErrorResult(cmd, AttributeNotFound(c.ThingID(), c.Pointer))
	}

	tag, tagOK := etag.FromValue(value)

	return NewQueryResult(cmd, buildResponse(statusOK, value, c.CommandHeaders(), nextRevision-1, tag, tagOK))
}
