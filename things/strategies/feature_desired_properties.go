package strategies

import (
	"context"

	"github.com/twinforge/thing-engine-go/things/commands"
	"github.com/twinforge/thing-engine-go/things/etag"
	"github.com/twinforge/thing-engine-go/things/events"
	"github.com/twinforge/thing-engine-go/things/model"
)

func featureDesiredPropertiesTag(thing *model.Thing, featureID string) (etag.Tag, bool) {
	if thing == nil {
		return "", false
	}
	f, present := thing.Feature(featureID)
	if !present {
		return "", false
	}
	properties, present := f.DesiredProperties()

	return tagOf(properties, present)
}

func featureDesiredPropertyTag(thing *model.Thing, featureID string, ptr model.Pointer) (etag.Tag, bool) {
	if thing == nil {
		return "", false
	}
	f, present := thing.Feature(featureID)
	if !present {
		return "", false
	}
	value, present := f.DesiredProperty(ptr)

	return tagOf(value, present)
}

// modifyFeatureDesiredPropertiesStrategy sets or replaces a feature's whole
// desired properties tree. The feature itself must exist.
type modifyFeatureDesiredPropertiesStrategy struct{}

func (modifyFeatureDesiredPropertiesStrategy) IsDefined(_ *Context, thing *model.Thing, _ commands.Command) bool {
	return thing != nil
}

func (modifyFeatureDesiredPropertiesStrategy) PreviousEntityTag(cmd commands.Command, previous *model.Thing) (etag.Tag, bool) {
	c, ok := cmd.(commands.ModifyFeatureDesiredProperties)
	if !ok {
		return "", false
	}

	return featureDesiredPropertiesTag(previous, c.FeatureID)
}

func (modifyFeatureDesiredPropertiesStrategy) NextEntityTag(cmd commands.Command, next *model.Thing) (etag.Tag, bool) {
	c, ok := cmd.(commands.ModifyFeatureDesiredProperties)
	if !ok {
		return "", false
	}

	return featureDesiredPropertiesTag(next, c.FeatureID)
}

func (modifyFeatureDesiredPropertiesStrategy) Apply(
	ctx *Context,
	thing *model.Thing,
	nextRevision int64,
	cmd commands.Command,
	metadata events.Metadata,
) Result {
	c, ok := cmd.(commands.ModifyFeatureDesiredProperties)
	if !ok {
		return NewErrorResult(cmd, &UnsupportedCommandError{CommandType: cmd.CommandType()})
	}
	if thing == nil {
		return NewErrorResult(cmd, ThingNotFound(c.ThingID()))
	}

	path := "/features/" + c.FeatureID + "/desiredProperties"
	err := checkSize(ctx, c, strippedOfDesiredProperties(*thing, c.FeatureID), c.DesiredProperties, path, func() model.Thing {
		f, present := thing.Feature(c.FeatureID)
		if !present {
			return *thing
		}

		return thing.SetFeature(f.SetDesiredProperties(c.DesiredProperties))
	})
	if err != nil {
		return NewErrorResult(cmd, err)
	}

	f, notFound := featureOrNotFound(thing, c, c.FeatureID)
	if notFound != nil {
		return NewErrorResult(cmd, notFound)
	}

	_, existed := f.DesiredProperties()
	properties, _ := model.CopyTree(c.DesiredProperties).(map[string]any)
	ts := ctx.now()
	headers := c.CommandHeaders()
	def := thingDefinition(thing)
	featureDef := featureDefinition(f)

	validation := func(vctx context.Context) error {
		return ctx.Validator.ValidateFeatureProperty(
			vctx, def, featureDef, c.FeatureID, rootPointer, properties, true, headers.CorrelationID,
		)
	}
	event := func() events.Event {
		if existed {
			return events.BuildFeatureDesiredPropertiesModified(
				c.ThingID(), c.FeatureID, properties, nextRevision, ts, metadata,
			)
		}

		return events.BuildFeatureDesiredPropertiesCreated(
			c.ThingID(), c.FeatureID, properties, nextRevision, ts, metadata,
		)
	}
	response := func() Response {
		status := statusCreated
		if existed {
			status = statusOK
		}
		tag, tagOK := etag.FromValue(properties)

		return buildResponse(status, properties, headers, nextRevision, tag, tagOK)
	}

	return NewMutationResult(cmd, validation, event, response)
}

func strippedOfDesiredProperties(thing model.Thing, featureID string) model.Thing {
	f, present := thing.Feature(featureID)
	if !present {
		return thing
	}

	return thing.SetFeature(f.RemoveDesiredProperties())
}

// deleteFeatureDesiredPropertiesStrategy removes a feature's desired properties tree.
type deleteFeatureDesiredPropertiesStrategy struct{}

func (deleteFeatureDesiredPropertiesStrategy) IsDefined(_ *Context, thing *model.Thing, _ commands.Command) bool {
	return thing != nil
}

func (deleteFeatureDesiredPropertiesStrategy) PreviousEntityTag(cmd commands.Command, previous *model.Thing) (etag.Tag, bool) {
	c, ok := cmd.(commands.DeleteFeatureDesiredProperties)
	if !ok {
		return "", false
	}

	return featureDesiredPropertiesTag(previous, c.FeatureID)
}

func (deleteFeatureDesiredPropertiesStrategy) NextEntityTag(commands.Command, *model.Thing) (etag.Tag, bool) {
	return "", false
}

func (deleteFeatureDesiredPropertiesStrategy) Apply(
	ctx *Context,
	thing *model.Thing,
	nextRevision int64,
	cmd commands.Command,
	metadata events.Metadata,
) Result {
	c, ok := cmd.(commands.DeleteFeatureDesiredProperties)
	if !ok {
		return NewErrorResult(cmd, &UnsupportedCommandError{CommandType: cmd.CommandType()})
	}
	if thing == nil {
		return NewErrorResult(cmd, ThingNotFound(c.ThingID()))
	}

	f, notFound := featureOrNotFound(thing, c, c.FeatureID)
	if notFound != nil {
		return NewErrorResult(cmd, notFound)
	}
	if _, present := f.DesiredProperties(); !present {
		return NewErrorResult(cmd, FeatureDesiredPropertiesNotFound(c.ThingID(), c.FeatureID))
	}

	ts := ctx.now()
	headers := c.CommandHeaders()
	def := thingDefinition(thing)
	featureDef := featureDefinition(f)

	validation := func(vctx context.Context) error {
		return ctx.Validator.ValidateScopedDeletion(vctx, def, featureDef, c.FeatureID, rootPointer, headers.CorrelationID)
	}
	event := func() events.Event {
		return events.BuildFeatureDesiredPropertiesDeleted(c.ThingID(), c.FeatureID, nextRevision, ts, metadata)
	}
	response := func() Response {
		return buildResponse(statusNoContent, nil, headers, nextRevision, "", false)
	}

	return NewMutationResult(cmd, validation, event, response)
}

// modifyFeatureDesiredPropertyStrategy sets a single desired property
// addressed by pointer. Order matters: the size budget is checked before the
// feature is extracted, and a missing feature is reported before any
// property-level existence check.
type modifyFeatureDesiredPropertyStrategy struct{}

func (modifyFeatureDesiredPropertyStrategy) IsDefined(_ *Context, thing *model.Thing, _ commands.Command) bool {
	return thing != nil
}

func (modifyFeatureDesiredPropertyStrategy) PreviousEntityTag(cmd commands.Command, previous *model.Thing) (etag.Tag, bool) {
	c, ok := cmd.(commands.ModifyFeatureDesiredProperty)
	if !ok {
		return "", false
	}

	return featureDesiredPropertyTag(previous, c.FeatureID, c.Pointer)
}

func (modifyFeatureDesiredPropertyStrategy) NextEntityTag(cmd commands.Command, next *model.Thing) (etag.Tag, bool) {
	c, ok := cmd.(commands.ModifyFeatureDesiredProperty)
	if !ok {
		return "", false
	}

	return featureDesiredPropertyTag(next, c.FeatureID, c.Pointer)
}

func (modifyFeatureDesiredPropertyStrategy) Apply(
	ctx *Context,
	thing *model.Thing,
	nextRevision int64,
	cmd commands.Command,
	metadata events.Metadata,
) Result {
	c, ok := cmd.(commands.ModifyFeatureDesiredProperty)
	if !ok {
		return NewErrorResult(cmd, &UnsupportedCommandError{CommandType: cmd.CommandType()})
	}
	if thing == nil {
		return NewErrorResult(cmd, ThingNotFound(c.ThingID()))
	}

	path := "/features/" + c.FeatureID + "/desiredProperties" + c.Pointer.String()
	err := checkSize(ctx, c, thing.RemoveFeatureDesiredProperty(c.FeatureID, c.Pointer), c.Value, path, func() model.Thing {
		return thing.SetFeatureDesiredProperty(c.FeatureID, c.Pointer, c.Value)
	})
	if err != nil {
		return NewErrorResult(cmd, err)
	}

	f, notFound := featureOrNotFound(thing, c, c.FeatureID)
	if notFound != nil {
		return NewErrorResult(cmd, notFound)
	}

	_, existed := f.DesiredProperty(c.Pointer)
	value := model.CopyTree(c.Value)
	ts := ctx.now()
	headers := c.CommandHeaders()
	def := thingDefinition(thing)
	featureDef := featureDefinition(f)

	validation := func(vctx context.Context) error {
		return ctx.Validator.ValidateFeatureProperty(
			vctx, def, featureDef, c.FeatureID, c.Pointer, value, true, headers.CorrelationID,
		)
	}
	event := func() events.Event {
		if existed {
			return events.BuildFeatureDesiredPropertyModified(
				c.ThingID(), c.FeatureID, c.Pointer, value, nextRevision, ts, metadata,
			)
		}

		return events.BuildFeatureDesiredPropertyCreated(
			c.ThingID(), c.FeatureID, c.Pointer, value, nextRevision, ts, metadata,
		)
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

// deleteFeatureDesiredPropertyStrategy removes a single desired property.
type deleteFeatureDesiredPropertyStrategy struct{}

func (deleteFeatureDesiredPropertyStrategy) IsDefined(_ *Context, thing *model.Thing, _ commands.Command) bool {
	return thing != nil
}

func (deleteFeatureDesiredPropertyStrategy) PreviousEntityTag(cmd commands.Command, previous *model.Thing) (etag.Tag, bool) {
	c, ok := cmd.(commands.DeleteFeatureDesiredProperty)
	if !ok {
		return "", false
	}

	return featureDesiredPropertyTag(previous, c.FeatureID, c.Pointer)
}

func (deleteFeatureDesiredPropertyStrategy) NextEntityTag(commands.Command, *model.Thing) (etag.Tag, bool) {
	return "", false
}

func (deleteFeatureDesiredPropertyStrategy) Apply(
	ctx *Context,
	thing *model.Thing,
	nextRevision int64,
	cmd commands.Command,
	metadata events.Metadata,
) Result {
	c, ok := cmd.(commands.DeleteFeatureDesiredProperty)
	if !ok {
		return NewErrorResult(cmd, &UnsupportedCommandError{CommandType: cmd.CommandType()})
	}
	if thing == nil {
		return NewErrorResult(cmd, ThingNotFound(c.ThingID()))
	}

	f, notFound := featureOrNotFound(thing, c, c.FeatureID)
	if notFound != nil {
		return NewErrorResult(cmd, notFound)
	}
	if _, present := f.DesiredProperty(c.Pointer); !present {
		return NewErrorResult(cmd, FeatureDesiredPropertyNotFound(c.ThingID(), c.FeatureID, c.Pointer))
	}

	ts := ctx.now()
	headers := c.CommandHeaders()
	def := thingDefinition(thing)
	featureDef := featureDefinition(f)

	validation := func(vctx context.Context) error {
		return ctx.Validator.ValidateScopedDeletion(vctx, def, featureDef, c.FeatureID, c.Pointer, headers.CorrelationID)
	}
	event := func() events.Event {
		return events.BuildFeatureDesiredPropertyDeleted(c.ThingID(), c.FeatureID, c.Pointer, nextRevision, ts, metadata)
	}
	response := func() Response {
		return buildResponse(statusNoContent, nil, headers, nextRevision, "", false)
	}

	return NewMutationResult(cmd, validation, event, response)
}

// retrieveFeatureDesiredPropertyStrategy answers a single desired property.
type retrieveFeatureDesiredPropertyStrategy struct{}

func (retrieveFeatureDesiredPropertyStrategy) IsDefined(_ *Context, thing *model.Thing, _ commands.Command) bool {
	return thing != nil
}

func (retrieveFeatureDesiredPropertyStrategy) PreviousEntityTag(cmd commands.Command, previous *model.Thing) (etag.Tag, bool) {
	c, ok := cmd.(commands.RetrieveFeatureDesiredProperty)
	if !ok {
		return "", false
	}

	return featureDesiredPropertyTag(previous, c.FeatureID, c.Pointer)
}

func (retrieveFeatureDesiredPropertyStrategy) NextEntityTag(cmd commands.Command, next *model.Thing) (etag.Tag, bool) {
	c, ok := cmd.(commands.RetrieveFeatureDesiredProperty)
	if !ok {
		return "", false
	}

	return featureDesiredPropertyTag(next, c.FeatureID, c.Pointer)
}

func (retrieveFeatureDesiredPropertyStrategy) Apply(
	_ *Context,
	thing *model.Thing,
	nextRevision int64,
	cmd commands.Command,
	_ events.Metadata,
) Result {
	c, ok := cmd.(commands.RetrieveFeatureDesiredProperty)
	if !ok {
		return NewErrorResult(cmd, &UnsupportedCommandError{CommandType: cmd.CommandType()})
	}
	if thing == nil {
		return NewErrorResult(cmd, ThingNotFound(c.ThingID()))
	}

	f, notFound := featureOrNotFound(thing, c, c.FeatureID)
	if notFound != nil {
		return NewErrorResult(cmd, notFound)
	}

	value, present := f.DesiredProperty(c.Pointer)
	if !present {
		return NewErrorResult(cmd, FeatureDesiredPropertyNotFound(c.ThingID(), c.FeatureID, c.Pointer))
	}

	tag, tagOK := etag.FromValue(value)

	return NewQueryResult(cmd, buildResponse(statusOK, value, c.CommandHeaders(), nextRevision-1, tag, tagOK))
}
