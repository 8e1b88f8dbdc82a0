package strategies

import (
	"context"

	"github.com/twinforge/thing-engine-go/things/commands"
	"github.com/twinforge/thing-engine-go/things/etag"
	"github.com/twinforge/thing-engine-go/things/events"
	"github.com/twinforge/thing-engine-go/things/model"
)

func featurePropertiesTag(thing *model.Thing, featureID string) (etag.Tag, bool) {
	if thing == nil {
		return "", false
	}
	f, present := thing.Feature(featureID)
	if !present {
		return "", false
	}
	properties, present := f.Properties()

	return tagOf(properties, present)
}

func featurePropertyTag(thing *model.Thing, featureID string, ptr model.Pointer) (etag.Tag, bool) {
	if thing == nil {
		return "", false
	}
	f, present := thing.Feature(featureID)
	if !present {
		return "", false
	}
	value, present := f.Property(ptr)

	return tagOf(value, present)
}

// modifyFeaturePropertiesStrategy sets or replaces a feature's whole reported
// properties tree. The feature itself must exist.
type modifyFeaturePropertiesStrategy struct{}

func (modifyFeaturePropertiesStrategy) IsDefined(_ *Context, thing *model.Thing, _ commands.Command) bool {
	return thing != nil
}

func (modifyFeaturePropertiesStrategy) PreviousEntityTag(cmd commands.Command, previous *model.Thing) (etag.Tag, bool) {
	c, ok := cmd.(commands.ModifyFeatureProperties)
	if !ok {
		return "", false
	}

	return featurePropertiesTag(previous, c.FeatureID)
}

func (modifyFeaturePropertiesStrategy) NextEntityTag(cmd commands.Command, next *model.Thing) (etag.Tag, bool) {
	c, ok := cmd.(commands.ModifyFeatureProperties)
	if !ok {
		return "", false
	}

	return featurePropertiesTag(next, c.FeatureID)
}

func (modifyFeaturePropertiesStrategy) Apply(
	ctx *Context,
	thing *model.Thing,
	nextRevision int64,
	cmd commands.Command,
	metadata events.Metadata,
) Result {
	c, ok := cmd.(commands.ModifyFeatureProperties)
	if !ok {
		return NewErrorResult(cmd, &UnsupportedCommandError{CommandType: cmd.CommandType()})
	}
	if thing == nil {
		return NewErrorResult(cmd, ThingNotFound(c.ThingID()))
	}

	path := "/features/" + c.FeatureID + "/properties"
	err := checkSize(ctx, c, strippedOfProperties(*thing, c.FeatureID), c.Properties, path, func() model.Thing {
		f, present := thing.Feature(c.FeatureID)
		if !present {
			return *thing
		}

		return thing.SetFeature(f.SetProperties(c.Properties))
	})
	if err != nil {
		return NewErrorResult(cmd, err)
	}

	f, notFound := featureOrNotFound(thing, c, c.FeatureID)
	if notFound != nil {
		return NewErrorResult(cmd, notFound)
	}

	_, existed := f.Properties()
	properties, _ := model.CopyTree(c.Properties).(map[string]any)
	ts := ctx.now()
	headers := c.CommandHeaders()
	def := thingDefinition(thing)
	featureDef := featureDefinition(f)

	validation := func(vctx context.Context) error {
		return ctx.Validator.ValidateFeatureProperty(
			vctx, def, featureDef, c.FeatureID, rootPointer, properties, false, headers.CorrelationID,
		)
	}
	event := func() events.Event {
		if existed {
			return events.BuildFeaturePropertiesModified(c.ThingID(), c.FeatureID, properties, nextRevision, ts, metadata)
		}

		return events.BuildFeaturePropertiesCreated(c.ThingID(), c.FeatureID, properties, nextRevision, ts, metadata)
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

func strippedOfProperties(thing model.Thing, featureID string) model.Thing {
	f, present := thing.Feature(featureID)
	if !present {
		return thing
	}

	return thing.SetFeature(f.RemoveProperties())
}

// deleteFeaturePropertiesStrategy removes a feature's reported properties tree.
type deleteFeaturePropertiesStrategy struct{}

func (deleteFeaturePropertiesStrategy) IsDefined(_ *Context, thing *model.Thing, _ commands.Command) bool {
	return thing != nil
}

func (deleteFeaturePropertiesStrategy) PreviousEntityTag(cmd commands.Command, previous *model.Thing) (etag.Tag, bool) {
	c, ok := cmd.(commands.DeleteFeatureProperties)
	if !ok {
		return "", false
	}

	return featurePropertiesTag(previous, c.FeatureID)
}

func (deleteFeaturePropertiesStrategy) NextEntityTag(commands.Command, *model.Thing) (etag.Tag, bool) {
	return "", false
}

func (deleteFeaturePropertiesStrategy) Apply(
	ctx *Context,
	thing *model.Thing,
	nextRevision int64,
	cmd commands.Command,
	metadata events.Metadata,
) Result {
	c, ok := cmd.(commands.DeleteFeatureProperties)
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
	if _, present := f.Properties(); !present {
		return NewErrorResult(cmd, FeaturePropertiesNotFound(c.ThingID(), c.FeatureID))
	}

	ts := ctx.now()
	headers := c.CommandHeaders()
	def := thingDefinition(thing)
	featureDef := featureDefinition(f)

	validation := func(vctx context.Context) error {
		return ctx.Validator.ValidateScopedDeletion(vctx, def, featureDef, c.FeatureID, rootPointer, headers.CorrelationID)
	}
	event := func() events.Event {
		return events.BuildFeaturePropertiesDeleted(c.ThingID(), c.FeatureID, nextRevision, ts, metadata)
	}
	response := func() Response {
		return buildResponse(statusNoContent, nil, headers, nextRevision, "", false)
	}

	return NewMutationResult(cmd, validation, event, response)
}

// modifyFeaturePropertyStrategy sets a single reported property addressed by
// pointer. The size check runs before the feature is even extracted, so an
// oversized payload is rejected with the size error rather than a missing
// feature.
type modifyFeaturePropertyStrategy struct{}

func (modifyFeaturePropertyStrategy) IsDefined(_ *Context, thing *model.Thing, _ commands.Command) bool {
	return thing != nil
}

func (modifyFeaturePropertyStrategy) PreviousEntityTag(cmd commands.Command, previous *model.Thing) (etag.Tag, bool) {
	c, ok := cmd.(commands.ModifyFeatureProperty)
	if !ok {
		return "", false
	}

	return featurePropertyTag(previous, c.FeatureID, c.Pointer)
}

func (modifyFeaturePropertyStrategy) NextEntityTag(cmd commands.Command, next *model.Thing) (etag.Tag, bool) {
	c, ok := cmd.(commands.ModifyFeatureProperty)
	if !ok {
		return "", false
	}

	return featurePropertyTag(next, c.FeatureID, c.Pointer)
}

func (modifyFeaturePropertyStrategy) Apply(
	ctx *Context,
	thing *model.Thing,
	nextRevision int64,
	cmd commands.Command,
	metadata events.Metadata,
) Result {
	c, ok := cmd.(commands.ModifyFeatureProperty)
	if !ok {
		return NewErrorResult(cmd, &UnsupportedCommandError{CommandType: cmd.CommandType()})
	}
	if thing == nil {
		return NewErrorResult(cmd, ThingNotFound(c.ThingID()))
	}

	path := "/features/" + c.FeatureID + "/properties" + c.Pointer.String()
	err := checkSize(ctx, c, thing.RemoveFeatureProperty(c.FeatureID, c.Pointer), c.Value, path, func() model.Thing {
		return thing.SetFeatureProperty(c.FeatureID, c.Pointer, c.Value)
	})
	if err != nil {
		return NewErrorResult(cmd, err)
	}

	f, notFound := featureOrNotFound(thing, c, c.FeatureID)
	if notFound != nil {
		return NewErrorResult(cmd, notFound)
	}

	_, existed := f.Property(c.Pointer)
	value := model.CopyTree(c.Value)
	ts := ctx.now()
	headers := c.CommandHeaders()
	def := thingDefinition(thing)
	featureDef := featureDefinition(f)

	validation := func(vctx context.Context) error {
		return ctx.Validator.ValidateFeatureProperty(
			vctx, def, featureDef, c.FeatureID, c.Pointer, value, false, headers.CorrelationID,
		)
	}
	event := func() events.Event {
		if existed {
			return events.BuildFeaturePropertyModified(c.ThingID(), c.FeatureID, c.Pointer, value, nextRevision, ts, metadata)
		}

		return events.BuildFeaturePropertyCreated(c.ThingID(), c.FeatureID, c.Pointer, value, nextRevision, ts, metadata)
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

// deleteFeaturePropertyStrategy removes a single reported property.
type deleteFeaturePropertyStrategy struct{}

func (deleteFeaturePropertyStrategy) IsDefined(_ *Context, thing *model.Thing, _ commands.Command) bool {
	return thing != nil
}

func (deleteFeaturePropertyStrategy) PreviousEntityTag(cmd commands.Command, previous *model.Thing) (etag.Tag, bool) {
	c, ok := cmd.(commands.DeleteFeatureProperty)
	if !ok {
		return "", false
	}

	return featurePropertyTag(previous, c.FeatureID, c.Pointer)
}

func (deleteFeaturePropertyStrategy) NextEntityTag(commands.Command, *model.Thing) (etag.Tag, bool) {
	return "", false
}

func (deleteFeaturePropertyStrategy) Apply(
	ctx *Context,
	thing *model.Thing,
	nextRevision int64,
	cmd commands.Command,
	metadata events.Metadata,
) Result {
	c, ok := cmd.(commands.DeleteFeatureProperty)
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
	if _, present := f.Property(c.Pointer); !present {
		return NewErrorResult(cmd, FeaturePropertyNotFound(c.ThingID(), c.FeatureID, c.Pointer))
	}

	ts := ctx.now()
	headers := c.CommandHeaders()
	def := thingDefinition(thing)
	featureDef := featureDefinition(f)

	validation := func(vctx context.Context) error {
		return ctx.Validator.ValidateScopedDeletion(vctx, def, featureDef, c.FeatureID, c.Pointer, headers.CorrelationID)
	}
	event := func() events.Event {
		return events.BuildFeaturePropertyDeleted(c.ThingID(), c.FeatureID, c.Pointer, nextRevision, ts, metadata)
	}
	response := func() Response {
		return buildResponse(statusNoContent, nil, headers, nextRevision, "", false)
	}

	return NewMutationResult(cmd, validation, event, response)
}

// retrieveFeaturePropertyStrategy answers a single reported property.
type retrieveFeaturePropertyStrategy struct{}

func (retrieveFeaturePropertyStrategy) IsDefined(_ *Context, thing *model.Thing, _ commands.Command) bool {
	return thing != nil
}

func (retrieveFeaturePropertyStrategy) PreviousEntityTag(cmd commands.Command, previous *model.Thing) (etag.Tag, bool) {
	c, ok := cmd.(commands.RetrieveFeatureProperty)
	if !ok {
		return "", false
	}

	return featurePropertyTag(previous, c.FeatureID, c.Pointer)
}

func (retrieveFeaturePropertyStrategy) NextEntityTag(cmd commands.Command, next *model.Thing) (etag.Tag, bool) {
	c, ok := cmd.(commands.RetrieveFeatureProperty)
	if !ok {
		return "", false
	}

	return featurePropertyTag(next, c.FeatureID, c.Pointer)
}

func (retrieveFeaturePropertyStrategy) Apply(
	_ *Context,
	thing *model.Thing,
	nextRevision int64,
	cmd commands.Command,
	_ events.Metadata,
) Result {
	c, ok := cmd.(commands.RetrieveFeatureProperty)
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

	value, present := f.Property(c.Pointer)
	if !present {
		return NewErrorResult(cmd, FeaturePropertyNotFound(c.ThingID(), c.FeatureID, c.Pointer))
	}

	tag, tagOK := etag.FromValue(value)

	return NewQueryResult(cmd, buildResponse(statusOK, value, c.CommandHeaders(), nextRevision-1, tag, tagOK))
}
