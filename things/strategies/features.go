package strategies

import (
	"context"

	"github.com/twinforge/thing-engine-go/things/commands"
	"github.com/twinforge/thing-engine-go/things/etag"
	"github.com/twinforge/thing-engine-go/things/events"
	"github.com/twinforge/thing-engine-go/things/model"
)

func featuresJSON(features map[string]model.Feature) map[string]any {
	obj := make(map[string]any, len(features))
	for id, f := range features {
		obj[id] = f.ToJSON()
	}

	return obj
}

func featuresTag(thing *model.Thing) (etag.Tag, bool) {
	if thing == nil {
		return "", false
	}
	features, present := thing.Features()
	if !present {
		return "", false
	}

	return etag.FromValue(featuresJSON(features))
}

func featureTag(thing *model.Thing, featureID string) (etag.Tag, bool) {
	if thing == nil {
		return "", false
	}
	f, present := thing.Feature(featureID)

	return tagOf(f, present)
}

func featureDefinitionTag(thing *model.Thing, featureID string) (etag.Tag, bool) {
	if thing == nil {
		return "", false
	}
	f, present := thing.Feature(featureID)
	if !present {
		return "", false
	}
	def, present := f.Definition()
	if !present {
		return "", false
	}

	return etag.FromValue(definitionStrings(def))
}

func definitionStrings(def []model.DefinitionID) []any {
	out := make([]any, len(def))
	for i, d := range def {
		out[i] = string(d)
	}

	return out
}

// modifyFeaturesStrategy sets or replaces the whole features container.
type modifyFeaturesStrategy struct{}

func (modifyFeaturesStrategy) IsDefined(_ *Context, thing *model.Thing, _ commands.Command) bool {
	return thing != nil
}

func (modifyFeaturesStrategy) PreviousEntityTag(_ commands.Command, previous *model.Thing) (etag.Tag, bool) {
	return featuresTag(previous)
}

func (modifyFeaturesStrategy) NextEntityTag(_ commands.Command, next *model.Thing) (etag.Tag, bool) {
	return featuresTag(next)
}

func (modifyFeaturesStrategy) Apply(
	ctx *Context,
	thing *model.Thing,
	nextRevision int64,
	cmd commands.Command,
	metadata events.Metadata,
) Result {
	c, ok := cmd.(commands.ModifyFeatures)
	if !ok {
		return NewErrorResult(cmd, &UnsupportedCommandError{CommandType: cmd.CommandType()})
	}
	if thing == nil {
		return NewErrorResult(cmd, ThingNotFound(c.ThingID()))
	}

	content := featuresJSON(c.Features)
	err := checkSize(ctx, c, thing.RemoveFeatures(), content, "/features", func() model.Thing {
		return thing.SetFeatures(c.Features)
	})
	if err != nil {
		return NewErrorResult(cmd, err)
	}

	_, existed := thing.Features()
	ts := ctx.now()
	headers := c.CommandHeaders()
	def := thingDefinition(thing)
	features := c.Features

	validation := func(vctx context.Context) error {
		for _, f := range features {
			if err := ctx.Validator.ValidateFeature(vctx, def, f, headers.CorrelationID); err != nil {
				return err
			}
		}

		return nil
	}
	event := func() events.Event {
		if existed {
			return events.BuildFeaturesModified(c.ThingID(), features, nextRevision, ts, metadata)
		}

		return events.BuildFeaturesCreated(c.ThingID(), features, nextRevision, ts, metadata)
	}
	response := func() Response {
		status := statusCreated
		if existed {
			status = statusOK
		}
		tag, tagOK := etag.FromValue(content)

		return buildResponse(status, content, headers, nextRevision, tag, tagOK)
	}

	return NewMutationResult(cmd, validation, event, response)
}

// deleteFeaturesStrategy removes the whole features container.
type deleteFeaturesStrategy struct{}

func (deleteFeaturesStrategy) IsDefined(_ *Context, thing *model.Thing, _ commands.Command) bool {
	return thing != nil
}

func (deleteFeaturesStrategy) PreviousEntityTag(_ commands.Command, previous *model.Thing) (etag.Tag, bool) {
	return featuresTag(previous)
}

func (deleteFeaturesStrategy) NextEntityTag(commands.Command, *model.Thing) (etag.Tag, bool) {
	return "", false
}

func (deleteFeaturesStrategy) Apply(
	ctx *Context,
	thing *model.Thing,
	nextRevision int64,
	cmd commands.Command,
	metadata events.Metadata,
) Result {
	c, ok := cmd.(commands.DeleteFeatures)
	if !ok {
		return NewErrorResult(cmd, &UnsupportedCommandError{CommandType: cmd.CommandType()})
	}
	if thing == nil {
		return NewErrorResult(cmd, ThingNotFound(c.ThingID()))
	}
	if _, present := thing.Features(); !present {
		return NewErrorResult(cmd, FeaturesNotFound(c.ThingID()))
	}

	ts := ctx.now()
	headers := c.CommandHeaders()

	event := func() events.Event {
		return events.BuildFeaturesDeleted(c.ThingID(), nextRevision, ts, metadata)
	}
	response := func() Response {
		return buildResponse(statusNoContent, nil, headers, nextRevision, "", false)
	}

	return NewMutationResult(cmd, nil, event, response)
}

// modifyFeatureStrategy sets or replaces a single feature.
type modifyFeatureStrategy struct{}

func (modifyFeatureStrategy) IsDefined(_ *Context, thing *model.Thing, _ commands.Command) bool {
	return thing != nil
}

func (modifyFeatureStrategy) PreviousEntityTag(cmd commands.Command, previous *model.Thing) (etag.Tag, bool) {
	c, ok := cmd.(commands.ModifyFeature)
	if !ok {
		return "", false
	}

	return featureTag(previous, c.Feature.ID())
}

func (modifyFeatureStrategy) NextEntityTag(cmd commands.Command, next *model.Thing) (etag.Tag, bool) {
	c, ok := cmd.(commands.ModifyFeature)
	if !ok {
		return "", false
	}

	return featureTag(next, c.Feature.ID())
}

func (modifyFeatureStrategy) Apply(
	ctx *Context,
	thing *model.Thing,
	nextRevision int64,
	cmd commands.Command,
	metadata events.Metadata,
) Result {
	c, ok := cmd.(commands.ModifyFeature)
	if !ok {
		return NewErrorResult(cmd, &UnsupportedCommandError{CommandType: cmd.CommandType()})
	}
	if thing == nil {
		return NewErrorResult(cmd, ThingNotFound(c.ThingID()))
	}

	featureID := c.Feature.ID()
	content := c.Feature.ToJSON()
	path := "/features/" + featureID
	err := checkSize(ctx, c, thing.RemoveFeature(featureID), content, path, func() model.Thing {
		return thing.SetFeature(c.Feature)
	})
	if err != nil {
		return NewErrorResult(cmd, err)
	}

	_, existed := thing.Feature(featureID)
	ts := ctx.now()
	headers := c.CommandHeaders()
	def := thingDefinition(thing)

	validation := func(vctx context.Context) error {
		return ctx.Validator.ValidateFeature(vctx, def, c.Feature, headers.CorrelationID)
	}
	event := func() events.Event {
		if existed {
			return events.BuildFeatureModified(c.ThingID(), c.Feature, nextRevision, ts, metadata)
		}

		return events.BuildFeatureCreated(c.ThingID(), c.Feature, nextRevision, ts, metadata)
	}
	response := func() Response {
		status := statusCreated
		if existed {
			status = statusOK
		}
		tag, tagOK := etag.FromValue(c.Feature)

		return buildResponse(status, content, headers, nextRevision, tag, tagOK)
	}

	return NewMutationResult(cmd, validation, event, response)
}

// deleteFeatureStrategy removes a single feature.
type deleteFeatureStrategy struct{}

func (deleteFeatureStrategy) IsDefined(_ *Context, thing *model.Thing, _ commands.Command) bool {
	return thing != nil
}

func (deleteFeatureStrategy) PreviousEntityTag(cmd commands.Command, previous *model.Thing) (etag.Tag, bool) {
	c, ok := cmd.(commands.DeleteFeature)
	if !ok {
		return "", false
	}

	return featureTag(previous, c.FeatureID)
}

func (deleteFeatureStrategy) NextEntityTag(commands.Command, *model.Thing) (etag.Tag, bool) {
	return "", false
}

func (deleteFeatureStrategy) Apply(
	ctx *Context,
	thing *model.Thing,
	nextRevision int64,
	cmd commands.Command,
	metadata events.Metadata,
) Result {
	c, ok := cmd.(commands.DeleteFeature)
	if !ok {
		return NewErrorResult(cmd, &UnsupportedCommandError{CommandType: cmd.CommandType()})
	}
	if thing == nil {
		return NewErrorResult(cmd, ThingNotFound(c.ThingID()))
	}
	if _, notFound := featureOrNotFound(thing, c, c.FeatureID); notFound != nil {
		return NewErrorResult(cmd, notFound)
	}

	ts := ctx.now()
	headers := c.CommandHeaders()

	event := func() events.Event {
		return events.BuildFeatureDeleted(c.ThingID(), c.FeatureID, nextRevision, ts, metadata)
	}
	response := func() Response {
		return buildResponse(statusNoContent, nil, headers, nextRevision, "", false)
	}

	return NewMutationResult(cmd, nil, event, response)
}

// retrieveFeatureStrategy answers a single feature.
type retrieveFeatureStrategy struct{}

func (retrieveFeatureStrategy) IsDefined(_ *Context, thing *model.Thing, _ commands.Command) bool {
	return thing != nil
}

func (retrieveFeatureStrategy) PreviousEntityTag(cmd commands.Command, previous *model.Thing) (etag.Tag, bool) {
	c, ok := cmd.(commands.RetrieveFeature)
	if !ok {
		return "", false
	}

	return featureTag(previous, c.FeatureID)
}

func (retrieveFeatureStrategy) NextEntityTag(cmd commands.Command, next *model.Thing) (etag.Tag, bool) {
	c, ok := cmd.(commands.RetrieveFeature)
	if !ok {
		return "", false
	}

	return featureTag(next, c.FeatureID)
}

func (retrieveFeatureStrategy) Apply(
	_ *Context,
	thing *model.Thing,
	nextRevision int64,
	cmd commands.Command,
	_ events.Metadata,
) Result {
	c, ok := cmd.(commands.RetrieveFeature)
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

	tag, tagOK := etag.FromValue(f)

	return NewQueryResult(cmd, buildResponse(statusOK, f.ToJSON(), c.CommandHeaders(), nextRevision-1, tag, tagOK))
}

// modifyFeatureDefinitionStrategy sets or replaces a feature's definition. The
// feature itself must exist.
type modifyFeatureDefinitionStrategy struct{}

func (modifyFeatureDefinitionStrategy) IsDefined(_ *Context, thing *model.Thing, _ commands.Command) bool {
	return thing != nil
}

func (modifyFeatureDefinitionStrategy) PreviousEntityTag(cmd commands.Command, previous *model.Thing) (etag.Tag, bool) {
	c, ok := cmd.(commands.ModifyFeatureDefinition)
	if !ok {
		return "", false
	}

	return featureDefinitionTag(previous, c.FeatureID)
}

func (modifyFeatureDefinitionStrategy) NextEntityTag(cmd commands.Command, next *model.Thing) (etag.Tag, bool) {
	c, ok := cmd.(commands.ModifyFeatureDefinition)
	if !ok {
		return "", false
	}

	return featureDefinitionTag(next, c.FeatureID)
}

func (modifyFeatureDefinitionStrategy) Apply(
	ctx *Context,
	thing *model.Thing,
	nextRevision int64,
	cmd commands.Command,
	metadata events.Metadata,
) Result {
	c, ok := cmd.(commands.ModifyFeatureDefinition)
	if !ok {
		return NewErrorResult(cmd, &UnsupportedCommandError{CommandType: cmd.CommandType()})
	}
	if thing == nil {
		return NewErrorResult(cmd, ThingNotFound(c.ThingID()))
	}

	definitionValue := definitionStrings(c.Definition)
	path := "/features/" + c.FeatureID + "/definition"
	err := checkSize(ctx, c, strippedOfFeatureDefinition(*thing, c.FeatureID), definitionValue, path, func() model.Thing {
		f, present := thing.Feature(c.FeatureID)
		if !present {
			return *thing
		}

		return thing.SetFeature(f.SetDefinition(c.Definition))
	})
	if err != nil {
		return NewErrorResult(cmd, err)
	}

	f, notFound := featureOrNotFound(thing, c, c.FeatureID)
	if notFound != nil {
		return NewErrorResult(cmd, notFound)
	}

	_, existed := f.Definition()
	updated := f.SetDefinition(c.Definition)
	ts := ctx.now()
	headers := c.CommandHeaders()
	def := thingDefinition(thing)

	validation := func(vctx context.Context) error {
		return ctx.Validator.ValidateFeature(vctx, def, updated, headers.CorrelationID)
	}
	event := func() events.Event {
		if existed {
			return events.BuildFeatureDefinitionModified(c.ThingID(), c.FeatureID, c.Definition, nextRevision, ts, metadata)
		}

		return events.BuildFeatureDefinitionCreated(c.ThingID(), c.FeatureID, c.Definition, nextRevision, ts, metadata)
	}
	response := func() Response {
		status := statusCreated
		if existed {
			status = statusOK
		}
		tag, tagOK := etag.FromValue(definitionValue)

		return buildResponse(status, definitionValue, headers, nextRevision, tag, tagOK)
	}

	return NewMutationResult(cmd, validation, event, response)
}

func strippedOfFeatureDefinition(thing model.Thing, featureID string) model.Thing {
	f, present := thing.Feature(featureID)
	if !present {
		return thing
	}

	return thing.SetFeature(f.RemoveDefinition())
}

// deleteFeatureDefinitionStrategy removes a feature's definition.
type deleteFeatureDefinitionStrategy struct{}

func (deleteFeatureDefinitionStrategy) IsDefined(_ *Context, thing *model.Thing, _ commands.Command) bool {
	return thing != nil
}

func (deleteFeatureDefinitionStrategy) PreviousEntityTag(cmd commands.Command, previous *model.Thing) (etag.Tag, bool) {
	c, ok := cmd.(commands.DeleteFeatureDefinition)
	if !ok {
		return "", false
	}

	return featureDefinitionTag(previous, c.FeatureID)
}

func (deleteFeatureDefinitionStrategy) NextEntityTag(commands.Command, *model.Thing) (etag.Tag, bool) {
	return "", false
}

func (deleteFeatureDefinitionStrategy) Apply(
	ctx *Context,
	thing *model.Thing,
	nextRevision int64,
	cmd commands.Command,
	metadata events.Metadata,
) Result {
	c, ok := cmd.(commands.DeleteFeatureDefinition)
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
	if _, present := f.Definition(); !present {
		return NewErrorResult(cmd, FeatureDefinitionNotFound(c.ThingID(), c.FeatureID))
	}

	ts := ctx.now()
	headers := c.CommandHeaders()

	event := func() events.Event {
		return events.BuildFeatureDefinitionDeleted(c.ThingID(), c.FeatureID, nextRevision, ts, metadata)
	}
	response := func() Response {
		return buildResponse(statusNoContent, nil, headers, nextRevision, "", false)
	}

	return NewMutationResult(cmd, nil, event, response)
}
