package strategies

import (
	"strconv"

	"github.com/twinforge/thing-engine-go/things/commands"
	"github.com/twinforge/thing-engine-go/things/etag"
	"github.com/twinforge/thing-engine-go/things/model"
)

// Response status codes. Creation echoes the created value with 201, a plain
// modification echoes with 200, deletions answer 204 without a body.
const (
	statusOK        = 200
	statusCreated   = 201
	statusNoContent = 204
)

func respHeaders(h commands.Headers, revision int64) map[string]string {
	return map[string]string{
		commands.HeaderCorrelationID:  h.CorrelationID,
		commands.HeaderEntityRevision: strconv.FormatInt(revision, 10),
	}
}

// buildResponse assembles a response. The entity tag is attached only when the
// command carried conditional headers and a tag was computable.
func buildResponse(status int, value any, h commands.Headers, revision int64, tag etag.Tag, tagOK bool) Response {
	resp := Response{Status: status, Value: value, Headers: respHeaders(h, revision)}
	if h.Conditional() && tagOK {
		resp.ETag = tag
		resp.Headers[commands.HeaderETag] = tag.HeaderValue()
	}

	return resp
}

// checkSize gates a mutation on the serialized-size budget. The cheap bound
// sums the upper bound of the thing stripped of the addressed value, the upper
// bound of the proposed value, and the pointer overhead. Only when that bound
// is inconclusive is the fully updated thing serialized exactly.
func checkSize(
	ctx *Context,
	cmd commands.Command,
	without model.Thing,
	value any,
	path string,
	updated func() model.Thing,
) error {
	return ctx.SizeValidator.EnsureValidSize(
		cmd.ThingID(),
		func() int64 {
			return model.UpperBoundSize(without.ToJSON()) +
				model.UpperBoundSize(value) +
				int64(len(path)) + pointerOverhead
		},
		func() int64 { return model.ExactSize(updated().ToJSON()) },
		cmd.CommandHeaders,
	)
}

// featureOrNotFound extracts the addressed feature. A missing feature takes
// precedence over anything more specific inside it: commands addressing a
// property of a non-existent feature report the feature, not the property.
func featureOrNotFound(thing *model.Thing, cmd commands.Command, featureID string) (model.Feature, *NotFoundError) {
	f, ok := thing.Feature(featureID)
	if !ok {
		return model.Feature{}, FeatureNotFound(cmd.ThingID(), featureID)
	}

	return f, nil
}

// thingDefinition returns the thing's definition identifier or the empty
// identifier when no model is referenced.
func thingDefinition(thing *model.Thing) model.DefinitionID {
	if thing == nil {
		return ""
	}
	def, _ := thing.Definition()

	return def
}

// featureDefinition returns the feature's definition identifiers, nil when the
// feature references no models.
func featureDefinition(f model.Feature) []model.DefinitionID {
	def, _ := f.Definition()
	return def
}

// tagOf computes the entity tag of an addressed value, absent values have none.
func tagOf(v any, present bool) (etag.Tag, bool) {
	if !present {
		return "", false
	}

	return etag.FromValue(v)
}
