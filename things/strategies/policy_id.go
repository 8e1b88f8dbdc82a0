package strategies

import (
	"github.com/twinforge/thing-engine-go/things/commands"
	"github.com/twinforge/thing-engine-go/things/etag"
	"github.com/twinforge/thing-engine-go/things/events"
	"github.com/twinforge/thing-engine-go/things/model"
)

func policyIDTag(thing *model.Thing) (etag.Tag, bool) {
	if thing == nil {
		return "", false
	}
	policyID, present := thing.PolicyID()

	return tagOf(policyID.String(), present)
}

// modifyPolicyIDStrategy sets or replaces the thing's policy reference. Both
// cases emit the same event; only the response status distinguishes them.
type modifyPolicyIDStrategy struct{}

func (modifyPolicyIDStrategy) IsDefined(_ *Context, thing *model.Thing, _ commands.Command) bool {
	return thing != nil
}

func (modifyPolicyIDStrategy) PreviousEntityTag(_ commands.Command, previous *model.Thing) (etag.Tag, bool) {
	return policyIDTag(previous)
}

func (modifyPolicyIDStrategy) NextEntityTag(_ commands.Command, next *model.Thing) (etag.Tag, bool) {
	return policyIDTag(next)
}

func (modifyPolicyIDStrategy) Apply(
	ctx *Context,
	thing *model.Thing,
	nextRevision int64,
	cmd commands.Command,
	metadata events.Metadata,
) Result {
	c, ok := cmd.(commands.ModifyPolicyID)
	if !ok {
		return NewErrorResult(cmd, &UnsupportedCommandError{CommandType: cmd.CommandType()})
	}
	if thing == nil {
		return NewErrorResult(cmd, ThingNotFound(c.ThingID()))
	}

	policyValue := c.PolicyID.String()
	err := checkSize(ctx, c, *thing, policyValue, "/policyId", func() model.Thing {
		return thing.SetPolicyID(c.PolicyID)
	})
	if err != nil {
		return NewErrorResult(cmd, err)
	}

	_, existed := thing.PolicyID()
	ts := ctx.now()
	headers := c.CommandHeaders()

	event := func() events.Event {
		return events.BuildPolicyIDModified(c.ThingID(), c.PolicyID, nextRevision, ts, metadata)
	}
	response := func() Response {
		status := statusCreated
		if existed {
			status = statusOK
		}
		tag, tagOK := etag.FromValue(policyValue)

		return buildResponse(status, policyValue, headers, nextRevision, tag, tagOK)
	}

	return NewMutationResult(cmd, nil, event, response)
}

// retrievePolicyIDStrategy answers the thing's policy reference. The revision
// reported alongside is the current one, one below the revision the next
// accepted mutation would establish.
type retrievePolicyIDStrategy struct{}

func (retrievePolicyIDStrategy) IsDefined(_ *Context, thing *model.Thing, _ commands.Command) bool {
	return thing != nil
}

func (retrievePolicyIDStrategy) PreviousEntityTag(_ commands.Command, previous *model.Thing) (etag.Tag, bool) {
	return policyIDTag(previous)
}

func (retrievePolicyIDStrategy) NextEntityTag(_ commands.Command, next *model.Thing) (etag.Tag, bool) {
	return policyIDTag(next)
}

func (retrievePolicyIDStrategy) Apply(
	_ *Context,
	thing *model.Thing,
	nextRevision int64,
	cmd commands.Command,
	_ events.Metadata,
) Result {
	c, ok := cmd.(commands.RetrievePolicyID)
	if !ok {
		return NewErrorResult(cmd, &UnsupportedCommandError{CommandType: cmd.CommandType()})
	}
	if thing == nil {
		return NewErrorResult(cmd, ThingNotFound(c.ThingID()))
	}

	policyID, present := thing.PolicyID()
	if !present {
		return NewErrorResult(cmd, PolicyIDNotAccessible(c.ThingID()))
	}

	tag, tagOK := etag.FromValue(policyID.String())

	return NewQueryResult(cmd, buildResponse(
		statusOK, policyID.String(), c.CommandHeaders(), nextRevision-1, tag, tagOK,
	))
}
