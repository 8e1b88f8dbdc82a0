package commands

import (
	"github.com/twinforge/thing-engine-go/things/model"
)

// Command type identifiers for thing-level commands.
const (
	CreateThingType      = "things.commands:createThing"
	ModifyThingType      = "things.commands:modifyThing"
	DeleteThingType      = "things.commands:deleteThing"
	RetrieveThingType    = "things.commands:retrieveThing"
	ModifyPolicyIDType   = "things.commands:modifyPolicyId"
	RetrievePolicyIDType = "things.commands:retrievePolicyId"
)

// CreateThing requests creation of a not-yet-existing thing.
type CreateThing struct {
	base
	Thing model.Thing
}

// BuildCreateThing creates a CreateThing command.
func BuildCreateThing(thing model.Thing, headers Headers) CreateThing {
	return CreateThing{base: base{id: thing.ID(), headers: headers}, Thing: thing}
}

func (c CreateThing) CommandType() string { return CreateThingType }

// ModifyThing requests replacement of the whole thing content.
type ModifyThing struct {
	base
	Thing model.Thing
}

// BuildModifyThing creates a ModifyThing command.
func BuildModifyThing(thing model.Thing, headers Headers) ModifyThing {
	return ModifyThing{base: base{id: thing.ID(), headers: headers}, Thing: thing}
}

func (c ModifyThing) CommandType() string { return ModifyThingType }

// DeleteThing requests deletion of the thing.
type DeleteThing struct {
	base
}

// BuildDeleteThing creates a DeleteThing command.
func BuildDeleteThing(id model.ThingID, headers Headers) DeleteThing {
	return DeleteThing{base: base{id: id, headers: headers}}
}

func (c DeleteThing) CommandType() string { return DeleteThingType }

// RetrieveThing requests the current thing content.
type RetrieveThing struct {
	base
}

// BuildRetrieveThing creates a RetrieveThing command.
func BuildRetrieveThing(id model.ThingID, headers Headers) RetrieveThing {
	return RetrieveThing{base: base{id: id, headers: headers}}
}

func (c RetrieveThing) CommandType() string { return RetrieveThingType }

// ModifyPolicyID requests replacement of the thing's policy reference.
type ModifyPolicyID struct {
	base
	PolicyID model.PolicyID
}

// BuildModifyPolicyID creates a ModifyPolicyID command.
func BuildModifyPolicyID(id model.ThingID, policyID model.PolicyID, headers Headers) ModifyPolicyID {
	return ModifyPolicyID{base: base{id: id, headers: headers}, PolicyID: policyID}
}

func (c ModifyPolicyID) CommandType() string { return ModifyPolicyIDType }

// RetrievePolicyID requests the thing's policy reference.
type RetrievePolicyID struct {
	base
}

// BuildRetrievePolicyID creates a RetrievePolicyID command.
func BuildRetrievePolicyID(id model.ThingID, headers Headers) RetrievePolicyID {
	return RetrievePolicyID{base: base{id: id, headers: headers}}
}

func (c RetrievePolicyID) CommandType() string { return RetrievePolicyIDType }
