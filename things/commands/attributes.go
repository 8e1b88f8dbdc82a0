package commands

import (
	"github.com/twinforge/thing-engine-go/things/model"
)

// Command type identifiers for attribute commands.
const (
	ModifyAttributesType  = "things.commands:modifyAttributes"
	DeleteAttributesType  = "things.commands:deleteAttributes"
	ModifyAttributeType   = "things.commands:modifyAttribute"
	DeleteAttributeType   = "things.commands:deleteAttribute"
	RetrieveAttributeType = "things.commands:retrieveAttribute"
)

// ModifyAttributes requests replacement (or creation) of the whole attributes tree.
type ModifyAttributes struct {
	base
	Attributes map[string]any
}

// BuildModifyAttributes creates a ModifyAttributes command.
func BuildModifyAttributes(id model.ThingID, attributes map[string]any, headers Headers) ModifyAttributes {
	return ModifyAttributes{base: base{id: id, headers: headers}, Attributes: attributes}
}

func (c ModifyAttributes) CommandType() string { return ModifyAttributesType }

// DeleteAttributes requests removal of the whole attributes tree.
type DeleteAttributes struct {
	base
}

// BuildDeleteAttributes creates a DeleteAttributes command.
func BuildDeleteAttributes(id model.ThingID, headers Headers) DeleteAttributes {
	return DeleteAttributes{base: base{id: id, headers: headers}}
}

func (c DeleteAttributes) CommandType() string { return DeleteAttributesType }

// ModifyAttribute requests setting a single attribute addressed by pointer.
type ModifyAttribute struct {
	base
	Pointer model.Pointer
	Value   any
}

// BuildModifyAttribute creates a ModifyAttribute command.
func BuildModifyAttribute(id model.ThingID, ptr model.Pointer, value any, headers Headers) ModifyAttribute {
	return ModifyAttribute{base: base{id: id, headers: headers}, Pointer: ptr, Value: value}
}

func (c ModifyAttribute) CommandType() string { return ModifyAttributeType }

// DeleteAttribute requests removal of a single attribute addressed by pointer.
type DeleteAttribute struct {
	base
	Pointer model.Pointer
}

// BuildDeleteAttribute creates a DeleteAttribute command.
func BuildDeleteAttribute(id model.ThingID, ptr model.Pointer, headers Headers) DeleteAttribute {
	return DeleteAttribute{base: base{id: id, headers: headers}, Pointer: ptr}
}

func (c DeleteAttribute) CommandType() string { return DeleteAttributeType }

// RetrieveAttribute requests a single attribute addressed by pointer.
type RetrieveAttribute struct {
	base
	Pointer model.Pointer
}

// BuildRetrieveAttribute creates a RetrieveAttribute command.
func BuildRetrieveAttribute(id model.ThingID, ptr model.Pointer, headers Headers) RetrieveAttribute {
	return RetrieveAttribute{base: base{id: id, headers: headers}, Pointer: ptr}
}

func (c RetrieveAttribute) CommandType() string { return RetrieveAttributeType }
