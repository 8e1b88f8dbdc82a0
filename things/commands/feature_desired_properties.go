package commands

import (
	"github.com/twinforge/thing-engine-go/things/model"
)

// Command type identifiers for feature desired property commands.
const (
	ModifyFeatureDesiredPropertiesType = "things.commands:modifyFeatureDesiredProperties"
	DeleteFeatureDesiredPropertiesType = "things.commands:deleteFeatureDesiredProperties"
	ModifyFeatureDesiredPropertyType   = "things.commands:modifyFeatureDesiredProperty"
	DeleteFeatureDesiredPropertyType   = "things.commands:deleteFeatureDesiredProperty"
	RetrieveFeatureDesiredPropertyType = "things.commands:retrieveFeatureDesiredProperty"
)

// ModifyFeatureDesiredProperties requests replacement (or creation) of a
// feature's whole desired properties tree.
type ModifyFeatureDesiredProperties struct {
	base
	FeatureID         string
	DesiredProperties map[string]any
}

// BuildModifyFeatureDesiredProperties creates a ModifyFeatureDesiredProperties command.
func BuildModifyFeatureDesiredProperties(
	id model.ThingID,
	featureID string,
	desiredProperties map[string]any,
	headers Headers,
) ModifyFeatureDesiredProperties {
	return ModifyFeatureDesiredProperties{
		base:              base{id: id, headers: headers},
		FeatureID:         featureID,
		DesiredProperties: desiredProperties,
	}
}

func (c ModifyFeatureDesiredProperties) CommandType() string {
	return ModifyFeatureDesiredPropertiesType
}

// DeleteFeatureDesiredProperties requests removal of a feature's desired properties tree.
type DeleteFeatureDesiredProperties struct {
	base
	FeatureID string
}

// BuildDeleteFeatureDesiredProperties creates a DeleteFeatureDesiredProperties command.
func BuildDeleteFeatureDesiredProperties(
	id model.ThingID,
	featureID string,
	headers Headers,
) DeleteFeatureDesiredProperties {
	return DeleteFeatureDesiredProperties{base: base{id: id, headers: headers}, FeatureID: featureID}
}

func (c DeleteFeatureDesiredProperties) CommandType() string {
	return DeleteFeatureDesiredPropertiesType
}

// ModifyFeatureDesiredProperty requests setting a single desired property addressed by pointer.
type ModifyFeatureDesiredProperty struct {
	base
	FeatureID string
	Pointer   model.Pointer
	Value     any
}

// BuildModifyFeatureDesiredProperty creates a ModifyFeatureDesiredProperty command.
func BuildModifyFeatureDesiredProperty(
	id model.ThingID,
	featureID string,
	ptr model.Pointer,
	value any,
	headers Headers,
) ModifyFeatureDesiredProperty {
	return ModifyFeatureDesiredProperty{
		base:      base{id: id, headers: headers},
		FeatureID: featureID,
		Pointer:   ptr,
		Value:     value,
	}
}

func (c ModifyFeatureDesiredProperty) CommandType() string { return ModifyFeatureDesiredPropertyType }

// DeleteFeatureDesiredProperty requests removal of a single desired property addressed by pointer.
type DeleteFeatureDesiredProperty struct {
	base
	FeatureID string
	Pointer   model.Pointer
}

// BuildDeleteFeatureDesiredProperty creates a DeleteFeatureDesiredProperty command.
func BuildDeleteFeatureDesiredProperty(
	id model.ThingID,
	featureID string,
	ptr model.Pointer,
	headers Headers,
) DeleteFeatureDesiredProperty {
	return DeleteFeatureDesiredProperty{base: base{id: id, headers: headers}, FeatureID: featureID, Pointer: ptr}
}

func (c DeleteFeatureDesiredProperty) CommandType() string { return DeleteFeatureDesiredPropertyType }

// RetrieveFeatureDesiredProperty requests a single desired property addressed by pointer.
type RetrieveFeatureDesiredProperty struct {
	base
	FeatureID string
	Pointer   model.Pointer
}

// BuildRetrieveFeatureDesiredProperty creates a RetrieveFeatureDesiredProperty command.
func BuildRetrieveFeatureDesiredProperty(
	id model.ThingID,
	featureID string,
	ptr model.Pointer,
	headers Headers,
) RetrieveFeatureDesiredProperty {
	return RetrieveFeatureDesiredProperty{base: base{id: id, headers: headers}, FeatureID: featureID, Pointer: ptr}
}

func (c RetrieveFeatureDesiredProperty) CommandType() string {
	return RetrieveFeatureDesiredPropertyType
}
