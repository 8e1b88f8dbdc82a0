package commands

import (
	"github.com/twinforge/thing-engine-go/things/model"
)

// Command type identifiers for feature property commands.
const (
	ModifyFeaturePropertiesType   = "things.commands:modifyFeatureProperties"
	DeleteFeaturePropertiesType   = "things.commands:deleteFeatureProperties"
	ModifyFeaturePropertyType     = "things.commands:modifyFeatureProperty"
	DeleteFeaturePropertyType     = "things.commands:deleteFeatureProperty"
	RetrieveFeaturePropertyType   = "things.commands:retrieveFeatureProperty"
)

// ModifyFeatureProperties requests replacement (or creation) of a feature's
// whole reported properties tree.
type ModifyFeatureProperties struct {
	base
	FeatureID  string
	Properties map[string]any
}

// BuildModifyFeatureProperties creates a ModifyFeatureProperties command.
func BuildModifyFeatureProperties(
	id model.ThingID,
	featureID string,
	properties map[string]any,
	headers Headers,
) ModifyFeatureProperties {
	return ModifyFeatureProperties{
		base:       base{id: id, headers: headers},
		FeatureID:  featureID,
		Properties: properties,
	}
}

func (c ModifyFeatureProperties) CommandType() string { return ModifyFeaturePropertiesType }

// DeleteFeatureProperties requests removal of a feature's reported properties tree.
type DeleteFeatureProperties struct {
	base
	FeatureID string
}

// BuildDeleteFeatureProperties creates a DeleteFeatureProperties command.
func BuildDeleteFeatureProperties(id model.ThingID, featureID string, headers Headers) DeleteFeatureProperties {
	return DeleteFeatureProperties{base: base{id: id, headers: headers}, FeatureID: featureID}
}

func (c DeleteFeatureProperties) CommandType() string { return DeleteFeaturePropertiesType }

// ModifyFeatureProperty requests setting a single reported property addressed by pointer.
type ModifyFeatureProperty struct {
	base
	FeatureID string
	Pointer   model.Pointer
	Value     any
}

// BuildModifyFeatureProperty creates a ModifyFeatureProperty command.
func BuildModifyFeatureProperty(
	id model.ThingID,
	featureID string,
	ptr model.Pointer,
	value any,
	headers Headers,
) ModifyFeatureProperty {
	return ModifyFeatureProperty{
		base:      base{id: id, headers: headers},
		FeatureID: featureID,
		Pointer:   ptr,
		Value:     value,
	}
}

func (c ModifyFeatureProperty) CommandType() string { return ModifyFeaturePropertyType }

// DeleteFeatureProperty requests removal of a single reported property addressed by pointer.
type DeleteFeatureProperty struct {
	base
	FeatureID string
	Pointer   model.Pointer
}

// BuildDeleteFeatureProperty creates a DeleteFeatureProperty command.
func BuildDeleteFeatureProperty(
	id model.ThingID,
	featureID string,
	ptr model.Pointer,
	headers Headers,
) DeleteFeatureProperty {
	return DeleteFeatureProperty{base: base{id: id, headers: headers}, FeatureID: featureID, Pointer: ptr}
}

func (c DeleteFeatureProperty) CommandType() string { return DeleteFeaturePropertyType }

// RetrieveFeatureProperty requests a single reported property addressed by pointer.
type RetrieveFeatureProperty struct {
	base
	FeatureID string
	Pointer   model.Pointer
}

// BuildRetrieveFeatureProperty creates a RetrieveFeatureProperty command.
func BuildRetrieveFeatureProperty(
	id model.ThingID,
	featureID string,
	ptr model.Pointer,
	headers Headers,
) RetrieveFeatureProperty {
	return RetrieveFeatureProperty{base: base{id: id, headers: headers}, FeatureID: featureID, Pointer: ptr}
}

func (c RetrieveFeatureProperty) CommandType() string { return RetrieveFeaturePropertyType }
