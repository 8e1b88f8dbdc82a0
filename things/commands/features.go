package commands

import (
	"github.com/twinforge/thing-engine-go/things/model"
)

// Command type identifiers for feature commands.
const (
	ModifyFeaturesType          = "things.commands:modifyFeatures"
	DeleteFeaturesType          = "things.commands:deleteFeatures"
	ModifyFeatureType           = "things.commands:modifyFeature"
	DeleteFeatureType           = "things.commands:deleteFeature"
	RetrieveFeatureType         = "things.commands:retrieveFeature"
	ModifyFeatureDefinitionType = "things.commands:modifyFeatureDefinition"
	DeleteFeatureDefinitionType = "things.commands:deleteFeatureDefinition"
)

// ModifyFeatures requests replacement (or creation) of the whole features container.
type ModifyFeatures struct {
	base
	Features map[string]model.Feature
}

// BuildModifyFeatures creates a ModifyFeatures command.
func BuildModifyFeatures(id model.ThingID, features map[string]model.Feature, headers Headers) ModifyFeatures {
	return ModifyFeatures{base: base{id: id, headers: headers}, Features: features}
}

func (c ModifyFeatures) CommandType() string { return ModifyFeaturesType }

// DeleteFeatures requests removal of the whole features container.
type DeleteFeatures struct {
	base
}

// BuildDeleteFeatures creates a DeleteFeatures command.
func BuildDeleteFeatures(id model.ThingID, headers Headers) DeleteFeatures {
	return DeleteFeatures{base: base{id: id, headers: headers}}
}

func (c DeleteFeatures) CommandType() string { return DeleteFeaturesType }

// ModifyFeature requests replacement (or creation) of a single feature.
type ModifyFeature struct {
	base
	Feature model.Feature
}

// BuildModifyFeature creates a ModifyFeature command.
func BuildModifyFeature(id model.ThingID, feature model.Feature, headers Headers) ModifyFeature {
	return ModifyFeature{base: base{id: id, headers: headers}, Feature: feature}
}

func (c ModifyFeature) CommandType() string { return ModifyFeatureType }

// DeleteFeature requests removal of a single feature.
type DeleteFeature struct {
	base
	FeatureID string
}

// BuildDeleteFeature creates a DeleteFeature command.
func BuildDeleteFeature(id model.ThingID, featureID string, headers Headers) DeleteFeature {
	return DeleteFeature{base: base{id: id, headers: headers}, FeatureID: featureID}
}

func (c DeleteFeature) CommandType() string { return DeleteFeatureType }

// RetrieveFeature requests a single feature.
type RetrieveFeature struct {
	base
	FeatureID string
}

// BuildRetrieveFeature creates a RetrieveFeature command.
func BuildRetrieveFeature(id model.ThingID, featureID string, headers Headers) RetrieveFeature {
	return RetrieveFeature{base: base{id: id, headers: headers}, FeatureID: featureID}
}

func (c RetrieveFeature) CommandType() string { return RetrieveFeatureType }

// ModifyFeatureDefinition requests replacement (or creation) of a feature's definition.
type ModifyFeatureDefinition struct {
	base
	FeatureID  string
	Definition []model.DefinitionID
}

// BuildModifyFeatureDefinition creates a ModifyFeatureDefinition command.
func BuildModifyFeatureDefinition(
	id model.ThingID,
	featureID string,
	definition []model.DefinitionID,
	headers Headers,
) ModifyFeatureDefinition {
	return ModifyFeatureDefinition{
		base:       base{id: id, headers: headers},
		FeatureID:  featureID,
		Definition: definition,
	}
}

func (c ModifyFeatureDefinition) CommandType() string { return ModifyFeatureDefinitionType }

// DeleteFeatureDefinition requests removal of a feature's definition.
type DeleteFeatureDefinition struct {
	base
	FeatureID string
}

// BuildDeleteFeatureDefinition creates a DeleteFeatureDefinition command.
func BuildDeleteFeatureDefinition(id model.ThingID, featureID string, headers Headers) DeleteFeatureDefinition {
	return DeleteFeatureDefinition{base: base{id: id, headers: headers}, FeatureID: featureID}
}

func (c DeleteFeatureDefinition) CommandType() string { return DeleteFeatureDefinitionType }
