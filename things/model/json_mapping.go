package model

import (
	"errors"
	"fmt"
)

// ErrInvalidThingJSON is returned when a JSON tree cannot be mapped to a Thing.
var ErrInvalidThingJSON = errors.New("invalid thing json")

// ThingFromJSON maps a JSON tree (as produced by Thing.ToJSON or received
// from a protocol adapter) back to a Thing.
func ThingFromJSON(obj map[string]any) (Thing, error) {
	rawID, ok := obj["thingId"].(string)
	if !ok {
		return Thing{}, fmt.Errorf("%w: missing thingId", ErrInvalidThingJSON)
	}
	id, err := ParseThingID(rawID)
	if err != nil {
		return Thing{}, err
	}

	thing := NewThing(id)

	if rawPolicyID, present := obj["policyId"].(string); present {
		policyID, parseErr := ParsePolicyID(rawPolicyID)
		if parseErr != nil {
			return Thing{}, parseErr
		}
		thing = thing.SetPolicyID(policyID)
	}

	if rawDefinition, present := obj["definition"].(string); present {
		thing = thing.SetDefinition(DefinitionID(rawDefinition))
	}

	if attributes, present := obj["attributes"].(map[string]any); present {
		thing = thing.SetAttributes(attributes)
	}

	if features, present := obj["features"].(map[string]any); present {
		mapped := make(map[string]Feature, len(features))
		for featureID, rawFeature := range features {
			featureObj, isObj := rawFeature.(map[string]any)
			if !isObj {
				return Thing{}, fmt.Errorf("%w: feature %q is not an object", ErrInvalidThingJSON, featureID)
			}
			mapped[featureID] = FeatureFromJSON(featureID, featureObj)
		}
		thing = thing.SetFeatures(mapped)
	}

	return thing, nil
}

// FeatureFromJSON maps a JSON tree (as produced by Feature.ToJSON) back to a
// Feature. Unknown keys are ignored.
func FeatureFromJSON(featureID string, obj map[string]any) Feature {
	f := NewFeature(featureID)

	if rawDefinition, present := obj["definition"].([]any); present {
		definition := make([]DefinitionID, 0, len(rawDefinition))
		for _, entry := range rawDefinition {
			if s, isString := entry.(string); isString {
				definition = append(definition, DefinitionID(s))
			}
		}
		f = f.SetDefinition(definition)
	}

	if properties, present := obj["properties"].(map[string]any); present {
		f = f.SetProperties(properties)
	}

	if desired, present := obj["desiredProperties"].(map[string]any); present {
		f = f.SetDesiredProperties(desired)
	}

	return f
}
