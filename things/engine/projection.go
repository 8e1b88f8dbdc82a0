package engine

import (
	"errors"
	"fmt"

	"github.com/twinforge/thing-engine-go/things/events"
	"github.com/twinforge/thing-engine-go/things/model"
)

// Projection errors.
var (
	ErrUnknownEventType  = errors.New("unknown event type")
	ErrEventOutOfOrder   = errors.New("event revision out of order")
	ErrEntityGone        = errors.New("event addresses a deleted or never created thing")
	ErrInvalidEventState = errors.New("event does not apply to the current state")
)

// Project applies one event to the current snapshot and returns the next one.
// A nil snapshot is an absent thing; ThingDeleted projects back to nil.
// Revisions of an existing thing must advance by exactly one, gaps and replays
// are rejected. A creation on an absent thing establishes the revision the
// event carries: recreation after deletion continues the journal's revision
// line, and continuity against the journal tail is the store's concern.
func Project(current *model.Thing, event events.Event) (*model.Thing, error) {
	if current != nil && event.Revision() != current.Revision()+1 {
		return nil, fmt.Errorf("%w: have %d, event carries %d",
			ErrEventOutOfOrder, current.Revision(), event.Revision())
	}

	switch e := event.(type) {
	case events.ThingCreated:
		if current != nil {
			return nil, fmt.Errorf("%w: thing %s already exists", ErrInvalidEventState, event.ThingID())
		}
		if event.Revision() < 1 {
			return nil, fmt.Errorf("%w: creation carries revision %d", ErrEventOutOfOrder, event.Revision())
		}
		created, err := model.ThingFromJSON(e.Thing)
		if err != nil {
			return nil, err
		}

		return stamp(created, event), nil

	case events.ThingDeleted:
		if current == nil {
			return nil, fmt.Errorf("%w: %s", ErrEntityGone, event.ThingID())
		}

		return nil, nil

	case events.ThingModified:
		if current == nil {
			return nil, fmt.Errorf("%w: %s", ErrEntityGone, event.ThingID())
		}
		replaced, err := model.ThingFromJSON(e.Thing)
		if err != nil {
			return nil, err
		}

		return stamp(replaced, event), nil
	}

	// Everything below is a partial mutation of an existing thing.
	if current == nil {
		return nil, fmt.Errorf("%w: %s", ErrEntityGone, event.ThingID())
	}

	next, err := projectPartial(*current, event)
	if err != nil {
		return nil, err
	}

	return stamp(next, event), nil
}

func projectPartial(thing model.Thing, event events.Event) (model.Thing, error) {
	switch e := event.(type) {
	case events.PolicyIDModified:
		policyID, err := model.ParsePolicyID(e.PolicyID)
		if err != nil {
			return model.Thing{}, err
		}
		return thing.SetPolicyID(policyID), nil

	case events.ThingDefinitionCreated:
		return thing.SetDefinition(model.DefinitionID(e.Definition)), nil
	case events.ThingDefinitionModified:
		return thing.SetDefinition(model.DefinitionID(e.Definition)), nil
	case events.ThingDefinitionDeleted:
		return thing.RemoveDefinition(), nil

	case events.AttributesCreated:
		return thing.SetAttributes(e.Attributes), nil
	case events.AttributesModified:
		return thing.SetAttributes(e.Attributes), nil
	case events.AttributesDeleted:
		return thing.RemoveAttributes(), nil

	case events.AttributeCreated:
		return setAttribute(thing, e.Pointer, e.Value)
	case events.AttributeModified:
		return setAttribute(thing, e.Pointer, e.Value)
	case events.AttributeDeleted:
		ptr, err := model.NewPointer(e.Pointer)
		if err != nil {
			return model.Thing{}, err
		}
		return thing.RemoveAttribute(ptr), nil

	case events.FeaturesCreated:
		return thing.SetFeatures(featuresFromJSON(e.Features)), nil
	case events.FeaturesModified:
		return thing.SetFeatures(featuresFromJSON(e.Features)), nil
	case events.FeaturesDeleted:
		return thing.RemoveFeatures(), nil

	case events.FeatureCreated:
		return thing.SetFeature(model.FeatureFromJSON(e.FeatureID, e.Feature)), nil
	case events.FeatureModified:
		return thing.SetFeature(model.FeatureFromJSON(e.FeatureID, e.Feature)), nil
	case events.FeatureDeleted:
		return thing.RemoveFeature(e.FeatureID), nil

	case events.FeatureDefinitionCreated:
		return setFeatureDefinition(thing, e.FeatureID, e.Definition)
	case events.FeatureDefinitionModified:
		return setFeatureDefinition(thing, e.FeatureID, e.Definition)
	case events.FeatureDefinitionDeleted:
		f, ok := thing.Feature(e.FeatureID)
		if !ok {
			return missingFeature(thing, e.FeatureID)
		}
		return thing.SetFeature(f.RemoveDefinition()), nil

	case events.FeaturePropertiesCreated:
		return setFeatureProperties(thing, e.FeatureID, e.Properties, false)
	case events.FeaturePropertiesModified:
		return setFeatureProperties(thing, e.FeatureID, e.Properties, false)
	case events.FeaturePropertiesDeleted:
		f, ok := thing.Feature(e.FeatureID)
		if !ok {
			return missingFeature(thing, e.FeatureID)
		}
		return thing.SetFeature(f.RemoveProperties()), nil

	case events.FeaturePropertyCreated:
		return setFeatureProperty(thing, e.FeatureID, e.Pointer, e.Value, false)
	case events.FeaturePropertyModified:
		return setFeatureProperty(thing, e.FeatureID, e.Pointer, e.Value, false)
	case events.FeaturePropertyDeleted:
		ptr, err := model.NewPointer(e.Pointer)
		if err != nil {
			return model.Thing{}, err
		}
		return thing.RemoveFeatureProperty(e.FeatureID, ptr), nil

	case events.FeatureDesiredPropertiesCreated:
		return setFeatureProperties(thing, e.FeatureID, e.DesiredProperties, true)
	case events.FeatureDesiredPropertiesModified:
		return setFeatureProperties(thing, e.FeatureID, e.DesiredProperties, true)
	case events.FeatureDesiredPropertiesDeleted:
		f, ok := thing.Feature(e.FeatureID)
		if !ok {
			return missingFeature(thing, e.FeatureID)
		}
		return thing.SetFeature(f.RemoveDesiredProperties()), nil

	case events.FeatureDesiredPropertyCreated:
		return setFeatureProperty(thing, e.FeatureID, e.Pointer, e.Value, true)
	case events.FeatureDesiredPropertyModified:
		return setFeatureProperty(thing, e.FeatureID, e.Pointer, e.Value, true)
	case events.FeatureDesiredPropertyDeleted:
		ptr, err := model.NewPointer(e.Pointer)
		if err != nil {
			return model.Thing{}, err
		}
		return thing.RemoveFeatureDesiredProperty(e.FeatureID, ptr), nil

	default:
		return model.Thing{}, fmt.Errorf("%w: %s", ErrUnknownEventType, event.EventType())
	}
}

func stamp(thing model.Thing, event events.Event) *model.Thing {
	stamped := thing.WithRevision(event.Revision()).WithModified(event.Timestamp())
	return &stamped
}

func setAttribute(thing model.Thing, rawPtr string, value any) (model.Thing, error) {
	ptr, err := model.NewPointer(rawPtr)
	if err != nil {
		return model.Thing{}, err
	}

	return thing.SetAttribute(ptr, value), nil
}

func setFeatureDefinition(thing model.Thing, featureID string, definition []string) (model.Thing, error) {
	f, ok := thing.Feature(featureID)
	if !ok {
		return missingFeature(thing, featureID)
	}
	ids := make([]model.DefinitionID, len(definition))
	for i, d := range definition {
		ids[i] = model.DefinitionID(d)
	}

	return thing.SetFeature(f.SetDefinition(ids)), nil
}

func setFeatureProperties(thing model.Thing, featureID string, properties map[string]any, desired bool) (model.Thing, error) {
	f, ok := thing.Feature(featureID)
	if !ok {
		return missingFeature(thing, featureID)
	}
	if desired {
		return thing.SetFeature(f.SetDesiredProperties(properties)), nil
	}

	return thing.SetFeature(f.SetProperties(properties)), nil
}

func setFeatureProperty(thing model.Thing, featureID, rawPtr string, value any, desired bool) (model.Thing, error) {
	ptr, err := model.NewPointer(rawPtr)
	if err != nil {
		return model.Thing{}, err
	}
	if desired {
		return thing.SetFeatureDesiredProperty(featureID, ptr, value), nil
	}

	return thing.SetFeatureProperty(featureID, ptr, value), nil
}

func missingFeature(_ model.Thing, featureID string) (model.Thing, error) {
	return model.Thing{}, fmt.Errorf("%w: feature %q is missing", ErrInvalidEventState, featureID)
}

func featuresFromJSON(raw map[string]any) map[string]model.Feature {
	features := make(map[string]model.Feature, len(raw))
	for featureID, entry := range raw {
		obj, _ := entry.(map[string]any)
		features[featureID] = model.FeatureFromJSON(featureID, obj)
	}

	return features
}
