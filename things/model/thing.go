package model

import (
	"time"
)

// Thing is the aggregate root of the entity model. It is an immutable value:
// every mutator returns a new Thing, the receiver is never changed. A nil
// *Thing represents an entity that does not exist (not yet created, or deleted).
//
// Revision starts at 0 for a not-yet-persisted Thing and strictly increases
// by exactly one per applied event; the persistence layer is the sole
// authority advancing it.
type Thing struct {
	id         ThingID
	policyID   *PolicyID
	definition *DefinitionID
	attributes map[string]any
	features   map[string]Feature
	revision   int64
	modified   time.Time
}

// NewThing creates an empty Thing with the given id and revision 0.
func NewThing(id ThingID) Thing {
	return Thing{id: id}
}

// ID returns the thing id.
func (t Thing) ID() ThingID { return t.id }

// Revision returns the current revision.
func (t Thing) Revision() int64 { return t.revision }

// Modified returns the timestamp of the last applied event.
func (t Thing) Modified() time.Time { return t.modified }

// PolicyID returns the id of the backing authorization policy, if set.
func (t Thing) PolicyID() (PolicyID, bool) {
	if t.policyID == nil {
		return PolicyID{}, false
	}

	return *t.policyID, true
}

// Definition returns the thing definition identifier, if set.
func (t Thing) Definition() (DefinitionID, bool) {
	if t.definition == nil {
		return "", false
	}

	return *t.definition, true
}

// Attributes returns the attributes tree, if present.
func (t Thing) Attributes() (map[string]any, bool) {
	if t.attributes == nil {
		return nil, false
	}

	return t.attributes, true
}

// Attribute resolves an attribute by pointer.
func (t Thing) Attribute(ptr Pointer) (any, bool) {
	if t.attributes == nil {
		return nil, false
	}

	return ptr.Get(t.attributes)
}

// Feature returns the feature with the given id, if present.
func (t Thing) Feature(featureID string) (Feature, bool) {
	f, ok := t.features[featureID]
	return f, ok
}

// Features returns all features keyed by feature id, and whether any
// features container is present at all.
func (t Thing) Features() (map[string]Feature, bool) {
	if t.features == nil {
		return nil, false
	}

	return t.features, true
}

// WithRevision returns a copy at the given revision.
func (t Thing) WithRevision(revision int64) Thing {
	t.revision = revision
	return t
}

// WithModified returns a copy with the given modification timestamp.
func (t Thing) WithModified(ts time.Time) Thing {
	t.modified = ts
	return t
}

// SetPolicyID returns a copy referencing the given policy.
func (t Thing) SetPolicyID(id PolicyID) Thing {
	t.policyID = &id
	return t
}

// SetDefinition returns a copy with the thing definition replaced.
func (t Thing) SetDefinition(definition DefinitionID) Thing {
	t.definition = &definition
	return t
}

// RemoveDefinition returns a copy without a thing definition.
func (t Thing) RemoveDefinition() Thing {
	t.definition = nil
	return t
}

// SetAttributes returns a copy with the whole attributes tree replaced.
func (t Thing) SetAttributes(attributes map[string]any) Thing {
	t.attributes = asObject(CopyTree(attributes))
	return t
}

// RemoveAttributes returns a copy without an attributes tree.
func (t Thing) RemoveAttributes() Thing {
	t.attributes = nil
	return t
}

// SetAttribute returns a copy with the pointed-at attribute set, materializing
// the attributes tree and intermediate objects as needed.
func (t Thing) SetAttribute(ptr Pointer, value any) Thing {
	base := any(t.attributes)
	if t.attributes == nil {
		base = map[string]any{}
	}
	t.attributes = asObject(ptr.Set(base, CopyTree(value)))

	return t
}

// RemoveAttribute returns a copy with the pointed-at attribute removed.
func (t Thing) RemoveAttribute(ptr Pointer) Thing {
	if t.attributes == nil {
		return t
	}
	updated, removed := ptr.Delete(t.attributes)
	if removed {
		t.attributes = asObject(updated)
	}

	return t
}

// SetFeatures returns a copy with the whole features container replaced.
func (t Thing) SetFeatures(features map[string]Feature) Thing {
	copied := make(map[string]Feature, len(features))
	for id, f := range features {
		copied[id] = f
	}
	t.features = copied

	return t
}

// RemoveFeatures returns a copy without a features container.
func (t Thing) RemoveFeatures() Thing {
	t.features = nil
	return t
}

// SetFeature returns a copy with the given feature set, materializing the
// features container if absent.
func (t Thing) SetFeature(f Feature) Thing {
	copied := make(map[string]Feature, len(t.features)+1)
	for id, existing := range t.features {
		copied[id] = existing
	}
	copied[f.ID()] = f
	t.features = copied

	return t
}

// RemoveFeature returns a copy without the feature with the given id.
func (t Thing) RemoveFeature(featureID string) Thing {
	if t.features == nil {
		return t
	}
	copied := make(map[string]Feature, len(t.features))
	for id, existing := range t.features {
		if id != featureID {
			copied[id] = existing
		}
	}
	t.features = copied

	return t
}

// SetFeatureProperty returns a copy with the pointed-at reported property of
// the given feature set. The feature is materialized if absent.
func (t Thing) SetFeatureProperty(featureID string, ptr Pointer, value any) Thing {
	f, ok := t.Feature(featureID)
	if !ok {
		f = NewFeature(featureID)
	}

	return t.SetFeature(f.SetProperty(ptr, value))
}

// RemoveFeatureProperty returns a copy with the pointed-at reported property
// of the given feature removed.
func (t Thing) RemoveFeatureProperty(featureID string, ptr Pointer) Thing {
	f, ok := t.Feature(featureID)
	if !ok {
		return t
	}

	return t.SetFeature(f.RemoveProperty(ptr))
}

// SetFeatureDesiredProperty returns a copy with the pointed-at desired
// property of the given feature set. The feature is materialized if absent.
func (t Thing) SetFeatureDesiredProperty(featureID string, ptr Pointer, value any) Thing {
	f, ok := t.Feature(featureID)
	if !ok {
		f = NewFeature(featureID)
	}

	return t.SetFeature(f.SetDesiredProperty(ptr, value))
}

// RemoveFeatureDesiredProperty returns a copy with the pointed-at desired
// property of the given feature removed.
func (t Thing) RemoveFeatureDesiredProperty(featureID string, ptr Pointer) Thing {
	f, ok := t.Feature(featureID)
	if !ok {
		return t
	}

	return t.SetFeature(f.RemoveDesiredProperty(ptr))
}

// ToJSON returns the JSON tree representation of the thing's content.
// The revision is deliberately not part of the content representation so that
// content-derived entity tags only change when the content changes.
func (t Thing) ToJSON() map[string]any {
	obj := map[string]any{
		"thingId": t.id.String(),
	}
	if t.policyID != nil {
		obj["policyId"] = t.policyID.String()
	}
	if t.definition != nil {
		obj["definition"] = string(*t.definition)
	}
	if t.attributes != nil {
		obj["attributes"] = CopyTree(t.attributes)
	}
	if t.features != nil {
		features := make(map[string]any, len(t.features))
		for id, f := range t.features {
			features[id] = f.ToJSON()
		}
		obj["features"] = features
	}

	return obj
}
