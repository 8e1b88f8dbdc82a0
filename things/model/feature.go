package model

// Feature is a sub-entity of a Thing, keyed by a non-empty feature id.
// It optionally carries a definition (an ordered list of model identifiers),
// reported properties, and desired properties. A Feature with neither
// properties nor desired properties is valid (a "bare" feature).
//
// Feature values are immutable: all mutators return a new Feature.
type Feature struct {
	id                string
	definition        []DefinitionID
	properties        map[string]any
	desiredProperties map[string]any
}

// NewFeature creates a bare feature with the given id.
func NewFeature(id string) Feature {
	return Feature{id: id}
}

// ID returns the feature id.
func (f Feature) ID() string { return f.id }

// Definition returns the ordered definition identifiers, if present.
func (f Feature) Definition() ([]DefinitionID, bool) {
	if f.definition == nil {
		return nil, false
	}

	return f.definition, true
}

// Properties returns the reported properties tree, if present.
// An empty-but-present tree is distinct from an absent one.
func (f Feature) Properties() (map[string]any, bool) {
	if f.properties == nil {
		return nil, false
	}

	return f.properties, true
}

// DesiredProperties returns the desired properties tree, if present.
func (f Feature) DesiredProperties() (map[string]any, bool) {
	if f.desiredProperties == nil {
		return nil, false
	}

	return f.desiredProperties, true
}

// Property resolves a reported property by pointer.
func (f Feature) Property(ptr Pointer) (any, bool) {
	if f.properties == nil {
		return nil, false
	}

	return ptr.Get(f.properties)
}

// DesiredProperty resolves a desired property by pointer.
func (f Feature) DesiredProperty(ptr Pointer) (any, bool) {
	if f.desiredProperties == nil {
		return nil, false
	}

	return ptr.Get(f.desiredProperties)
}

// SetDefinition returns a copy with the definition replaced.
func (f Feature) SetDefinition(definition []DefinitionID) Feature {
	copied := make([]DefinitionID, len(definition))
	copy(copied, definition)
	f.definition = copied

	return f
}

// RemoveDefinition returns a copy without a definition.
func (f Feature) RemoveDefinition() Feature {
	f.definition = nil
	return f
}

// SetProperties returns a copy with the whole properties tree replaced.
func (f Feature) SetProperties(properties map[string]any) Feature {
	f.properties = asObject(CopyTree(properties))
	return f
}

// RemoveProperties returns a copy without a properties tree.
func (f Feature) RemoveProperties() Feature {
	f.properties = nil
	return f
}

// SetProperty returns a copy with the pointed-at reported property set,
// materializing the properties tree and intermediate objects as needed.
func (f Feature) SetProperty(ptr Pointer, value any) Feature {
	base := any(f.properties)
	if f.properties == nil {
		base = map[string]any{}
	}
	f.properties = asObject(ptr.Set(base, CopyTree(value)))

	return f
}

// RemoveProperty returns a copy with the pointed-at reported property removed.
func (f Feature) RemoveProperty(ptr Pointer) Feature {
	if f.properties == nil {
		return f
	}
	updated, removed := ptr.Delete(f.properties)
	if removed {
		f.properties = asObject(updated)
	}

	return f
}

// SetDesiredProperties returns a copy with the whole desired properties tree replaced.
func (f Feature) SetDesiredProperties(properties map[string]any) Feature {
	f.desiredProperties = asObject(CopyTree(properties))
	return f
}

// RemoveDesiredProperties returns a copy without a desired properties tree.
func (f Feature) RemoveDesiredProperties() Feature {
	f.desiredProperties = nil
	return f
}

// SetDesiredProperty returns a copy with the pointed-at desired property set.
func (f Feature) SetDesiredProperty(ptr Pointer, value any) Feature {
	base := any(f.desiredProperties)
	if f.desiredProperties == nil {
		base = map[string]any{}
	}
	f.desiredProperties = asObject(ptr.Set(base, CopyTree(value)))

	return f
}

// RemoveDesiredProperty returns a copy with the pointed-at desired property removed.
func (f Feature) RemoveDesiredProperty(ptr Pointer) Feature {
	if f.desiredProperties == nil {
		return f
	}
	updated, removed := ptr.Delete(f.desiredProperties)
	if removed {
		f.desiredProperties = asObject(updated)
	}

	return f
}

// ToJSON returns the JSON tree representation of the feature.
func (f Feature) ToJSON() map[string]any {
	obj := map[string]any{}
	if f.definition != nil {
		definitions := make([]any, len(f.definition))
		for i, d := range f.definition {
			definitions[i] = string(d)
		}
		obj["definition"] = definitions
	}
	if f.properties != nil {
		obj["properties"] = CopyTree(f.properties)
	}
	if f.desiredProperties != nil {
		obj["desiredProperties"] = CopyTree(f.desiredProperties)
	}

	return obj
}

func asObject(v any) map[string]any {
	if obj, ok := v.(map[string]any); ok {
		return obj
	}

	return map[string]any{}
}
