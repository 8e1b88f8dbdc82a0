package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidThingID is returned when a thing id is not namespace-qualified.
	ErrInvalidThingID = errors.New("thing id must have the form <namespace>:<name>")

	// ErrInvalidPolicyID is returned when a policy id is not namespace-qualified.
	ErrInvalidPolicyID = errors.New("policy id must have the form <namespace>:<name>")
)

// ThingID identifies a Thing aggregate. It is namespace-qualified
// ("<namespace>:<name>") and immutable after creation.
type ThingID struct {
	namespace string
	name      string
}

// ParseThingID parses a namespace-qualified thing id.
func ParseThingID(s string) (ThingID, error) {
	namespace, name, ok := splitNamespaced(s)
	if !ok {
		return ThingID{}, fmt.Errorf("%w: %q", ErrInvalidThingID, s)
	}

	return ThingID{namespace: namespace, name: name}, nil
}

// MustThingID parses a namespace-qualified thing id and panics on invalid input.
// Intended for constants and tests.
func MustThingID(s string) ThingID {
	id, err := ParseThingID(s)
	if err != nil {
		panic(err)
	}

	return id
}

// Namespace returns the namespace part of the id.
func (id ThingID) Namespace() string { return id.namespace }

// Name returns the name part of the id.
func (id ThingID) Name() string { return id.name }

// String returns the canonical "<namespace>:<name>" form.
func (id ThingID) String() string { return id.namespace + ":" + id.name }

// IsZero reports whether the id is the zero value.
func (id ThingID) IsZero() bool { return id.namespace == "" && id.name == "" }

// PolicyID identifies an authorization policy. Like ThingID it is
// namespace-qualified and immutable.
type PolicyID struct {
	namespace string
	name      string
}

// ParsePolicyID parses a namespace-qualified policy id.
func ParsePolicyID(s string) (PolicyID, error) {
	namespace, name, ok := splitNamespaced(s)
	if !ok {
		return PolicyID{}, fmt.Errorf("%w: %q", ErrInvalidPolicyID, s)
	}

	return PolicyID{namespace: namespace, name: name}, nil
}

// MustPolicyID parses a namespace-qualified policy id and panics on invalid input.
func MustPolicyID(s string) PolicyID {
	id, err := ParsePolicyID(s)
	if err != nil {
		panic(err)
	}

	return id
}

// Namespace returns the namespace part of the id.
func (id PolicyID) Namespace() string { return id.namespace }

// Name returns the name part of the id.
func (id PolicyID) Name() string { return id.name }

// String returns the canonical "<namespace>:<name>" form.
func (id PolicyID) String() string { return id.namespace + ":" + id.name }

// IsZero reports whether the id is the zero value.
func (id PolicyID) IsZero() bool { return id.namespace == "" && id.name == "" }

// DefinitionID is a single model/schema identifier, e.g.
// "org.example:SmartLamp:1.0.0" or a URL resolvable to a WoT thing model.
type DefinitionID string

func splitNamespaced(s string) (namespace, name string, ok bool) {
	idx := strings.Index(s, ":")
	if idx <= 0 || idx == len(s)-1 {
		return "", "", false
	}

	return s[:idx], s[idx+1:], true
}
