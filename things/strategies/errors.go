package strategies

import (
	"fmt"

	"github.com/twinforge/thing-engine-go/things/model"
)

// StatusError is implemented by every error of the command-processing
// taxonomy. Status is an HTTP-style numeric code, ErrorCode a machine-readable
// identifier distinguishing the error kinds.
type StatusError interface {
	error
	Status() int
	ErrorCode() string
}

// NotFoundError reports that the addressed entity or one of its structural
// ancestors is missing. Path names the most specific missing ancestor:
// a command addressing a property of a non-existent feature carries the
// feature path, not the property path.
type NotFoundError struct {
	ThingID model.ThingID
	Path    string
	code    string
}

func (e *NotFoundError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("thing %s not found", e.ThingID)
	}

	return fmt.Sprintf("%s on thing %s not found", e.Path, e.ThingID)
}

func (e *NotFoundError) Status() int       { return 404 }
func (e *NotFoundError) ErrorCode() string { return e.code }

// ThingNotFound reports a missing thing.
func ThingNotFound(id model.ThingID) *NotFoundError {
	return &NotFoundError{ThingID: id, code: "things:thing.notfound"}
}

// PolicyIDNotAccessible reports a thing without a policy reference.
func PolicyIDNotAccessible(id model.ThingID) *NotFoundError {
	return &NotFoundError{ThingID: id, Path: "policyId", code: "things:policyId.notaccessible"}
}

// DefinitionNotFound reports a thing without a definition.
func DefinitionNotFound(id model.ThingID) *NotFoundError {
	return &NotFoundError{ThingID: id, Path: "definition", code: "things:definition.notfound"}
}

// AttributesNotFound reports a thing without an attributes tree.
func AttributesNotFound(id model.ThingID) *NotFoundError {
	return &NotFoundError{ThingID: id, Path: "attributes", code: "things:attributes.notfound"}
}

// AttributeNotFound reports a missing attribute.
func AttributeNotFound(id model.ThingID, ptr model.Pointer) *NotFoundError {
	return &NotFoundError{ThingID: id, Path: "attributes" + ptr.String(), code: "things:attribute.notfound"}
}

// FeaturesNotFound reports a thing without a features container.
func FeaturesNotFound(id model.ThingID) *NotFoundError {
	return &NotFoundError{ThingID: id, Path: "features", code: "things:features.notfound"}
}

// FeatureNotFound reports a missing feature. It takes precedence over any
// more specific path inside that feature.
func FeatureNotFound(id model.ThingID, featureID string) *NotFoundError {
	return &NotFoundError{ThingID: id, Path: "features/" + featureID, code: "things:feature.notfound"}
}

// FeatureDefinitionNotFound reports a feature without a definition.
func FeatureDefinitionNotFound(id model.ThingID, featureID string) *NotFoundError {
	return &NotFoundError{
		ThingID: id,
		Path:    "features/" + featureID + "/definition",
		code:    "things:feature.definition.notfound",
	}
}

// FeaturePropertiesNotFound reports a feature without reported properties.
func FeaturePropertiesNotFound(id model.ThingID, featureID string) *NotFoundError {
	return &NotFoundError{
		ThingID: id,
		Path:    "features/" + featureID + "/properties",
		code:    "things:feature.properties.notfound",
	}
}

// FeaturePropertyNotFound reports a missing reported property.
func FeaturePropertyNotFound(id model.ThingID, featureID string, ptr model.Pointer) *NotFoundError {
	return &NotFoundError{
		ThingID: id,
		Path:    "features/" + featureID + "/properties" + ptr.String(),
		code:    "things:feature.property.notfound",
	}
}

// FeatureDesiredPropertiesNotFound reports a feature without desired properties.
func FeatureDesiredPropertiesNotFound(id model.ThingID, featureID string) *NotFoundError {
	return &NotFoundError{
		ThingID: id,
		Path:    "features/" + featureID + "/desiredProperties",
		code:    "things:feature.desiredProperties.notfound",
	}
}

// FeatureDesiredPropertyNotFound reports a missing desired property.
func FeatureDesiredPropertyNotFound(id model.ThingID, featureID string, ptr model.Pointer) *NotFoundError {
	return &NotFoundError{
		ThingID: id,
		Path:    "features/" + featureID + "/desiredProperties" + ptr.String(),
		code:    "things:feature.desiredProperty.notfound",
	}
}

// PayloadTooLargeError reports that the serialized-size budget would be
// exceeded. It is raised before any event is constructed, so rejected
// commands never reach the event log.
type PayloadTooLargeError struct {
	ThingID       model.ThingID
	Actual        int64
	Limit         int64
	CorrelationID string
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("thing %s would exceed the size limit: %d > %d bytes", e.ThingID, e.Actual, e.Limit)
}

func (e *PayloadTooLargeError) Status() int       { return 413 }
func (e *PayloadTooLargeError) ErrorCode() string { return "things:thing.toolarge" }

// ConflictError reports an optimistic-concurrency conflict: either a create
// for an already existing thing, or a conditional-header mismatch.
type ConflictError struct {
	ThingID model.ThingID
	Header  string // conditional header that failed, empty for create conflicts
	status  int
	code    string
}

func (e *ConflictError) Error() string {
	if e.Header == "" {
		return fmt.Sprintf("thing %s already exists", e.ThingID)
	}

	return fmt.Sprintf("%s precondition failed for thing %s", e.Header, e.ThingID)
}

func (e *ConflictError) Status() int       { return e.status }
func (e *ConflictError) ErrorCode() string { return e.code }

// ThingConflict reports a create command for an existing thing.
func ThingConflict(id model.ThingID) *ConflictError {
	return &ConflictError{ThingID: id, status: 409, code: "things:thing.conflict"}
}

// PreconditionFailed reports a conditional-header mismatch.
func PreconditionFailed(id model.ThingID, header string) *ConflictError {
	return &ConflictError{ThingID: id, Header: header, status: 412, code: "things:precondition.failed"}
}

// UnsupportedCommandError reports a command type with no registered strategy.
type UnsupportedCommandError struct {
	CommandType string
}

func (e *UnsupportedCommandError) Error() string {
	return fmt.Sprintf("no strategy registered for command type %q", e.CommandType)
}

func (e *UnsupportedCommandError) Status() int       { return 400 }
func (e *UnsupportedCommandError) ErrorCode() string { return "things:command.unsupported" }
