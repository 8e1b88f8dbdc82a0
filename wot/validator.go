// Package wot defines the external Web-of-Things model validation
// collaborator consumed by the mutation strategies. Validation is the one
// pre-commit stage allowed to suspend on I/O (fetching and evaluating thing
// models); it runs against the previous entity state and the proposed value
// before any event is constructed.
package wot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/twinforge/thing-engine-go/things/model"
)

// Validator validates proposed values against the thing/feature models
// referenced by definition identifiers. Implementations may suspend (schema
// fetching is I/O-bound); callers bound every call with a timeout via Bounded.
//
// A nil or empty definition means "no model referenced" - implementations
// should accept such values unless configured otherwise.
type Validator interface {
	// ValidateThing validates a whole proposed thing content.
	ValidateThing(ctx context.Context, thingDefinition model.DefinitionID, thing map[string]any, correlationID string) error

	// ValidateAttributes validates a proposed attributes (sub-)tree.
	ValidateAttributes(ctx context.Context, thingDefinition model.DefinitionID, ptr model.Pointer, value any, correlationID string) error

	// ValidateFeature validates a whole proposed feature.
	ValidateFeature(ctx context.Context, thingDefinition model.DefinitionID, feature model.Feature, correlationID string) error

	// ValidateFeatureProperty validates a proposed (desired) property value of a feature.
	ValidateFeatureProperty(
		ctx context.Context,
		thingDefinition model.DefinitionID,
		featureDefinition []model.DefinitionID,
		featureID string,
		ptr model.Pointer,
		value any,
		desired bool,
		correlationID string,
	) error

	// ValidateScopedDeletion validates that deleting the addressed path does
	// not violate the referenced models.
	ValidateScopedDeletion(
		ctx context.Context,
		thingDefinition model.DefinitionID,
		featureDefinition []model.DefinitionID,
		featureID string,
		ptr model.Pointer,
		correlationID string,
	) error
}

// ValidationFailedError is returned when the external validator rejected a value.
type ValidationFailedError struct {
	Message       string
	Path          string
	CorrelationID string
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("wot validation failed at %q: %s", e.Path, e.Message)
}

// Status returns the HTTP-style status for this error.
func (e *ValidationFailedError) Status() int { return 400 }

// ErrorCode returns the machine-readable error code.
func (e *ValidationFailedError) ErrorCode() string { return "wot:payload.validation.error" }

// ValidationTimeoutError is returned when the validation stage did not resolve
// within its bounded timeout. A timed-out validation never leaves a partially
// applied event.
type ValidationTimeoutError struct {
	Timeout       time.Duration
	CorrelationID string
}

func (e *ValidationTimeoutError) Error() string {
	return fmt.Sprintf("wot validation timed out after %s", e.Timeout)
}

// Status returns the HTTP-style status for this error.
func (e *ValidationTimeoutError) Status() int { return 503 }

// ErrorCode returns the machine-readable error code.
func (e *ValidationTimeoutError) ErrorCode() string { return "wot:validation.timeout" }

// Disabled returns a Validator that accepts everything. Used when WoT
// validation is switched off.
func Disabled() Validator { return disabledValidator{} }

type disabledValidator struct{}

func (disabledValidator) ValidateThing(context.Context, model.DefinitionID, map[string]any, string) error {
	return nil
}

func (disabledValidator) ValidateAttributes(context.Context, model.DefinitionID, model.Pointer, any, string) error {
	return nil
}

func (disabledValidator) ValidateFeature(context.Context, model.DefinitionID, model.Feature, string) error {
	return nil
}

func (disabledValidator) ValidateFeatureProperty(
	context.Context, model.DefinitionID, []model.DefinitionID, string, model.Pointer, any, bool, string,
) error {
	return nil
}

func (disabledValidator) ValidateScopedDeletion(
	context.Context, model.DefinitionID, []model.DefinitionID, string, model.Pointer, string,
) error {
	return nil
}

// Bounded wraps a validator so that every call is bounded by the given
// timeout. Deadline overruns are mapped to ValidationTimeoutError.
func Bounded(v Validator, timeout time.Duration) Validator {
	return &boundedValidator{inner: v, timeout: timeout}
}

type boundedValidator struct {
	inner   Validator
	timeout time.Duration
}

func (b *boundedValidator) run(ctx context.Context, correlationID string, fn func(ctx context.Context) error) error {
	bounded, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	err := fn(bounded)
	if errors.Is(err, context.DeadlineExceeded) {
		return &ValidationTimeoutError{Timeout: b.timeout, CorrelationID: correlationID}
	}

	return err
}

func (b *boundedValidator) ValidateThing(
	ctx context.Context, def model.DefinitionID, thing map[string]any, correlationID string,
) error {
	return b.run(ctx, correlationID, func(ctx context.Context) error {
		return b.inner.ValidateThing(ctx, def, thing, correlationID)
	})
}

func (b *boundedValidator) ValidateAttributes(
	ctx context.Context, def model.DefinitionID, ptr model.Pointer, value any, correlationID string,
) error {
	return b.run(ctx, correlationID, func(ctx context.Context) error {
		return b.inner.ValidateAttributes(ctx, def, ptr, value, correlationID)
	})
}

func (b *boundedValidator) ValidateFeature(
	ctx context.Context, def model.DefinitionID, feature model.Feature, correlationID string,
) error {
	return b.run(ctx, correlationID, func(ctx context.Context) error {
		return b.inner.ValidateFeature(ctx, def, feature, correlationID)
	})
}

func (b *boundedValidator) ValidateFeatureProperty(
	ctx context.Context,
	def model.DefinitionID,
	featureDef []model.DefinitionID,
	featureID string,
	ptr model.Pointer,
	value any,
	desired bool,
	correlationID string,
) error {
	return b.run(ctx, correlationID, func(ctx context.Context) error {
		return b.inner.ValidateFeatureProperty(ctx, def, featureDef, featureID, ptr, value, desired, correlationID)
	})
}

func (b *boundedValidator) ValidateScopedDeletion(
	ctx context.Context,
	def model.DefinitionID,
	featureDef []model.DefinitionID,
	featureID string,
	ptr model.Pointer,
	correlationID string,
) error {
	return b.run(ctx, correlationID, func(ctx context.Context) error {
		return b.inner.ValidateScopedDeletion(ctx, def, featureDef, featureID, ptr, correlationID)
	})
}
