package strategies

import (
	"context"
	"errors"

	"github.com/twinforge/thing-engine-go/things/commands"
	"github.com/twinforge/thing-engine-go/things/etag"
	"github.com/twinforge/thing-engine-go/things/events"
)

// Outcome tags the kind of a strategy Result.
type Outcome string

const (
	// MutationOutcome carries a deferred (event, response) pair.
	MutationOutcome Outcome = "mutation"

	// QueryOutcome carries an immediate response and no event.
	QueryOutcome Outcome = "query"

	// ErrorOutcome carries a terminal error; no event is ever emitted.
	ErrorOutcome Outcome = "error"
)

// ValidationStage is the optional asynchronous pre-commit validation of a
// mutation. It may suspend on I/O; the command is not applied until it
// resolves successfully. A nil stage means no validation is required.
type ValidationStage func(ctx context.Context) error

// EventBuilder materializes the domain event of an accepted mutation.
// It is only invoked after the validation stage resolved successfully.
type EventBuilder func() events.Event

// ResponseBuilder materializes the reply to the command issuer.
type ResponseBuilder func() Response

// Response is the immutable reply to a command issuer.
type Response struct {
	// Status is the HTTP-style status code (200 modified/query, 201 created,
	// 204 deleted).
	Status int

	// Value is the echoed or retrieved value; nil for deletions.
	Value any

	// ETag is set only when the command requested conditional semantics and
	// a tag was computable.
	ETag etag.Tag

	// Headers carries correlation-id and entity-revision.
	Headers map[string]string
}

// Result is the tagged outcome of a command strategy.
//
// IMPORTANT: Result should only be constructed with the provided factory
// methods NewMutationResult, NewQueryResult, and NewErrorResult.
// Mutation results keep event and response deferred behind the validation
// stage so the persistence collaborator can sequence "validate then persist"
// without blocking.
type Result struct {
	Outcome    Outcome
	Command    commands.Command
	Validation ValidationStage
	Event      EventBuilder
	Response   ResponseBuilder
	Err        error
}

// NewMutationResult creates a Result carrying a deferred (event, response) pair.
func NewMutationResult(
	cmd commands.Command,
	validation ValidationStage,
	event EventBuilder,
	response ResponseBuilder,
) Result {
	return Result{
		Outcome:    MutationOutcome,
		Command:    cmd,
		Validation: validation,
		Event:      event,
		Response:   response,
	}
}

// NewQueryResult creates a Result carrying an immediate response.
func NewQueryResult(cmd commands.Command, response Response) Result {
	return Result{
		Outcome:  QueryOutcome,
		Command:  cmd,
		Response: func() Response { return response },
	}
}

// NewErrorResult creates a Result carrying a terminal error.
func NewErrorResult(cmd commands.Command, err error) Result {
	return Result{Outcome: ErrorOutcome, Command: cmd, Err: err}
}

// HasError returns the error if the result is an error result, otherwise nil.
func (r Result) HasError() error {
	if r.Outcome == ErrorOutcome {
		return r.Err
	}

	return nil
}

// ErrorResponse maps an error of the command-processing taxonomy to a
// protocol-ready response shape. Unknown errors map to status 500.
func ErrorResponse(err error, correlationID string) Response {
	status := 500
	code := "things:internal.error"
	var statusErr StatusError
	if errors.As(err, &statusErr) {
		status = statusErr.Status()
		code = statusErr.ErrorCode()
	}

	return Response{
		Status: status,
		Value: map[string]any{
			"status":    status,
			"errorCode": code,
			"message":   err.Error(),
		},
		Headers: map[string]string{commands.HeaderCorrelationID: correlationID},
	}
}
