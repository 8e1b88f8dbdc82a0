// Package engine executes entity commands against persisted thing state. It
// serializes commands per thing, enforces conditional-request semantics, runs
// the deferred pre-commit validation stage, and persists exactly one event per
// accepted mutation.
package engine

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/twinforge/thing-engine-go/observability"
	"github.com/twinforge/thing-engine-go/things/commands"
	"github.com/twinforge/thing-engine-go/things/events"
	"github.com/twinforge/thing-engine-go/things/model"
	"github.com/twinforge/thing-engine-go/things/strategies"
	"github.com/twinforge/thing-engine-go/wot"
)

const defaultLockStripes = 64

// Metric and span identifiers.
const (
	metricCommandDuration = "thing_engine_command_duration"
	metricCommandErrors   = "thing_engine_command_errors_total"
	metricEventsAppended  = "thing_engine_events_appended_total"
	spanExecuteCommand    = "thing_engine.execute_command"
)

// Engine processes entity commands. Commands addressing the same thing are
// strictly serialized; commands addressing different things run concurrently
// up to the lock striping granularity.
type Engine struct {
	persistence Persistence
	registry    *strategies.Registry
	stratCtx    strategies.Context
	stripes     []sync.Mutex

	logger            observability.Logger
	contextualLogger  observability.ContextualLogger
	metrics           observability.MetricsCollector
	contextualMetrics observability.ContextualMetricsCollector
	tracing           observability.TracingCollector
}

// NewEngine creates an Engine over the given persistence.
// With no options it runs with validation disabled, the size check disabled,
// and all observability discarded.
func NewEngine(persistence Persistence, options ...Option) (*Engine, error) {
	e := &Engine{
		persistence: persistence,
		registry:    strategies.NewRegistry(),
		stratCtx: strategies.Context{
			Validator: wot.Disabled(),
		},
		stripes: make([]sync.Mutex, defaultLockStripes),
		logger:  observability.NopLogger{},
		metrics: observability.NopMetricsCollector{},
	}

	for _, option := range options {
		if err := option(e); err != nil {
			return nil, err
		}
	}

	e.stratCtx.Log = e.logger

	return e, nil
}

// Execute runs one command to completion and returns the response for the
// command issuer. The returned error is non-nil whenever the response carries
// an error payload; callers that only forward the response may ignore it.
func (e *Engine) Execute(ctx context.Context, cmd commands.Command, metadata events.Metadata) (strategies.Response, error) {
	start := time.Now()
	headers := cmd.CommandHeaders()

	ctx, span := e.startSpan(ctx, cmd, headers)

	resp, err := e.execute(ctx, cmd, metadata, headers)

	outcome := "ok"
	if err != nil {
		outcome = "error"
		e.incrementCounter(ctx, metricCommandErrors, map[string]string{"command_type": cmd.CommandType()})
	}
	e.recordDuration(ctx, metricCommandDuration, time.Since(start), map[string]string{
		"command_type": cmd.CommandType(),
		"outcome":      outcome,
	})
	e.finishSpan(span, outcome, err)

	return resp, err
}

func (e *Engine) execute(
	ctx context.Context,
	cmd commands.Command,
	metadata events.Metadata,
	headers commands.Headers,
) (strategies.Response, error) {
	strategy, err := e.registry.Resolve(cmd)
	if err != nil {
		return e.fail(ctx, cmd, headers, err)
	}

	lock := e.stripe(cmd.ThingID())
	lock.Lock()
	defer lock.Unlock()

	thing, lastRevision, err := e.persistence.Load(ctx, cmd.ThingID())
	if err != nil {
		return e.fail(ctx, cmd, headers, err)
	}

	if headers.Conditional() {
		if err = checkPreconditions(strategy, cmd, thing, headers); err != nil {
			return e.fail(ctx, cmd, headers, err)
		}
	}

	if !strategy.IsDefined(&e.stratCtx, thing, cmd) {
		return e.fail(ctx, cmd, headers, notApplicable(cmd, thing))
	}

	// The revision line of a thing continues across deletion: a recreation
	// appends to the same journal instead of restarting at one.
	nextRevision := lastRevision + 1

	result := strategy.Apply(&e.stratCtx, thing, nextRevision, cmd, metadata)

	switch result.Outcome {
	case strategies.ErrorOutcome:
		return e.fail(ctx, cmd, headers, result.Err)

	case strategies.QueryOutcome:
		return result.Response(), nil

	case strategies.MutationOutcome:
		if result.Validation != nil {
			if err = result.Validation(ctx); err != nil {
				return e.fail(ctx, cmd, headers, err)
			}
		}

		event := result.Event()
		if _, err = e.persistence.Append(ctx, event); err != nil {
			return e.fail(ctx, cmd, headers, err)
		}

		e.incrementCounter(ctx, metricEventsAppended, map[string]string{"event_type": event.EventType()})
		e.logDebug(ctx, "event appended",
			"thingId", event.ThingID().String(),
			"eventType", event.EventType(),
			"revision", event.Revision(),
			"correlationId", headers.CorrelationID,
		)

		return result.Response(), nil

	default:
		return e.fail(ctx, cmd, headers, &strategies.UnsupportedCommandError{CommandType: cmd.CommandType()})
	}
}

// notApplicable maps a failed applicability guard to the protocol error: the
// only strategy defined on an absent thing is creation, so a guard failure is
// either a command against a missing thing or a create against an existing one.
func notApplicable(cmd commands.Command, thing *model.Thing) error {
	if thing == nil {
		return strategies.ThingNotFound(cmd.ThingID())
	}

	return strategies.ThingConflict(cmd.ThingID())
}

// checkPreconditions evaluates If-Match / If-None-Match against the entity tag
// of the addressed value in the previous state. A failed precondition rejects
// the command before the strategy runs, so no event is ever produced for it.
func checkPreconditions(
	strategy strategies.Strategy,
	cmd commands.Command,
	thing *model.Thing,
	headers commands.Headers,
) error {
	tag, present := strategy.PreviousEntityTag(cmd, thing)

	if !headers.IfMatch.IsZero() && !headers.IfMatch.Matches(tag, present) {
		return strategies.PreconditionFailed(cmd.ThingID(), "if-match")
	}
	if !headers.IfNoneMatch.IsZero() && headers.IfNoneMatch.Matches(tag, present) {
		return strategies.PreconditionFailed(cmd.ThingID(), "if-none-match")
	}

	return nil
}

func (e *Engine) fail(
	ctx context.Context,
	cmd commands.Command,
	headers commands.Headers,
	err error,
) (strategies.Response, error) {
	e.logDebug(ctx, "command rejected",
		"thingId", cmd.ThingID().String(),
		"commandType", cmd.CommandType(),
		"correlationId", headers.CorrelationID,
		"error", err.Error(),
	)

	return strategies.ErrorResponse(err, headers.CorrelationID), err
}

func (e *Engine) stripe(id model.ThingID) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id.String()))

	return &e.stripes[h.Sum32()%uint32(len(e.stripes))]
}

func (e *Engine) startSpan(
	ctx context.Context,
	cmd commands.Command,
	headers commands.Headers,
) (context.Context, observability.SpanContext) {
	if e.tracing == nil {
		return ctx, nil
	}

	return e.tracing.StartSpan(ctx, spanExecuteCommand, map[string]string{
		"command_type":   cmd.CommandType(),
		"thing_id":       cmd.ThingID().String(),
		"correlation_id": headers.CorrelationID,
	})
}

func (e *Engine) finishSpan(span observability.SpanContext, outcome string, err error) {
	if e.tracing == nil || span == nil {
		return
	}

	attrs := map[string]string{}
	if err != nil {
		attrs["error"] = err.Error()
	}
	e.tracing.FinishSpan(span, outcome, attrs)
}

func (e *Engine) logDebug(ctx context.Context, msg string, args ...any) {
	if e.contextualLogger != nil {
		e.contextualLogger.DebugContext(ctx, msg, args...)
		return
	}
	e.logger.Debug(msg, args...)
}

func (e *Engine) recordDuration(ctx context.Context, metric string, d time.Duration, labels map[string]string) {
	if e.contextualMetrics != nil {
		e.contextualMetrics.RecordDurationContext(ctx, metric, d, labels)
		return
	}
	e.metrics.RecordDuration(metric, d, labels)
}

func (e *Engine) incrementCounter(ctx context.Context, metric string, labels map[string]string) {
	if e.contextualMetrics != nil {
		e.contextualMetrics.IncrementCounterContext(ctx, metric, labels)
		return
	}
	e.metrics.IncrementCounter(metric, labels)
}
