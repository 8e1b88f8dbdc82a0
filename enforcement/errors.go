package enforcement

import (
	"errors"
	"fmt"

	"github.com/twinforge/thing-engine-go/things/model"
)

// ErrProviderClosed is returned by Get and Invalidate after Close.
var ErrProviderClosed = errors.New("enforcer provider is closed")

// EnforcerUnavailableError reports that the enforcer for a policy could not be
// resolved in time: the backing load failed, timed out, or the provider is
// shutting down. Commands hitting this error fail without producing an event.
type EnforcerUnavailableError struct {
	PolicyID      model.PolicyID
	CorrelationID string
	Cause         error
}

func (e *EnforcerUnavailableError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("enforcer for policy %s unavailable", e.PolicyID)
	}

	return fmt.Sprintf("enforcer for policy %s unavailable: %s", e.PolicyID, e.Cause)
}

func (e *EnforcerUnavailableError) Unwrap() error { return e.Cause }

// Status returns the HTTP-style status for this error.
func (e *EnforcerUnavailableError) Status() int { return 503 }

// ErrorCode returns the machine-readable error code.
func (e *EnforcerUnavailableError) ErrorCode() string { return "enforcement:enforcer.unavailable" }

// NamespaceBlockedError reports that the namespace of the addressed policy is
// currently blocked; no enforcer is resolved for blocked namespaces.
type NamespaceBlockedError struct {
	Namespace     string
	CorrelationID string
}

func (e *NamespaceBlockedError) Error() string {
	return fmt.Sprintf("namespace %q is blocked", e.Namespace)
}

// Status returns the HTTP-style status for this error.
func (e *NamespaceBlockedError) Status() int { return 403 }

// ErrorCode returns the machine-readable error code.
func (e *NamespaceBlockedError) ErrorCode() string { return "enforcement:namespace.blocked" }
