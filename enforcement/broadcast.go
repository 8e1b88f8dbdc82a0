package enforcement

import (
	"context"
)

// InvalidationTopic is the pub/sub topic carrying enforcer invalidations.
const InvalidationTopic = "things.policy.invalidation"

// InvalidationMessage announces that the backing policy of an enforcer
// changed. Delivery is at-least-once and unordered; invalidation is idempotent
// so duplicates are harmless.
type InvalidationMessage struct {
	PolicyID      string `json:"policyId"`
	CorrelationID string `json:"correlationId"`
}

// Broadcast is the cluster pub/sub collaborator used for invalidation fan-out.
// The provider treats it as an at-least-once, unordered delivery channel.
type Broadcast interface {
	// Publish sends one message to all subscribers of the topic.
	Publish(ctx context.Context, topic string, msg InvalidationMessage) error

	// Subscribe registers a handler for the topic and returns an unsubscribe
	// function. Handlers must not block.
	Subscribe(topic string, handler func(InvalidationMessage)) (func(), error)
}

// NamespaceChange is one element of the blocked-namespaces stream.
type NamespaceChange struct {
	Namespace string
	Blocked   bool
}

// NamespaceWatch streams blocked-namespace changes. The returned channel is
// closed when the stream ends; the provider reopens it until its context is
// cancelled, so watch implementations may terminate streams freely (rebalance,
// reconnect).
type NamespaceWatch interface {
	Changes(ctx context.Context) (<-chan NamespaceChange, error)
}
