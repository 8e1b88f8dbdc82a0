package commands

import (
	"github.com/google/uuid"

	"github.com/twinforge/thing-engine-go/things/etag"
)

// Header names used on responses.
const (
	HeaderCorrelationID  = "correlation-id"
	HeaderEntityRevision = "entity-revision"
	HeaderETag           = "etag"
)

// Headers carries the per-command metadata: correlation id, conditional
// request matchers, and free-form key-value pairs contributed by the protocol
// adapter. Headers are value types and never mutated after construction.
type Headers struct {
	CorrelationID string
	IfMatch       etag.Matcher
	IfNoneMatch   etag.Matcher
	Channel       string
	Extra         map[string]string
}

// BuildHeaders creates Headers with a fresh correlation id.
func BuildHeaders() Headers {
	return Headers{CorrelationID: uuid.NewString()}
}

// BuildHeadersWithCorrelationID creates Headers with the given correlation id.
func BuildHeadersWithCorrelationID(correlationID string) Headers {
	return Headers{CorrelationID: correlationID}
}

// WithIfMatch returns a copy with the If-Match header set.
func (h Headers) WithIfMatch(header string) Headers {
	h.IfMatch = etag.ParseMatcher(header)
	return h
}

// WithIfNoneMatch returns a copy with the If-None-Match header set.
func (h Headers) WithIfNoneMatch(header string) Headers {
	h.IfNoneMatch = etag.ParseMatcher(header)
	return h
}

// WithChannel returns a copy with the channel set.
func (h Headers) WithChannel(channel string) Headers {
	h.Channel = channel
	return h
}

// WithExtra returns a copy with one free-form header added.
func (h Headers) WithExtra(key, value string) Headers {
	extra := make(map[string]string, len(h.Extra)+1)
	for k, v := range h.Extra {
		extra[k] = v
	}
	extra[key] = value
	h.Extra = extra

	return h
}

// Conditional reports whether the command requested conditional semantics.
// Responses carry an ETag header only for conditional commands.
func (h Headers) Conditional() bool {
	return !h.IfMatch.IsZero() || !h.IfNoneMatch.IsZero()
}
