// Package etag computes content-derived entity tags for addressable values of
// the entity model and evaluates HTTP-style conditional request headers
// (If-Match / If-None-Match) against them.
//
// Tag encoding: "hash:" followed by the first 16 hex characters of the SHA-256
// digest over the canonical (sorted-key) JSON encoding of the value. The
// encoding is stable across process restarts for identical content and
// collision-resistant for any realistic input. There is no wire-compatibility
// requirement with an external system, so the format is local to this module.
package etag

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/twinforge/thing-engine-go/things/model"
)

const (
	tagPrefix     = "hash:"
	tagHexLength  = 16
	anyTagLiteral = "*"
)

// Tag is an opaque entity tag token. The zero value means "no tag".
type Tag string

// jsonRepresentable is implemented by model types (Thing, Feature) that carry
// their own JSON tree representation.
type jsonRepresentable interface {
	ToJSON() map[string]any
}

// FromValue computes the entity tag for a value. It returns false for nil
// values and for nil typed pointers; absent values have no tag.
func FromValue(v any) (Tag, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case jsonRepresentable:
		v = val.ToJSON()
	case *model.Thing:
		if val == nil {
			return "", false
		}
		v = val.ToJSON()
	}

	canonical, err := model.CanonicalJSON(v)
	if err != nil {
		return "", false
	}

	digest := sha256.Sum256(canonical)

	return Tag(tagPrefix + hex.EncodeToString(digest[:])[:tagHexLength]), true
}

// String returns the raw tag token without quotes.
func (t Tag) String() string { return string(t) }

// IsZero reports whether the tag is absent.
func (t Tag) IsZero() bool { return t == "" }

// Equal reports whether two tags are equal. Absent tags never match.
func (t Tag) Equal(other Tag) bool {
	return !t.IsZero() && t == other
}

// HeaderValue returns the tag formatted as a quoted HTTP ETag header value.
func (t Tag) HeaderValue() string { return `"` + string(t) + `"` }

// Matcher evaluates If-Match / If-None-Match style header values against a
// current tag. The zero Matcher matches nothing and IsZero reports true.
type Matcher struct {
	raw    string
	any    bool
	tags   []Tag
	isZero bool
}

// ParseMatcher parses a conditional header value: "*" or a comma-separated
// list of (optionally quoted) tag tokens. An empty input yields the zero
// Matcher.
func ParseMatcher(header string) Matcher {
	trimmed := strings.TrimSpace(header)
	if trimmed == "" {
		return Matcher{isZero: true}
	}
	if trimmed == anyTagLiteral {
		return Matcher{raw: trimmed, any: true}
	}

	var tags []Tag
	for _, part := range strings.Split(trimmed, ",") {
		token := strings.TrimSpace(part)
		token = strings.TrimPrefix(token, `W/`)
		token = strings.Trim(token, `"`)
		if token != "" {
			tags = append(tags, Tag(token))
		}
	}

	return Matcher{raw: trimmed, tags: tags}
}

// IsZero reports whether no conditional header was supplied.
func (m Matcher) IsZero() bool { return m.isZero }

// String returns the original header value.
func (m Matcher) String() string { return m.raw }

// Matches reports whether the matcher accepts the current tag. The present
// flag tells whether the addressed value exists at all: "*" matches any
// present value and never matches an absent one.
func (m Matcher) Matches(current Tag, present bool) bool {
	if m.isZero {
		return false
	}
	if m.any {
		return present
	}
	for _, t := range m.tags {
		if t.Equal(current) {
			return true
		}
	}

	return false
}
