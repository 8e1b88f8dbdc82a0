package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-openapi/jsonpointer"
)

// ErrInvalidPointer is returned when a pointer string cannot be parsed.
var ErrInvalidPointer = errors.New("invalid json pointer")

// Pointer addresses a value inside a JSON tree using slash-delimited,
// RFC 6901 encoded reference tokens. Pointers are normalized on construction:
// a leading slash is required (the empty pointer addresses the root) and
// trailing slashes are stripped, so "/a/b" and "/a/b/" address the same value.
type Pointer struct {
	raw    string
	tokens []string
}

// NewPointer parses and normalizes a JSON pointer string.
func NewPointer(s string) (Pointer, error) {
	normalized := s
	for len(normalized) > 1 && strings.HasSuffix(normalized, "/") {
		normalized = strings.TrimSuffix(normalized, "/")
	}
	if normalized == "/" {
		normalized = ""
	}
	if normalized != "" && !strings.HasPrefix(normalized, "/") {
		normalized = "/" + normalized
	}

	parsed, err := jsonpointer.New(normalized)
	if err != nil {
		return Pointer{}, fmt.Errorf("%w: %q: %s", ErrInvalidPointer, s, err)
	}

	return Pointer{raw: normalized, tokens: parsed.DecodedTokens()}, nil
}

// MustPointer parses a JSON pointer string and panics on invalid input.
// Intended for constants and tests.
func MustPointer(s string) Pointer {
	p, err := NewPointer(s)
	if err != nil {
		panic(err)
	}

	return p
}

// String returns the normalized pointer string.
func (p Pointer) String() string { return p.raw }

// IsRoot reports whether the pointer addresses the document root.
func (p Pointer) IsRoot() bool { return len(p.tokens) == 0 }

// Tokens returns the decoded reference tokens.
func (p Pointer) Tokens() []string { return p.tokens }

// Get resolves the pointer against a JSON tree.
func (p Pointer) Get(root any) (any, bool) {
	current := root
	for _, token := range p.tokens {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[token]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(token)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}

	return current, true
}

// Has reports whether the pointer resolves to a value in the tree.
func (p Pointer) Has(root any) bool {
	_, ok := p.Get(root)
	return ok
}

// Set returns a new tree with the pointed-at value replaced by value.
// Intermediate object nodes are materialized; existing nodes along the path
// are copied (copy-on-write), the input tree is never mutated. Setting through
// a scalar or past the end of an array replaces that node with a fresh object.
func (p Pointer) Set(root any, value any) any {
	if p.IsRoot() {
		return value
	}

	return setTokens(root, p.tokens, value)
}

// Delete returns a new tree with the pointed-at value removed and reports
// whether a value was actually present. Deleting the root yields nil.
func (p Pointer) Delete(root any) (any, bool) {
	if p.IsRoot() {
		return nil, root != nil
	}

	return deleteTokens(root, p.tokens)
}

func setTokens(node any, tokens []string, value any) any {
	token := tokens[0]

	if arr, ok := node.([]any); ok {
		if idx, err := strconv.Atoi(token); err == nil && idx >= 0 && idx < len(arr) {
			copied := make([]any, len(arr))
			copy(copied, arr)
			if len(tokens) == 1 {
				copied[idx] = value
			} else {
				copied[idx] = setTokens(copied[idx], tokens[1:], value)
			}
			return copied
		}
	}

	obj, ok := node.(map[string]any)
	if !ok {
		obj = map[string]any{}
	} else {
		obj = copyObject(obj)
	}

	if len(tokens) == 1 {
		obj[token] = value
	} else {
		obj[token] = setTokens(obj[token], tokens[1:], value)
	}

	return obj
}

func deleteTokens(node any, tokens []string) (any, bool) {
	token := tokens[0]

	switch current := node.(type) {
	case map[string]any:
		child, exists := current[token]
		if !exists {
			return node, false
		}
		copied := copyObject(current)
		if len(tokens) == 1 {
			delete(copied, token)
			return copied, true
		}
		newChild, removed := deleteTokens(child, tokens[1:])
		if !removed {
			return node, false
		}
		copied[token] = newChild
		return copied, true

	case []any:
		idx, err := strconv.Atoi(token)
		if err != nil || idx < 0 || idx >= len(current) {
			return node, false
		}
		copied := make([]any, len(current))
		copy(copied, current)
		if len(tokens) == 1 {
			copied = append(copied[:idx], copied[idx+1:]...)
			return copied, true
		}
		newChild, removed := deleteTokens(copied[idx], tokens[1:])
		if !removed {
			return node, false
		}
		copied[idx] = newChild
		return copied, true

	default:
		return node, false
	}
}
