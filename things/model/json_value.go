package model

import (
	"bytes"
	"encoding/json"

	jsoniter "github.com/json-iterator/go"
)

// canonicalJSON is the JSON config used wherever byte-stable output matters
// (entity tags, content equality, exact size). It sorts object keys so that
// two content-equal trees always encode to the same bytes.
var canonicalJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// Per-node worst-case serialized sizes used by UpperBoundSize. Strings assume
// every character needs a "\uXXXX" escape, numbers assume the longest float64
// round-trip representation.
const (
	nullUpperBound   = 4
	boolUpperBound   = 5
	numberUpperBound = 25
	stringEscapeMax  = 6
)

// CanonicalJSON encodes a JSON tree with deterministic (sorted) object key order.
func CanonicalJSON(v any) ([]byte, error) {
	return canonicalJSON.Marshal(v)
}

// ContentEqual reports whether two JSON trees are content-equal, independent of
// how they were constructed (map iteration order, numeric Go types).
func ContentEqual(a, b any) bool {
	aj, errA := CanonicalJSON(a)
	bj, errB := CanonicalJSON(b)
	if errA != nil || errB != nil {
		return false
	}

	return bytes.Equal(aj, bj)
}

// ExactSize returns the exact serialized size of a JSON tree in bytes.
// This is the expensive path; prefer UpperBoundSize on hot paths.
func ExactSize(v any) int64 {
	encoded, err := canonicalJSON.Marshal(v)
	if err != nil {
		return 0
	}

	return int64(len(encoded))
}

// UpperBoundSize returns a cheap upper bound for the serialized size of a JSON
// tree. It never underestimates ExactSize: string contents are assumed to be
// fully escaped and numbers are assumed to need the longest representation.
func UpperBoundSize(v any) int64 {
	switch val := v.(type) {
	case nil:
		return nullUpperBound
	case bool:
		return boolUpperBound
	case string:
		return 2 + stringEscapeMax*int64(len(val))
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, json.Number:
		return numberUpperBound
	case map[string]any:
		size := int64(2) // braces
		for key, entry := range val {
			size += 2 + stringEscapeMax*int64(len(key)) // quoted key
			size += 1                                   // colon
			size += UpperBoundSize(entry)
			size += 1 // comma (over-counts by one for the last entry)
		}
		return size
	case []any:
		size := int64(2) // brackets
		for _, entry := range val {
			size += UpperBoundSize(entry) + 1
		}
		return size
	default:
		// Unknown node type, fall back to the exact encoding.
		return ExactSize(v)
	}
}

// CopyTree deep-copies a JSON tree. Scalars are shared (they are immutable),
// objects and arrays are copied recursively.
func CopyTree(v any) any {
	switch val := v.(type) {
	case map[string]any:
		copied := make(map[string]any, len(val))
		for key, entry := range val {
			copied[key] = CopyTree(entry)
		}
		return copied
	case []any:
		copied := make([]any, len(val))
		for i, entry := range val {
			copied[i] = CopyTree(entry)
		}
		return copied
	default:
		return val
	}
}

// copyObject shallow-copies one object level. Used by the copy-on-write
// mutators which only need fresh maps along the mutated path.
func copyObject(obj map[string]any) map[string]any {
	copied := make(map[string]any, len(obj)+1)
	for key, entry := range obj {
		copied[key] = entry
	}

	return copied
}
