// Package dotpath resolves dot-separated paths against string-keyed dynamic
// value maps, mirroring how submission payloads are addressed by the payload
// schema ("user.email", "billing.address.city"). It also names the runtime
// type of a resolved value using the vocabulary payload contracts use.
package dotpath

import (
	"strings"
)

// Resolve walks path segments through nested map values. An exact match for a
// dotted key wins over traversal, which keeps flat form states addressable by
// the same paths as nested payloads. The second return reports whether the
// path resolved at all; a resolved nil value returns (nil, true).
func Resolve(values map[string]any, path string) (any, bool) {
	path = strings.TrimSpace(path)
	if len(values) == 0 || path == "" {
		return nil, false
	}

	if v, ok := values[path]; ok {
		return v, true
	}

	var current any = values
	for _, part := range strings.Split(path, ".") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, false
		}
		switch typed := current.(type) {
		case map[string]any:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		case map[string]string:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		default:
			return nil, false
		}
	}
	return current, true
}

// TypeName reports the payload-contract type name for a value: "string",
// "number", "boolean", "object", "array", or "null". Integer and float kinds
// collapse into "number" since JSON does not distinguish them.
func TypeName(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case string, []byte:
		return "string"
	case bool:
		return "boolean"
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return "number"
	case []any:
		return "array"
	case map[string]any, map[string]string:
		return "object"
	default:
		return "object"
	}
}

// IsEmpty reports whether a value is absent for submission purposes: nil or a
// string with no content.
func IsEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	default:
		return false
	}
}

// LastSegment returns the final component of a dotted path, or the path itself
// when it has no separator.
func LastSegment(path string) string {
	path = strings.TrimSpace(path)
	if idx := strings.LastIndex(path, "."); idx >= 0 {
		return path[idx+1:]
	}
	return path
}
