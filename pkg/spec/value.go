package spec

import (
	"strconv"
)

// CloneMap returns a deep copy of a JSON-shaped object.
func CloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = CloneValue(v)
	}
	return out
}

// CloneValue returns a deep copy of a JSON-shaped value. Scalars are
// returned as-is.
func CloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return CloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = CloneValue(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = CloneMap(item)
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = item
		}
		return out
	default:
		return v
	}
}

// AsObject reports whether v is a plain keyed object.
func AsObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok && m != nil
}

// AsArray reports whether v is an array, normalizing typed slices to []any.
func AsArray(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []map[string]any, []string:
		arr, _ := CloneValue(t).([]any)
		return arr, true
	default:
		return nil, false
	}
}

// ScalarString renders a string, number or bool as a string.
func ScalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	default:
		return "", false
	}
}

// FirstString returns the first non-empty scalar found under keys, and the key it was found under.
func FirstString(m map[string]any, keys ...string) (string, string, bool) {
	for _, key := range keys {
		if s, ok := ScalarString(m[key]); ok && s != "" {
			return s, key, true
		}
	}
	return "", "", false
}
