package spec

import "sort"

// Binding marker keys. A prop value {"$state": "/path"} reads state;
// {"$bindState": "/path"} reads and writes it back.
const (
	StateKey     = "$state"
	BindStateKey = "$bindState"
)

// Binding is a prop value that refers to a state path.
type Binding struct {
	Path   string
	TwoWay bool
}

// AsBinding reports whether v is a binding marker object.
func AsBinding(v any) (Binding, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return Binding{}, false
	}
	if p, ok := m[BindStateKey].(string); ok {
		return Binding{Path: p, TwoWay: true}, true
	}
	if p, ok := m[StateKey].(string); ok {
		return Binding{Path: p}, true
	}
	return Binding{}, false
}

// NewBinding returns the marker object for a binding.
func NewBinding(path string, twoWay bool) map[string]any {
	if twoWay {
		return map[string]any{BindStateKey: path}
	}
	return map[string]any{StateKey: path}
}

// BindingPaths collects the distinct state paths referenced anywhere in
// props, in sorted order.
func BindingPaths(props map[string]any) []string {
	seen := make(map[string]bool)
	var walk func(v any)
	walk = func(v any) {
		if b, ok := AsBinding(v); ok {
			seen[b.Path] = true
			return
		}
		switch t := v.(type) {
		case map[string]any:
			for _, item := range t {
				walk(item)
			}
		case []any:
			for _, item := range t {
				walk(item)
			}
		}
	}
	walk(props)

	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
