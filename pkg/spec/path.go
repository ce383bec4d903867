package spec

import (
	"strconv"
	"strings"
)

// SplitPath splits a slash-delimited state path into its segments.
// "~1" and "~0" decode to "/" and "~" as in JSON Pointer.
// The empty path and "/" address the state root.
func SplitPath(path string) []string {
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return nil
	}
	segs := strings.Split(path, "/")
	for i, seg := range segs {
		if strings.Contains(seg, "~") {
			seg = strings.ReplaceAll(seg, "~1", "/")
			segs[i] = strings.ReplaceAll(seg, "~0", "~")
		}
	}
	return segs
}

// JoinPath builds a slash-delimited path from segments.
func JoinPath(segs ...string) string {
	var b strings.Builder
	for _, seg := range segs {
		b.WriteByte('/')
		seg = strings.ReplaceAll(seg, "~", "~0")
		b.WriteString(strings.ReplaceAll(seg, "/", "~1"))
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

// Get reads the value at path.
func Get(root map[string]any, path string) (any, bool) {
	var cur any = root
	for _, seg := range SplitPath(path) {
		switch c := cur.(type) {
		case map[string]any:
			v, ok := c[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(c) {
				return nil, false
			}
			cur = c[i]
		default:
			return nil, false
		}
	}
	if cur == nil && root == nil {
		return nil, false
	}
	return cur, true
}

// maxArrayPad bounds how far past its end an array is padded by Set.
const maxArrayPad = 1024

// Set writes value at path, creating intermediate objects as needed, and
// returns the (possibly new) root. An array segment may be any index, padding
// the array with nulls, or "-" to append. A segment that is not an index
// turns the array into an object keyed by the old indexes, and scalars in the
// way are replaced by objects. Setting the root path replaces the root when
// value is an object and is ignored otherwise.
func Set(root map[string]any, path string, value any) map[string]any {
	segs := SplitPath(path)
	if len(segs) == 0 {
		if m, ok := value.(map[string]any); ok {
			return m
		}
		return root
	}
	if root == nil {
		root = make(map[string]any)
	}
	setIn(root, segs, value)
	return root
}

func setIn(container any, segs []string, value any) any {
	if len(segs) == 0 {
		return value
	}
	seg := segs[0]
	switch c := container.(type) {
	case map[string]any:
		c[seg] = setIn(c[seg], segs[1:], value)
		return c
	case []any:
		if seg == "-" {
			return append(c, setIn(nil, segs[1:], value))
		}
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 || i > len(c)+maxArrayPad {
			return setIn(arrayToObject(c), segs, value)
		}
		for len(c) <= i {
			c = append(c, nil)
		}
		c[i] = setIn(c[i], segs[1:], value)
		return c
	default:
		m := make(map[string]any)
		m[seg] = setIn(nil, segs[1:], value)
		return m
	}
}

func arrayToObject(a []any) map[string]any {
	m := make(map[string]any, len(a))
	for i, v := range a {
		m[strconv.Itoa(i)] = v
	}
	return m
}
