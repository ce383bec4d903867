package spec

import "sort"

// Tree is one complete, self-contained UI description snapshot.
type Tree struct {
	Root     string              `json:"root" yaml:"root"`
	Elements map[string]*Element `json:"elements" yaml:"elements"`
	State    map[string]any      `json:"state,omitempty" yaml:"state,omitempty"`
}

// Element is one node of a Tree.
type Element struct {
	Type     string         `json:"type" yaml:"type"`
	Props    map[string]any `json:"props" yaml:"props"`
	Children []string       `json:"children,omitempty" yaml:"children,omitempty"`
	Repeat   *Repeat        `json:"repeat,omitempty" yaml:"repeat,omitempty"`
}

// Repeat declares that an element renders once per item of a state array.
// Key names the per-item field that identifies an item.
type Repeat struct {
	StatePath string `json:"statePath" yaml:"statePath"`
	Key       string `json:"key,omitempty" yaml:"key,omitempty"`
}

// LabelProps are the props that carry an element's human-visible label.
var LabelProps = []string{"title", "text", "label", "content"}

// NewTree creates an empty tree rooted at root.
func NewTree(root string) *Tree {
	return &Tree{
		Root:     root,
		Elements: make(map[string]*Element),
		State:    make(map[string]any),
	}
}

// Clone returns a deep copy of the tree.
func (t *Tree) Clone() *Tree {
	if t == nil {
		return nil
	}
	out := &Tree{
		Root:     t.Root,
		Elements: make(map[string]*Element, len(t.Elements)),
		State:    CloneMap(t.State),
	}
	for id, el := range t.Elements {
		out.Elements[id] = el.Clone()
	}
	if out.State == nil {
		out.State = make(map[string]any)
	}
	return out
}

// Element returns the element with the given id.
func (t *Tree) Element(id string) (*Element, bool) {
	el, ok := t.Elements[id]
	return el, ok && el != nil
}

// IDs returns every element id in natural order.
func (t *Tree) IDs() []string {
	ids := make([]string, 0, len(t.Elements))
	for id := range t.Elements {
		ids = append(ids, id)
	}
	SortIDs(ids)
	return ids
}

// Reachable returns the set of present element ids reachable from root.
func (t *Tree) Reachable() map[string]bool {
	seen := make(map[string]bool, len(t.Elements))
	if _, ok := t.Element(t.Root); !ok {
		return seen
	}
	stack := []string{t.Root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[id] {
			continue
		}
		el, ok := t.Element(id)
		if !ok {
			continue
		}
		seen[id] = true
		for i := len(el.Children) - 1; i >= 0; i-- {
			if !seen[el.Children[i]] {
				stack = append(stack, el.Children[i])
			}
		}
	}
	return seen
}

// Reaches reports whether id equals from or is referenced anywhere in the
// subtree below from. Missing ids count as references.
func (t *Tree) Reaches(from, id string) bool {
	seen := make(map[string]bool)
	stack := []string{from}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == id {
			return true
		}
		if seen[cur] {
			continue
		}
		seen[cur] = true
		if el, ok := t.Element(cur); ok {
			stack = append(stack, el.Children...)
		}
	}
	return false
}

// Referenced returns every id that appears in some children array,
// whether or not the id is present.
func (t *Tree) Referenced() map[string]bool {
	refs := make(map[string]bool)
	for _, el := range t.Elements {
		if el == nil {
			continue
		}
		for _, child := range el.Children {
			refs[child] = true
		}
	}
	return refs
}

// Dangling returns the ids referenced by some children array that have no
// element, in natural order.
func (t *Tree) Dangling() []string {
	var missing []string
	for id := range t.Referenced() {
		if _, ok := t.Element(id); !ok {
			missing = append(missing, id)
		}
	}
	SortIDs(missing)
	return missing
}

// Orphans returns the present, non-root elements no children array
// references, in natural order.
func (t *Tree) Orphans() []string {
	refs := t.Referenced()
	var orphans []string
	for id, el := range t.Elements {
		if el == nil || id == t.Root || refs[id] {
			continue
		}
		orphans = append(orphans, id)
	}
	SortIDs(orphans)
	return orphans
}

// Parents returns the ids of elements whose children include id, in natural order.
func (t *Tree) Parents(id string) []string {
	var parents []string
	for pid, el := range t.Elements {
		if el == nil {
			continue
		}
		for _, child := range el.Children {
			if child == id {
				parents = append(parents, pid)
				break
			}
		}
	}
	SortIDs(parents)
	return parents
}

// ReplaceReference rewrites every children reference to from into to and
// returns the number of references rewritten.
func (t *Tree) ReplaceReference(from, to string) int {
	n := 0
	for _, el := range t.Elements {
		if el == nil {
			continue
		}
		for i, child := range el.Children {
			if child == from {
				el.Children[i] = to
				n++
			}
		}
	}
	return n
}

// Clone returns a deep copy of the element.
func (e *Element) Clone() *Element {
	if e == nil {
		return nil
	}
	out := &Element{
		Type:  e.Type,
		Props: CloneMap(e.Props),
	}
	if out.Props == nil {
		out.Props = make(map[string]any)
	}
	if e.Children != nil {
		out.Children = append([]string{}, e.Children...)
	}
	if e.Repeat != nil {
		r := *e.Repeat
		out.Repeat = &r
	}
	return out
}

// Label returns the first label-like prop that holds a scalar value.
func (e *Element) Label() (string, bool) {
	for _, key := range LabelProps {
		if s, ok := ScalarString(e.Props[key]); ok {
			return s, true
		}
	}
	return "", false
}

// ChildTypes returns the sorted types of the element's present children.
func (t *Tree) ChildTypes(id string) []string {
	el, ok := t.Element(id)
	if !ok {
		return nil
	}
	types := make([]string, 0, len(el.Children))
	for _, child := range el.Children {
		if c, ok := t.Element(child); ok {
			types = append(types, c.Type)
		}
	}
	sort.Strings(types)
	return types
}
