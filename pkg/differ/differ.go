// Package differ provides functionality for comparing trees and detecting changes.
package differ

import (
	"sort"
	"strings"

	"github.com/agentstation/uispec/internal/canonical"
	"github.com/agentstation/uispec/pkg/spec"
)

// Differ handles change detection between trees.
type Differ interface {
	// Elements compares two trees' elements by id and returns changes
	Elements(existing, updated *spec.Tree) *ElementChangeset

	// State compares two state values leaf by leaf
	State(existing, updated map[string]any) []FieldChange

	// Trees compares two complete trees. Either may be nil.
	Trees(existing, updated *spec.Tree) *Changeset
}

// differ is the default implementation of Differ.
type differ struct {
	ignoreFields   map[string]bool
	deepComparison bool
	compareState   bool
}

// New creates a Differ with default settings.
func New(opts ...Option) Differ {
	d := &differ{
		ignoreFields:   make(map[string]bool),
		deepComparison: true,
		compareState:   true,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Trees compares two complete trees.
func (diff *differ) Trees(existing, updated *spec.Tree) *Changeset {
	if existing == nil {
		existing = &spec.Tree{}
	}
	if updated == nil {
		updated = &spec.Tree{}
	}

	c := &Changeset{
		Elements: diff.Elements(existing, updated),
		State:    []FieldChange{},
	}
	if existing.Root != updated.Root {
		c.Root = &FieldChange{
			Path:     "root",
			OldValue: existing.Root,
			NewValue: updated.Root,
			Type:     changeType(existing.Root != "", updated.Root != ""),
		}
	}
	if diff.compareState {
		c.State = diff.State(existing.State, updated.State)
	}
	c.Summary = calculateSummary(c)
	return c
}

// Elements compares elements by id.
func (diff *differ) Elements(existing, updated *spec.Tree) *ElementChangeset {
	changeset := &ElementChangeset{
		Added:   []ElementRecord{},
		Updated: []ElementUpdate{},
		Removed: []ElementRecord{},
	}
	if existing == nil {
		existing = &spec.Tree{}
	}
	if updated == nil {
		updated = &spec.Tree{}
	}

	for _, id := range updated.IDs() {
		newEl := updated.Elements[id]
		if oldEl, exists := existing.Element(id); exists {
			if update := diff.element(id, oldEl, newEl); update != nil {
				changeset.Updated = append(changeset.Updated, *update)
			}
		} else {
			changeset.Added = append(changeset.Added, ElementRecord{ID: id, Element: newEl})
		}
	}

	for _, id := range existing.IDs() {
		if _, exists := updated.Element(id); !exists {
			changeset.Removed = append(changeset.Removed, ElementRecord{ID: id, Element: existing.Elements[id]})
		}
	}

	return changeset
}

// State compares two state values leaf by leaf.
func (diff *differ) State(existing, updated map[string]any) []FieldChange {
	changes := []FieldChange{}
	diff.values(&changes, "", "/", existing, updated, existing != nil, updated != nil, true)
	sortChanges(changes)
	return changes
}

// element compares two versions of one element.
func (diff *differ) element(id string, existing, updated *spec.Element) *ElementUpdate {
	var changes []FieldChange

	if existing.Type != updated.Type && !diff.ignored("type") {
		changes = append(changes, FieldChange{
			Path:     "type",
			OldValue: existing.Type,
			NewValue: updated.Type,
			Type:     ChangeTypeUpdate,
		})
	}

	diff.values(&changes, "props", ".", existing.Props, updated.Props, true, true, diff.deepComparison)

	if !sameChildren(existing.Children, updated.Children) && !diff.ignored("children") {
		changes = append(changes, FieldChange{
			Path:     "children",
			OldValue: encode(existing.Children),
			NewValue: encode(updated.Children),
			Type:     changeType(len(existing.Children) > 0, len(updated.Children) > 0),
		})
	}

	if !sameRepeat(existing.Repeat, updated.Repeat) && !diff.ignored("repeat") {
		changes = append(changes, FieldChange{
			Path:     "repeat",
			OldValue: encodeRepeat(existing.Repeat),
			NewValue: encodeRepeat(updated.Repeat),
			Type:     changeType(existing.Repeat != nil, updated.Repeat != nil),
		})
	}

	if len(changes) == 0 {
		return nil
	}
	sortChanges(changes)
	return &ElementUpdate{ID: id, Existing: existing, New: updated, Changes: changes}
}

// values appends the changes between two JSON-shaped values. Objects on both
// sides recurse when deep is set; everything else compares canonically.
func (diff *differ) values(changes *[]FieldChange, path, sep string, existing, updated any, hasExisting, hasUpdated, deep bool) {
	if diff.ignored(path) {
		return
	}

	oldObj, oldIsObj := existing.(map[string]any)
	newObj, newIsObj := updated.(map[string]any)
	recurse := hasExisting && hasUpdated && oldIsObj && newIsObj && (deep || path == "" || path == "props")
	if recurse {
		keys := make(map[string]bool, len(oldObj)+len(newObj))
		for k := range oldObj {
			keys[k] = true
		}
		for k := range newObj {
			keys[k] = true
		}
		for k := range keys {
			ov, inOld := oldObj[k]
			nv, inNew := newObj[k]
			diff.values(changes, joinPath(path, sep, k), sep, ov, nv, inOld, inNew, deep)
		}
		return
	}

	var oldStr, newStr string
	if hasExisting {
		oldStr = encode(existing)
	}
	if hasUpdated {
		newStr = encode(updated)
	}
	if hasExisting == hasUpdated && oldStr == newStr {
		return
	}
	if path == "" {
		path = "/"
	}
	*changes = append(*changes, FieldChange{
		Path:     path,
		OldValue: oldStr,
		NewValue: newStr,
		Type:     changeType(hasExisting, hasUpdated),
	})
}

// ignored reports whether path or one of its ancestors is ignored.
func (diff *differ) ignored(path string) bool {
	if len(diff.ignoreFields) == 0 || path == "" {
		return false
	}
	for field := range diff.ignoreFields {
		if path == field || strings.HasPrefix(path, field+".") || strings.HasPrefix(path, field+"/") {
			return true
		}
	}
	return false
}

func joinPath(path, sep, key string) string {
	if sep == "/" {
		return path + "/" + spec.JoinPath(key)[1:]
	}
	if path == "" {
		return key
	}
	return path + sep + key
}

func changeType(hadOld, hasNew bool) ChangeType {
	switch {
	case !hadOld && hasNew:
		return ChangeTypeAdd
	case hadOld && !hasNew:
		return ChangeTypeRemove
	default:
		return ChangeTypeUpdate
	}
}

func encode(v any) string {
	if key, ok := canonical.Key(v); ok {
		return key
	}
	return ""
}

func encodeRepeat(r *spec.Repeat) string {
	if r == nil {
		return ""
	}
	return encode(r)
}

func sameChildren(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sameRepeat(a, b *spec.Repeat) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sortChanges(changes []FieldChange) {
	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].Path < changes[j].Path
	})
}
