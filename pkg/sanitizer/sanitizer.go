// Package sanitizer turns an untrusted snapshot into a normalized tree:
// malformed elements are dropped, props are coerced to objects and cycles
// are broken. Structural gaps are left for the repairer.
package sanitizer

import (
	"context"
	"fmt"

	"github.com/agentstation/uispec/pkg/errors"
	"github.com/agentstation/uispec/pkg/kinds"
	"github.com/agentstation/uispec/pkg/logging"
	"github.com/agentstation/uispec/pkg/spec"
)

// Pass is the report pass name of the sanitizer.
const Pass = "sanitize"

// Report rules.
const (
	RuleDropElement   = "drop-element"
	RuleDefaultProps  = "default-props"
	RuleDropChild     = "drop-child"
	RuleDropChildren  = "drop-children"
	RuleDropRepeat    = "drop-repeat"
	RuleInvalidProp   = "invalid-prop"
	RuleCycle         = "cycle"
	RuleCutCycle      = "cut-cycle"
	RuleDropReference = "drop-reference"
	RuleDefaultState  = "default-state"
)

// Sanitizer normalizes snapshots.
type Sanitizer interface {
	// Raw sanitizes an undecoded snapshot. It fails with an error matching
	// errors.ErrNoTree when no root can be recovered.
	Raw(ctx context.Context, raw spec.Raw) (*spec.Tree, *spec.Report, error)

	// Tree sanitizes an already typed tree without modifying it.
	Tree(ctx context.Context, t *spec.Tree) (*spec.Tree, *spec.Report, error)
}

type sanitizer struct {
	registry *kinds.Registry
	schemas  bool
}

// New creates a Sanitizer with options.
func New(opts ...Option) (Sanitizer, error) {
	options, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}
	return &sanitizer{
		registry: options.registry,
		schemas:  options.schemas,
	}, nil
}

// Tree implements Sanitizer.
func (s *sanitizer) Tree(ctx context.Context, t *spec.Tree) (*spec.Tree, *spec.Report, error) {
	if t == nil {
		return nil, spec.NewReport(Pass), errors.NewNoTreeError("tree", nil, "tree is nil")
	}
	return s.Raw(ctx, t.Raw())
}

// Raw implements Sanitizer.
func (s *sanitizer) Raw(ctx context.Context, raw spec.Raw) (*spec.Tree, *spec.Report, error) {
	logger := logging.FromContext(ctx)
	report := spec.NewReport(Pass)

	if raw == nil {
		return nil, report, errors.NewNoTreeError("snapshot", nil, "snapshot is empty")
	}
	root, ok := raw["root"].(string)
	if !ok || root == "" {
		return nil, report, errors.NewNoTreeError("root", raw["root"], "root must be a non-empty string")
	}
	entries, ok := spec.AsObject(raw["elements"])
	if !ok {
		return nil, report, errors.NewNoTreeError("elements", raw["elements"], "elements must be an object")
	}
	if _, ok := s.element(root, entries[root], spec.NewReport(Pass)); !ok {
		return nil, report, errors.NewNoTreeError("root", root, "root element is missing or has no type")
	}

	t := spec.NewTree(root)
	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	spec.SortIDs(ids)

	dropped := make(map[string]bool)
	for _, id := range ids {
		el, ok := s.element(id, entries[id], report)
		if !ok {
			dropped[id] = true
			report.Add(RuleDropElement, id, "not an object with a type")
			continue
		}
		t.Elements[id] = el
	}

	if state, ok := spec.AsObject(raw["state"]); ok {
		t.State = spec.CloneMap(state)
	} else if raw["state"] != nil {
		report.Add(RuleDefaultState, "state", fmt.Sprintf("replaced %T with an empty object", raw["state"]))
	}

	for _, id := range breakCycles(t, report) {
		dropped[id] = true
	}
	dropReferences(t, dropped, report)

	logger.Debug().
		Str("root", root).
		Int("elements", len(t.Elements)).
		Int("dropped", len(dropped)).
		Int("fixes", report.Len()).
		Msg("Sanitized snapshot")

	return t, report, nil
}

// element validates one raw element entry.
func (s *sanitizer) element(id string, v any, report *spec.Report) (*spec.Element, bool) {
	entry, ok := spec.AsObject(v)
	if !ok {
		return nil, false
	}
	typ, ok := entry["type"].(string)
	if !ok || typ == "" {
		return nil, false
	}

	el := &spec.Element{Type: typ}
	if props, ok := spec.AsObject(entry["props"]); ok {
		el.Props = spec.CloneMap(props)
	} else {
		el.Props = make(map[string]any)
		if entry["props"] != nil {
			report.Add(RuleDefaultProps, id, fmt.Sprintf("replaced %T with an empty object", entry["props"]))
		}
	}

	if rawChildren, present := entry["children"]; present && rawChildren != nil {
		children, ok := spec.AsArray(rawChildren)
		if !ok {
			report.Add(RuleDropChildren, id, fmt.Sprintf("children is %T, not an array", rawChildren))
		} else {
			el.Children = make([]string, 0, len(children))
			for i, c := range children {
				cid, ok := c.(string)
				if !ok || cid == "" {
					report.Add(RuleDropChild, id, fmt.Sprintf("entry %d is not an id", i))
					continue
				}
				el.Children = append(el.Children, cid)
			}
		}
	}

	if rawRepeat, present := entry["repeat"]; present && rawRepeat != nil {
		repeat, ok := spec.AsObject(rawRepeat)
		path, _ := repeat["statePath"].(string)
		if !ok || path == "" {
			report.Add(RuleDropRepeat, id, "repeat needs a statePath")
		} else {
			key, _ := repeat["key"].(string)
			el.Repeat = &spec.Repeat{StatePath: path, Key: key}
		}
	}

	if s.schemas {
		for _, prop := range s.registry.InvalidProps(typ, el.Props) {
			delete(el.Props, prop)
			report.Add(RuleInvalidProp, id, fmt.Sprintf("removed %q: does not match the %s schema", prop, typ))
		}
	}
	return el, true
}

// dropReferences removes children entries pointing at dropped ids. Ids that
// were never declared stay for the repairer.
func dropReferences(t *spec.Tree, dropped map[string]bool, report *spec.Report) {
	if len(dropped) == 0 {
		return
	}
	for _, id := range t.IDs() {
		el := t.Elements[id]
		if len(el.Children) == 0 {
			continue
		}
		kept := el.Children[:0]
		for _, child := range el.Children {
			if dropped[child] {
				report.Add(RuleDropReference, id, fmt.Sprintf("removed reference to dropped %q", child))
				continue
			}
			kept = append(kept, child)
		}
		el.Children = kept
	}
}
