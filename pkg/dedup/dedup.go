// Package dedup removes duplicate children references and duplicate items
// from the state arrays that repeated and data-bearing elements render.
package dedup

import (
	"context"
	"sort"

	"github.com/agentstation/uispec/internal/canonical"
	"github.com/agentstation/uispec/pkg/kinds"
	"github.com/agentstation/uispec/pkg/logging"
	"github.com/agentstation/uispec/pkg/spec"
)

// Pass is the report pass name of the deduplicator.
const Pass = "dedup"

// Report rules.
const (
	RuleChildren = "children"
	RuleRepeat   = "repeat"
	RuleData     = "data"
)

// Deduplicator removes duplicates from trees.
type Deduplicator interface {
	// Dedup returns a copy of t without duplicate children references or
	// duplicate rendered state items. The input tree is not modified.
	Dedup(ctx context.Context, t *spec.Tree) (*spec.Tree, *spec.Report)
}

type deduplicator struct {
	registry *kinds.Registry
}

// New creates a Deduplicator with options.
func New(opts ...Option) (Deduplicator, error) {
	options, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}
	return &deduplicator{registry: options.registry}, nil
}

// Dedup implements Deduplicator.
func (d *deduplicator) Dedup(ctx context.Context, in *spec.Tree) (*spec.Tree, *spec.Report) {
	report := spec.NewReport(Pass)
	if in == nil {
		return nil, report
	}
	t := in.Clone()

	d.children(t, report)
	d.repeats(t, report)
	d.data(t, report)

	logging.FromContext(ctx).Debug().
		Str("root", t.Root).
		Int("fixes", report.Len()).
		Msg("Deduplicated tree")

	return t, report
}

// children keeps the first occurrence of every id in each children array.
func (d *deduplicator) children(t *spec.Tree, report *spec.Report) {
	for _, id := range t.IDs() {
		el := t.Elements[id]
		if len(el.Children) < 2 {
			continue
		}
		seen := make(map[string]bool, len(el.Children))
		kept := el.Children[:0]
		for _, child := range el.Children {
			if seen[child] {
				report.Addf(RuleChildren, id, "removed duplicate reference %q", child)
				continue
			}
			seen[child] = true
			kept = append(kept, child)
		}
		el.Children = kept
	}
}

// repeats drops later items of a repeated state array whose key field
// equals an earlier item's.
func (d *deduplicator) repeats(t *spec.Tree, report *spec.Report) {
	done := make(map[string]bool)
	for _, id := range t.IDs() {
		r := t.Elements[id].Repeat
		if r == nil || r.Key == "" || done[r.StatePath+"\x00"+r.Key] {
			continue
		}
		done[r.StatePath+"\x00"+r.Key] = true

		removed := d.filter(t, r.StatePath, func(item any) (string, bool) {
			obj, ok := spec.AsObject(item)
			if !ok {
				return "", false
			}
			v, ok := obj[r.Key]
			if !ok {
				return "", false
			}
			return canonical.Key(v)
		})
		if removed > 0 {
			report.Addf(RuleRepeat, r.StatePath, "removed %d items with a duplicate %q", removed, r.Key)
		}
	}
}

// data drops later entries of arrays bound wholesale by data-bearing
// elements that are deep-equal to an earlier entry.
func (d *deduplicator) data(t *spec.Tree, report *spec.Report) {
	paths := make(map[string]bool)
	for _, id := range t.IDs() {
		el := t.Elements[id]
		if !d.registry.Has(el.Type, kinds.DataBearing) {
			continue
		}
		for _, v := range el.Props {
			if b, ok := spec.AsBinding(v); ok {
				paths[b.Path] = true
			}
		}
	}

	sorted := make([]string, 0, len(paths))
	for p := range paths {
		sorted = append(sorted, p)
	}
	sort.Strings(sorted)

	for _, path := range sorted {
		removed := d.filter(t, path, canonical.Key)
		if removed > 0 {
			report.Addf(RuleData, path, "removed %d duplicate entries", removed)
		}
	}
}

// filter rewrites the state array at path without items whose identity was
// already seen and returns how many it removed. Items without an identity
// are kept.
func (d *deduplicator) filter(t *spec.Tree, path string, identity func(any) (string, bool)) int {
	v, ok := spec.Get(t.State, path)
	if !ok {
		return 0
	}
	items, ok := spec.AsArray(v)
	if !ok {
		return 0
	}

	seen := make(map[string]bool, len(items))
	kept := make([]any, 0, len(items))
	for _, item := range items {
		key, ok := identity(item)
		if ok && seen[key] {
			continue
		}
		if ok {
			seen[key] = true
		}
		kept = append(kept, item)
	}
	if len(kept) == len(items) {
		return 0
	}
	t.State = spec.Set(t.State, path, kept)
	return len(items) - len(kept)
}
