package repairer

import (
	"fmt"

	"github.com/agentstation/uispec/internal/canonical"
	"github.com/agentstation/uispec/pkg/kinds"
	"github.com/agentstation/uispec/pkg/spec"
)

var (
	seriesSources   = []string{"yKey", "yKeys", "dataKey", "dataKeys"}
	seriesKeyFields = []string{"key", "dataKey", "yKey", "field", "name"}
	seriesLabels    = []string{"label", "name", "title"}
)

// normalizeFields rewrites the list-like props of known kinds into their
// canonical item shape.
func (r *repairer) normalizeFields(t *spec.Tree, report *spec.Report) {
	for _, id := range t.IDs() {
		el := t.Elements[id]
		k, ok := r.registry.Lookup(el.Type)
		if !ok {
			continue
		}

		for _, alias := range k.PropAliases {
			if from, ok := renameField(el.Props, alias); ok {
				report.Addf(RuleFields, id, "renamed %q to %q", from, alias.Canonical)
			}
		}
		for _, shape := range k.Lists {
			normalizeList(id, el.Props, shape, report)
		}
		if k.Has(kinds.Series) {
			normalizeSeries(id, el.Props, report)
		}
	}
}

// renameField moves the first present variant onto the canonical name when
// the canonical name is absent.
func renameField(m map[string]any, alias kinds.FieldAlias) (string, bool) {
	if _, ok := m[alias.Canonical]; ok {
		return "", false
	}
	for _, variant := range alias.Variants {
		if variant == alias.Canonical {
			continue
		}
		if v, ok := m[variant]; ok && v != nil {
			m[alias.Canonical] = v
			delete(m, variant)
			return variant, true
		}
	}
	return "", false
}

func normalizeList(id string, props map[string]any, shape kinds.ListShape, report *spec.Report) {
	name := shape.Props[0]
	if _, ok := props[name]; !ok {
		for _, variant := range shape.Props[1:] {
			if _, isArray := spec.AsArray(props[variant]); isArray {
				props[name] = props[variant]
				delete(props, variant)
				report.Addf(RuleFields, id, "renamed %q to %q", variant, name)
				break
			}
		}
	}

	items, ok := spec.AsArray(props[name])
	if !ok {
		return
	}
	out := make([]any, 0, len(items))
	for _, item := range items {
		if normalized, ok := normalizeItem(item, shape); ok {
			out = append(out, normalized)
		}
	}
	if !canonical.Equal(items, out) {
		props[name] = out
		report.Addf(RuleFields, id, "normalized %d %s items", len(out), name)
	}
}

// normalizeItem reshapes one list item. Items that are neither objects nor
// scalars are dropped.
func normalizeItem(item any, shape kinds.ListShape) (any, bool) {
	if s, ok := spec.ScalarString(item); ok {
		obj := make(map[string]any, len(shape.Bare))
		for _, field := range shape.Bare {
			obj[field] = s
		}
		mirror(obj, shape.Mirror)
		return obj, true
	}

	obj, ok := spec.AsObject(item)
	if !ok {
		return nil, false
	}
	obj = spec.CloneMap(obj)
	for _, alias := range shape.Fields {
		renameField(obj, alias)
	}
	mirror(obj, shape.Mirror)
	return obj, true
}

func mirror(obj map[string]any, pair [2]string) {
	a, b := pair[0], pair[1]
	if a == "" || b == "" {
		return
	}
	_, hasA := obj[a]
	_, hasB := obj[b]
	switch {
	case hasA && !hasB:
		obj[b] = obj[a]
	case hasB && !hasA:
		obj[a] = obj[b]
	}
}

// normalizeSeries folds the chart series variants into series: [{key, label}].
func normalizeSeries(id string, props map[string]any, report *spec.Report) {
	var keys []any
	switch v := props["series"].(type) {
	case nil:
	case string:
		keys = append(keys, v)
	default:
		arr, ok := spec.AsArray(v)
		if !ok {
			return
		}
		keys = append(keys, arr...)
	}

	var folded []string
	for _, src := range seriesSources {
		v, ok := props[src]
		if !ok {
			continue
		}
		if arr, isArray := spec.AsArray(v); isArray {
			keys = append(keys, arr...)
		} else if _, isScalar := spec.ScalarString(v); isScalar {
			keys = append(keys, v)
		} else {
			continue
		}
		delete(props, src)
		folded = append(folded, src)
	}
	if len(keys) == 0 {
		return
	}

	seen := make(map[string]bool)
	series := make([]any, 0, len(keys))
	for _, k := range keys {
		entry, ok := seriesEntry(k)
		if !ok {
			continue
		}
		key := entry["key"].(string)
		if seen[key] {
			continue
		}
		seen[key] = true
		series = append(series, entry)
	}

	before := props["series"]
	props["series"] = series
	if len(folded) > 0 {
		report.Addf(RuleFields, id, "folded %v into series", folded)
	} else if !canonical.Equal(before, series) {
		report.Add(RuleFields, id, fmt.Sprintf("normalized %d series", len(series)))
	}
}

func seriesEntry(v any) (map[string]any, bool) {
	if s, ok := spec.ScalarString(v); ok {
		if s == "" {
			return nil, false
		}
		return map[string]any{"key": s, "label": s}, true
	}
	obj, ok := spec.AsObject(v)
	if !ok {
		return nil, false
	}
	key, from, ok := spec.FirstString(obj, seriesKeyFields...)
	if !ok {
		return nil, false
	}
	entry := spec.CloneMap(obj)
	if from != "key" {
		delete(entry, from)
	}
	entry["key"] = key
	if label, lfrom, ok := spec.FirstString(entry, seriesLabels...); ok {
		if lfrom != "label" {
			delete(entry, lfrom)
		}
		entry["label"] = label
	} else {
		entry["label"] = key
	}
	return entry, true
}
