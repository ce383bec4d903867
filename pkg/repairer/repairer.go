// Package repairer makes a sanitized tree structurally consistent. It
// normalizes prop shapes, resolves dangling references by the id naming
// conventions generators follow, synthesizes missing tab groups and
// wrappers, and attaches whatever is still unreachable to the root.
package repairer

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/uispec/pkg/kinds"
	"github.com/agentstation/uispec/pkg/logging"
	"github.com/agentstation/uispec/pkg/spec"
)

// Pass is the report pass name of the repairer.
const Pass = "repair"

// Report rules, in the order they are applied.
const (
	RuleFields  = "fields"
	RuleGeo     = "geo"
	RuleSuffix  = "suffix"
	RuleTabs    = "tabs"
	RuleWrapper = "wrapper"
	RuleAttach  = "attach"
	RulePrune   = "prune"
)

// Repairer repairs sanitized trees.
type Repairer interface {
	// Repair returns a repaired copy of t and the fixes it applied.
	// The input tree is not modified.
	Repair(ctx context.Context, t *spec.Tree) (*spec.Tree, *spec.Report)
}

type repairer struct {
	registry          *kinds.Registry
	referenceSuffixes []string
	tabGroupSuffixes  []string
	wrapperSuffixes   []string
}

// New creates a Repairer with options.
func New(opts ...Option) (Repairer, error) {
	options, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}
	return &repairer{
		registry:          options.registry,
		referenceSuffixes: options.referenceSuffixes,
		tabGroupSuffixes:  options.tabGroupSuffixes,
		wrapperSuffixes:   options.wrapperSuffixes,
	}, nil
}

// Repair implements Repairer.
func (r *repairer) Repair(ctx context.Context, in *spec.Tree) (*spec.Tree, *spec.Report) {
	report := spec.NewReport(Pass)
	if in == nil {
		return nil, report
	}
	t := in.Clone()

	r.normalizeFields(t, report)
	r.normalizeGeo(t, report)
	r.resolveSuffixes(t, report)
	r.synthesizeTabs(t, report)
	r.synthesizeWrappers(t, report)
	r.attachOrphans(t, report)
	r.pruneDangling(t, report)

	logging.FromContext(ctx).Debug().
		Str("root", t.Root).
		Int("elements", len(t.Elements)).
		Int("fixes", report.Len()).
		Msg("Repaired tree")

	return t, report
}

// resolveSuffixes rewrites references to a missing id onto an unreferenced
// element whose id is the missing id plus a known suffix.
func (r *repairer) resolveSuffixes(t *spec.Tree, report *spec.Report) {
	for _, missing := range t.Dangling() {
		refs := t.Referenced()
		for _, suffix := range r.referenceSuffixes {
			candidate := missing + suffix
			if _, ok := t.Element(candidate); !ok || refs[candidate] || candidate == t.Root {
				continue
			}
			n := t.ReplaceReference(missing, candidate)
			report.Addf(RuleSuffix, missing, "rewrote %d references to %q", n, candidate)
			break
		}
	}
}

// synthesizeTabs creates a Tabs element for a missing tab-group id from the
// unreachable TabContent elements sharing its prefix.
func (r *repairer) synthesizeTabs(t *spec.Tree, report *spec.Report) {
	for _, missing := range t.Dangling() {
		prefix, ok := trimSuffix(missing, r.tabGroupSuffixes)
		if !ok {
			continue
		}

		var panels []string
		for _, id := range r.group(t, prefix, missing) {
			if r.registry.Has(t.Elements[id].Type, kinds.TabContent) {
				panels = append(panels, id)
			}
		}
		if len(panels) == 0 {
			continue
		}

		caser := cases.Title(language.English)
		tabs := make([]any, 0, len(panels))
		for _, id := range panels {
			panel := t.Elements[id]
			value, ok := spec.ScalarString(panel.Props["value"])
			if !ok || value == "" {
				value = strings.TrimPrefix(id, prefix+"-")
				panel.Props["value"] = value
			}
			tabs = append(tabs, map[string]any{
				"value": value,
				"label": caser.String(humanize(value)),
			})
		}

		props := map[string]any{"tabs": tabs}
		if first, ok := tabs[0].(map[string]any); ok {
			props["defaultValue"] = first["value"]
		}
		t.Elements[missing] = &spec.Element{Type: "Tabs", Props: props, Children: panels}
		report.Addf(RuleTabs, missing, "synthesized Tabs over %v", panels)
	}
}

// synthesizeWrappers creates a container for a missing wrapper id from the
// top-most unreachable elements sharing its prefix.
func (r *repairer) synthesizeWrappers(t *spec.Tree, report *spec.Report) {
	for _, missing := range t.Dangling() {
		suffix, ok := matchSuffix(missing, r.wrapperSuffixes)
		if !ok {
			continue
		}
		prefix := strings.TrimSuffix(missing, suffix)
		members := r.group(t, prefix, missing)
		if len(members) == 0 {
			continue
		}

		typ := "Stack"
		if suffix == "-card" {
			typ = "Card"
		}
		props := make(map[string]any)
		for _, id := range members {
			if el := t.Elements[id]; r.registry.IsHeadingLike(el) {
				if title, ok := el.Label(); ok {
					props["title"] = title
				}
				break
			}
		}
		t.Elements[missing] = &spec.Element{Type: typ, Props: props, Children: members}
		report.Addf(RuleWrapper, missing, "synthesized %s over %v", typ, members)
	}
}

// group returns, in natural order, the unreachable elements whose id starts
// with prefix+"-" and that no element references. Elements whose subtree
// already references parent are left out so adopting them cannot close a
// cycle.
func (r *repairer) group(t *spec.Tree, prefix, parent string) []string {
	reachable := t.Reachable()
	refs := t.Referenced()
	var members []string
	for _, id := range t.IDs() {
		if reachable[id] || refs[id] || id == t.Root {
			continue
		}
		if strings.HasPrefix(id, prefix+"-") && !t.Reaches(id, parent) {
			members = append(members, id)
		}
	}
	return members
}

// attachOrphans appends every unreachable element to root's children,
// top-most elements first.
func (r *repairer) attachOrphans(t *spec.Tree, report *spec.Report) {
	root, ok := t.Element(t.Root)
	if !ok {
		return
	}
	for {
		reachable := t.Reachable()
		if len(reachable) == len(t.Elements) {
			return
		}
		refs := t.Referenced()

		var unreachable, topmost []string
		for _, id := range t.IDs() {
			if reachable[id] {
				continue
			}
			unreachable = append(unreachable, id)
			if !refs[id] {
				topmost = append(topmost, id)
			}
		}
		if len(unreachable) == 0 {
			return
		}
		if len(topmost) == 0 {
			topmost = unreachable[:1]
		}
		for _, id := range topmost {
			root.Children = append(root.Children, id)
			report.Add(RuleAttach, id, "attached to root")
		}
	}
}

// pruneDangling removes references no rule could resolve.
func (r *repairer) pruneDangling(t *spec.Tree, report *spec.Report) {
	for _, id := range t.IDs() {
		el := t.Elements[id]
		if len(el.Children) == 0 {
			continue
		}
		kept := el.Children[:0]
		for _, child := range el.Children {
			if _, ok := t.Element(child); !ok {
				report.Addf(RulePrune, id, "removed unresolved reference %q", child)
				continue
			}
			kept = append(kept, child)
		}
		el.Children = kept
	}
}

func matchSuffix(id string, suffixes []string) (string, bool) {
	for _, s := range suffixes {
		if strings.HasSuffix(id, s) && len(id) > len(s) {
			return s, true
		}
	}
	return "", false
}

func trimSuffix(id string, suffixes []string) (string, bool) {
	s, ok := matchSuffix(id, suffixes)
	if !ok {
		return "", false
	}
	return strings.TrimSuffix(id, s), true
}

func humanize(s string) string {
	return strings.NewReplacer("-", " ", "_", " ").Replace(s)
}
