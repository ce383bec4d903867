// Package reconciler carries element identity from the previous turn's
// tree into a freshly generated one. Elements are matched greedily from the
// roots down; matched elements take their previous id so the renderer can
// keep their local state.
package reconciler

import (
	"context"
	"fmt"

	"github.com/agentstation/uispec/pkg/differ"
	"github.com/agentstation/uispec/pkg/errors"
	"github.com/agentstation/uispec/pkg/logging"
	"github.com/agentstation/uispec/pkg/provenance"
	"github.com/agentstation/uispec/pkg/spec"
	"github.com/agentstation/uispec/pkg/state"
)

// Reconciler is the main interface for reconciling two generations of a tree.
type Reconciler interface {
	// Reconcile remaps next onto the identities of previous and merges their
	// state. Neither input is modified.
	Reconcile(ctx context.Context, previous, next *spec.Tree) (*Result, error)
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	weights  Weights
	scorer   Scorer
	tracking bool
	differ   differ.Differ
}

// New creates a new Reconciler with options.
func New(opts ...Option) (Reconciler, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	scorer := options.scorer
	if scorer == nil {
		scorer = NewScorer(options.weights)
	}
	return &reconciler{
		weights:  options.weights,
		scorer:   scorer,
		tracking: options.tracking,
		differ:   differ.New(options.differOpts...),
	}, nil
}

// matchContext holds the state of one reconciliation.
type matchContext struct {
	previous *spec.Tree
	next     *spec.Tree
	mapping  map[string]string // new id -> previous id, matched elements only
	used     map[string]bool   // previous ids already claimed
}

// Reconcile implements Reconciler.
func (r *reconciler) Reconcile(ctx context.Context, previous, next *spec.Tree) (*Result, error) {
	logger := logging.FromContext(ctx)
	result := NewResult()
	result.Metadata.Weights = r.weights

	if next == nil {
		return nil, &errors.ValidationError{Field: "next", Message: "cannot be nil"}
	}
	if _, ok := next.Element(next.Root); !ok {
		return nil, &errors.ValidationError{Field: "next.root", Value: next.Root, Message: "root element is missing"}
	}

	var prevRoot *spec.Element
	hasPrev := false
	if previous != nil {
		prevRoot, hasPrev = previous.Element(previous.Root)
	}
	nextRoot := next.Elements[next.Root]
	if !hasPrev || prevRoot.Type != nextRoot.Type {
		result.Tree = next.Clone()
		result.Replaced = true
		for _, id := range next.IDs() {
			result.Mapping[id] = id
		}
		result.Metadata.Stats.Fresh = len(next.Elements)
		result.Changeset = r.differ.Trees(previous, result.Tree)
		result.Finalize()

		logger.Debug().
			Str("next_root", next.Root).
			Bool("has_previous", hasPrev).
			Int("fresh", result.Metadata.Stats.Fresh).
			Msg("Root type changed, taking new tree verbatim")
		return result, nil
	}

	mc := &matchContext{
		previous: previous,
		next:     next,
		mapping:  map[string]string{next.Root: previous.Root},
		used:     map[string]bool{previous.Root: true},
	}
	r.match(mc, next.Root, previous.Root)

	result.Mapping = r.assign(mc, &result.Metadata.Stats)

	var tracker provenance.Tracker
	if r.tracking {
		tracker = provenance.NewTracker(true)
	}
	result.Tree = remap(next, result.Mapping)
	result.Tree.State = state.MergeTracked(previous.State, next.State, tracker)
	if tracker != nil {
		result.Provenance = tracker.Map()
	}
	result.Changeset = r.differ.Trees(previous, result.Tree)
	result.Finalize()

	logger.Debug().
		Str("root", result.Tree.Root).
		Int("matched", result.Metadata.Stats.Matched).
		Int("fresh", result.Metadata.Stats.Fresh).
		Int("renamed", result.Metadata.Stats.Renamed).
		Int("changes", result.Changeset.Summary.TotalChanges).
		Msg("Reconciled tree")

	return result, nil
}

// match pairs the children of a matched parent pair greedily, in the new
// tree's child order, and recurses into every pair it makes.
func (r *reconciler) match(mc *matchContext, nextID, prevID string) {
	nextEl := mc.next.Elements[nextID]
	prevEl := mc.previous.Elements[prevID]

	for i, nc := range nextEl.Children {
		ncEl, ok := mc.next.Element(nc)
		if !ok {
			continue
		}
		if _, mapped := mc.mapping[nc]; mapped {
			continue
		}

		best, bestScore := "", -1
		for j, oc := range prevEl.Children {
			if mc.used[oc] {
				continue
			}
			ocEl, ok := mc.previous.Element(oc)
			if !ok {
				continue
			}
			score := r.scorer.Score(
				Candidate{ID: nc, Element: ncEl, Tree: mc.next, Position: i},
				Candidate{ID: oc, Element: ocEl, Tree: mc.previous, Position: j},
			)
			if score > bestScore {
				best, bestScore = oc, score
			}
		}
		if bestScore < 0 {
			continue
		}

		mc.mapping[nc] = best
		mc.used[best] = true
		r.match(mc, nc, best)
	}
}

// assign completes the mapping. Fresh elements keep their own id unless it
// names any previous element or a matched element already took it. Those
// get "<id>-<n>" with the lowest n free in both trees.
func (r *reconciler) assign(mc *matchContext, stats *ResultStatistics) map[string]string {
	mapping := make(map[string]string, len(mc.next.Elements))
	taken := make(map[string]bool, len(mc.next.Elements)+len(mc.previous.Elements))
	for nid, pid := range mc.mapping {
		mapping[nid] = pid
		taken[pid] = true
	}
	for pid := range mc.previous.Elements {
		taken[pid] = true
	}
	stats.Matched = len(mc.mapping)

	var fresh, colliding []string
	for _, id := range mc.next.IDs() {
		if _, matched := mapping[id]; matched {
			continue
		}
		fresh = append(fresh, id)
		if taken[id] {
			colliding = append(colliding, id)
		} else {
			mapping[id] = id
			taken[id] = true
		}
	}
	stats.Fresh = len(fresh)

	for _, id := range colliding {
		for n := 1; ; n++ {
			candidate := fmt.Sprintf("%s-%d", id, n)
			if !taken[candidate] {
				mapping[id] = candidate
				taken[candidate] = true
				break
			}
		}
		stats.Renamed++
	}
	return mapping
}

// remap rewrites element keys and children through mapping.
func remap(next *spec.Tree, mapping map[string]string) *spec.Tree {
	out := spec.NewTree(through(mapping, next.Root))
	for id, el := range next.Elements {
		if el == nil {
			continue
		}
		c := el.Clone()
		for i, child := range c.Children {
			c.Children[i] = through(mapping, child)
		}
		out.Elements[through(mapping, id)] = c
	}
	return out
}

func through(mapping map[string]string, id string) string {
	if mapped, ok := mapping[id]; ok {
		return mapped
	}
	return id
}
