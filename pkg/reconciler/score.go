package reconciler

import (
	"fmt"
	"slices"

	"golang.org/x/text/cases"

	"github.com/agentstation/uispec/pkg/errors"
	"github.com/agentstation/uispec/pkg/spec"
)

// Weights are the points a candidate earns per matching signal.
type Weights struct {
	Label      int `json:"label" yaml:"label" mapstructure:"label"`
	Binding    int `json:"binding" yaml:"binding" mapstructure:"binding"`
	ChildTypes int `json:"child_types" yaml:"child_types" mapstructure:"child_types"`
	Position   int `json:"position" yaml:"position" mapstructure:"position"`
}

// DefaultWeights returns the standard weights.
func DefaultWeights() Weights {
	return Weights{Label: 10, Binding: 5, ChildTypes: 3, Position: 2}
}

// Validate checks that the weights keep their relative order:
// Label > Binding > ChildTypes > Position >= 0.
func (w Weights) Validate() error {
	if w.Position < 0 || w.ChildTypes <= w.Position || w.Binding <= w.ChildTypes || w.Label <= w.Binding {
		return &errors.ValidationError{
			Field:   "weights",
			Value:   w,
			Message: fmt.Sprintf("must satisfy label > binding > child_types > position >= 0, got %d/%d/%d/%d", w.Label, w.Binding, w.ChildTypes, w.Position),
		}
	}
	return nil
}

// Candidate is one side of a scored pair: an element, its tree and its
// position among its siblings.
type Candidate struct {
	ID       string
	Element  *spec.Element
	Tree     *spec.Tree
	Position int
}

// Scorer rates how well an old element continues a new one. A negative
// score rejects the pair.
type Scorer interface {
	Score(next, prev Candidate) int
}

// weightedScorer scores by label, shared bindings, child types and position.
type weightedScorer struct {
	weights Weights
}

// NewScorer returns the weighted Scorer.
func NewScorer(weights Weights) Scorer {
	return &weightedScorer{weights: weights}
}

// Score implements Scorer.
func (s *weightedScorer) Score(next, prev Candidate) int {
	if next.Element.Type != prev.Element.Type {
		return -1
	}

	score := 0
	if sameLabel(next.Element, prev.Element) {
		score += s.weights.Label
	}

	prevPaths := spec.BindingPaths(prev.Element.Props)
	for _, p := range spec.BindingPaths(next.Element.Props) {
		if _, found := slices.BinarySearch(prevPaths, p); found {
			score += s.weights.Binding
		}
	}

	if slices.Equal(next.Tree.ChildTypes(next.ID), prev.Tree.ChildTypes(prev.ID)) {
		score += s.weights.ChildTypes
	}

	if next.Position == prev.Position {
		score += s.weights.Position
	}
	return score
}

// sameLabel reports whether any label prop present on both elements holds
// the same text.
func sameLabel(a, b *spec.Element) bool {
	for _, key := range spec.LabelProps {
		x, ok := spec.ScalarString(a.Props[key])
		if !ok {
			continue
		}
		if y, ok := spec.ScalarString(b.Props[key]); ok && sameText(x, y) {
			return true
		}
	}
	return false
}

// sameText compares under Unicode case folding.
func sameText(a, b string) bool {
	fold := cases.Fold()
	return fold.String(a) == fold.String(b)
}
