package sanitizer

import (
	"fmt"

	"github.com/agentstation/uispec/pkg/spec"
)

type color int

const (
	white color = iota
	gray
	black
)

// backEdge is a children reference from parent that re-enters an element
// still on the walk stack.
type backEdge struct {
	parent string
	child  string
}

// breakCycles removes every cycle from t and returns the ids it dropped.
// References back to root are cut first; after that the element a back
// edge re-enters is dropped.
func breakCycles(t *spec.Tree, report *spec.Report) []string {
	for _, id := range t.IDs() {
		el := t.Elements[id]
		kept := el.Children[:0]
		for _, c := range el.Children {
			if c == t.Root {
				report.Add(RuleCutCycle, id, "removed reference to root")
				continue
			}
			kept = append(kept, c)
		}
		el.Children = kept
	}

	var dropped []string
	for {
		edge, ok := findBackEdge(t)
		if !ok {
			return dropped
		}
		delete(t.Elements, edge.child)
		dropped = append(dropped, edge.child)
		report.Add(RuleCycle, edge.child, fmt.Sprintf("re-entered from %q", edge.parent))

		// Later walks must not follow references to the dropped element.
		for _, el := range t.Elements {
			kept := el.Children[:0]
			for _, c := range el.Children {
				if c != edge.child {
					kept = append(kept, c)
				}
			}
			el.Children = kept
		}
	}
}

// findBackEdge walks from root and then from every unvisited id in natural
// order, returning the first back edge found.
func findBackEdge(t *spec.Tree) (backEdge, bool) {
	colors := make(map[string]color, len(t.Elements))

	var visit func(id string) (backEdge, bool)
	visit = func(id string) (backEdge, bool) {
		colors[id] = gray
		el := t.Elements[id]
		for _, child := range el.Children {
			if _, ok := t.Elements[child]; !ok {
				continue
			}
			switch colors[child] {
			case gray:
				return backEdge{parent: id, child: child}, true
			case white:
				if edge, ok := visit(child); ok {
					return edge, true
				}
			}
		}
		colors[id] = black
		return backEdge{}, false
	}

	starts := append([]string{t.Root}, t.IDs()...)
	for _, id := range starts {
		if _, ok := t.Elements[id]; !ok || colors[id] != white {
			continue
		}
		if edge, ok := visit(id); ok {
			return edge, true
		}
	}
	return backEdge{}, false
}
