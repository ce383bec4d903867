package pipeline

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/uispec/pkg/provenance"
	"github.com/agentstation/uispec/pkg/reconciler"
	"github.com/agentstation/uispec/pkg/spec"
	"github.com/agentstation/uispec/pkg/state"
)

func newPipeline(t *testing.T, opts ...Option) Pipeline {
	t.Helper()
	p, err := New(opts...)
	require.NoError(t, err)
	return p
}

func element(typ string, props map[string]any, children ...any) map[string]any {
	if props == nil {
		props = map[string]any{}
	}
	el := map[string]any{"type": typ, "props": props}
	if len(children) > 0 {
		el["children"] = children
	}
	return el
}

func TestNewOptions(t *testing.T) {
	_, err := New(WithRegistry(nil))
	assert.Error(t, err)
	_, err = New(WithSanitizer(nil))
	assert.Error(t, err)
	_, err = New(WithReconciler(nil))
	assert.Error(t, err)
	_, err = New(WithWeights(reconciler.Weights{Label: 1, Binding: 2}))
	assert.Error(t, err)
	_, err = New(WithWeights(reconciler.DefaultWeights()), WithProvenance(true))
	assert.NoError(t, err)
}

func TestRunNone(t *testing.T) {
	result, err := newPipeline(t).Run(context.Background(), Input{Next: spec.Raw{"root": ""}})
	require.NoError(t, err)
	assert.Equal(t, OutcomeNone, result.Outcome)
	assert.False(t, result.HasTree())
	assert.Equal(t, "No tree", result.Summary())

	result, err = newPipeline(t).Run(context.Background(), Input{})
	require.NoError(t, err)
	assert.Equal(t, OutcomeNone, result.Outcome)
}

func TestRunFresh(t *testing.T) {
	raw := spec.Raw{
		"root": "main",
		"elements": map[string]any{
			"main":   element("Stack", nil, "card-a", "card-a", "card-b"),
			"card-a": element("Card", map[string]any{"title": "A"}),
			"card-b": element("Card", map[string]any{"title": "B"}),
		},
	}

	result, err := newPipeline(t).Run(context.Background(), Input{Next: raw})
	require.NoError(t, err)

	assert.Equal(t, OutcomeFresh, result.Outcome)
	assert.Equal(t, []string{"card-a", "card-b"}, result.Tree.Elements["main"].Children)
	require.Len(t, result.Reports, 3)
	assert.Equal(t, "sanitize", result.Reports[0].Pass)
	assert.Equal(t, "repair", result.Reports[1].Pass)
	assert.Equal(t, "dedup", result.Reports[2].Pass)
	assert.Len(t, result.Changeset.Elements.Added, 3)
	assert.Nil(t, result.Mapping)
	assert.Contains(t, result.Summary(), "fresh: 3 elements")
}

func TestRunRepairsMissingWrapper(t *testing.T) {
	raw := spec.Raw{
		"root": "main",
		"elements": map[string]any{
			"main":            element("Stack", nil, "weather-card"),
			"weather-header":  element("Heading", map[string]any{"text": "Weather"}),
			"weather-metrics": element("Metric", map[string]any{"label": "Temp", "value": 20}),
		},
	}

	result, err := newPipeline(t).Run(context.Background(), Input{Next: raw})
	require.NoError(t, err)

	card, ok := result.Tree.Element("weather-card")
	require.True(t, ok)
	assert.Equal(t, "Card", card.Type)
	assert.Equal(t, []string{"weather-header", "weather-metrics"}, card.Children)
	assert.Empty(t, result.Tree.Dangling())
	assert.Len(t, result.Tree.Reachable(), len(result.Tree.Elements))
}

func TestRunReconciled(t *testing.T) {
	previous := &spec.Tree{
		Root: "card1",
		Elements: map[string]*spec.Element{
			"card1": {Type: "Card", Props: map[string]any{"title": "NYC"}, Children: []string{"m1"}},
			"m1":    {Type: "Metric", Props: map[string]any{"label": "Temp", "value": 20.0}},
		},
		State: map[string]any{"activeRange": "5d"},
	}
	raw := spec.Raw{
		"root": "weather",
		"elements": map[string]any{
			"weather": element("Card", map[string]any{"title": "NYC"}, "temp"),
			"temp":    element("Metric", map[string]any{"label": "Temp", "value": 25.0}),
		},
		"state": map[string]any{"prices": map[string]any{"1d": []any{1.0, 2.0}}},
	}

	result, err := newPipeline(t).Run(context.Background(), Input{Next: raw, Previous: previous})
	require.NoError(t, err)

	assert.Equal(t, OutcomeReconciled, result.Outcome)
	assert.Equal(t, "card1", result.Tree.Root)
	assert.Equal(t, 25.0, result.Tree.Elements["m1"].Props["value"])
	assert.Equal(t, map[string]string{"weather": "card1", "temp": "m1"}, result.Mapping)
	assert.Equal(t, "5d", result.Tree.State["activeRange"])
	assert.Contains(t, result.Tree.State, "prices")
	assert.Len(t, result.Reports, 5)

	require.Len(t, result.Changeset.Elements.Updated, 1)
	assert.Equal(t, "m1", result.Changeset.Elements.Updated[0].ID)
	assert.Empty(t, result.Changeset.Elements.Added)
	assert.Empty(t, result.Changeset.Elements.Removed)
}

func TestRunRootTypeMismatch(t *testing.T) {
	previous := &spec.Tree{
		Root:     "main",
		Elements: map[string]*spec.Element{"main": {Type: "Stack", Props: map[string]any{}}},
		State:    map[string]any{},
	}
	raw := spec.Raw{
		"root":     "main",
		"elements": map[string]any{"main": element("Tabs", nil)},
	}

	result, err := newPipeline(t).Run(context.Background(), Input{Next: raw, Previous: previous})
	require.NoError(t, err)
	assert.Equal(t, OutcomeReconciled, result.Outcome)
	assert.Equal(t, "Tabs", result.Tree.Elements["main"].Type)
	require.Len(t, result.Changeset.Elements.Updated, 1)
}

func TestRunFallback(t *testing.T) {
	previous := &spec.Tree{
		Root: "main",
		Elements: map[string]*spec.Element{
			"main": {Type: "Stack", Props: map[string]any{}, Children: []string{"a"}},
			"a":    {Type: "Text", Props: map[string]any{"text": "hi"}},
		},
		State: map[string]any{"n": 1.0},
	}

	result, err := newPipeline(t).Run(context.Background(), Input{
		Next:     spec.Raw{"elements": map[string]any{}},
		Previous: previous,
	})
	require.NoError(t, err)

	assert.Equal(t, OutcomeFallback, result.Outcome)
	if diff := cmp.Diff(previous, result.Tree); diff != "" {
		t.Errorf("fallback changed a consistent tree (-want +got):\n%s", diff)
	}
	assert.False(t, result.Changeset.HasChanges())
}

func TestRunAppliesLiveState(t *testing.T) {
	previous := &spec.Tree{
		Root:     "main",
		Elements: map[string]*spec.Element{"main": {Type: "Stack", Props: map[string]any{}}},
		State:    map[string]any{"activeRange": "5d"},
	}
	raw := spec.Raw{
		"root":     "main",
		"elements": map[string]any{"main": element("Stack", nil)},
		"state":    map[string]any{"activeRange": "1d", "other": true},
	}
	live := state.NewLive(state.Write{Path: "/activeRange", Value: "1m"})

	result, err := newPipeline(t, WithProvenance(true)).Run(context.Background(), Input{
		Next:     raw,
		Previous: previous,
		Live:     live,
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"activeRange": "1m", "other": true}, result.Tree.State)
	history := result.Provenance["/activeRange"]
	require.NotEmpty(t, history)
	assert.Equal(t, provenance.SourceLive, history[len(history)-1].Source)
	assert.Equal(t, provenance.SourceGenerated, result.Provenance["/other"][0].Source)
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newPipeline(t).Run(ctx, Input{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunDoesNotModifyInputs(t *testing.T) {
	previous := &spec.Tree{
		Root:     "main",
		Elements: map[string]*spec.Element{"main": {Type: "Stack", Props: map[string]any{}, Children: []string{"ghost"}}},
		State:    map[string]any{"a": 1.0},
	}
	before := previous.Clone()

	_, err := newPipeline(t).Run(context.Background(), Input{Previous: previous})
	require.NoError(t, err)
	if diff := cmp.Diff(before, previous); diff != "" {
		t.Errorf("previous tree modified (-want +got):\n%s", diff)
	}
}
