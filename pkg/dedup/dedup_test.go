package dedup

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/uispec/pkg/spec"
)

func newDeduplicator(t *testing.T) Deduplicator {
	t.Helper()
	d, err := New()
	require.NoError(t, err)
	return d
}

func TestNewRejectsNilRegistry(t *testing.T) {
	_, err := New(WithRegistry(nil))
	assert.Error(t, err)
}

func TestDedupChildren(t *testing.T) {
	in := spec.NewTree("main")
	in.Elements["main"] = &spec.Element{Type: "Stack", Props: map[string]any{}, Children: []string{"grid1"}}
	in.Elements["grid1"] = &spec.Element{Type: "Grid", Props: map[string]any{}, Children: []string{"card-a", "card-a", "card-b"}}
	in.Elements["card-a"] = &spec.Element{Type: "Card", Props: map[string]any{}}
	in.Elements["card-b"] = &spec.Element{Type: "Card", Props: map[string]any{}}

	out, report := newDeduplicator(t).Dedup(context.Background(), in)

	assert.Equal(t, []string{"card-a", "card-b"}, out.Elements["grid1"].Children)
	assert.Equal(t, []string{"card-a", "card-a", "card-b"}, in.Elements["grid1"].Children)
	assert.Len(t, report.ByRule(RuleChildren), 1)
}

func TestDedupRepeatKey(t *testing.T) {
	in := spec.NewTree("main")
	in.Elements["main"] = &spec.Element{Type: "Stack", Props: map[string]any{}, Children: []string{"row"}}
	in.Elements["row"] = &spec.Element{
		Type:   "Card",
		Props:  map[string]any{},
		Repeat: &spec.Repeat{StatePath: "/cities", Key: "id"},
	}
	in.State = map[string]any{
		"cities": []any{
			map[string]any{"id": "nyc", "temp": 20.0},
			map[string]any{"id": "sf", "temp": 15.0},
			map[string]any{"id": "nyc", "temp": 21.0},
			map[string]any{"name": "no key"},
			"loose",
		},
	}

	out, report := newDeduplicator(t).Dedup(context.Background(), in)

	assert.Equal(t, []any{
		map[string]any{"id": "nyc", "temp": 20.0},
		map[string]any{"id": "sf", "temp": 15.0},
		map[string]any{"name": "no key"},
		"loose",
	}, out.State["cities"])
	fixes := report.ByRule(RuleRepeat)
	require.Len(t, fixes, 1)
	assert.Equal(t, "/cities", fixes[0].Target)
}

func TestDedupDataBearing(t *testing.T) {
	in := spec.NewTree("main")
	in.Elements["main"] = &spec.Element{Type: "Stack", Props: map[string]any{}, Children: []string{"table", "text"}}
	in.Elements["table"] = &spec.Element{
		Type:  "Table",
		Props: map[string]any{"data": map[string]any{"$state": "/market/rows"}},
	}
	in.Elements["text"] = &spec.Element{
		Type:  "Text",
		Props: map[string]any{"items": map[string]any{"$state": "/notes"}},
	}
	in.State = map[string]any{
		"market": map[string]any{
			"rows": []any{
				map[string]any{"a": 1.0, "b": 2.0},
				map[string]any{"b": 2.0, "a": 1.0},
				map[string]any{"a": 1.0, "b": 3.0},
			},
		},
		"notes": []any{"x", "x"},
	}

	out, report := newDeduplicator(t).Dedup(context.Background(), in)

	rows, ok := spec.Get(out.State, "/market/rows")
	require.True(t, ok)
	assert.Equal(t, []any{
		map[string]any{"a": 1.0, "b": 2.0},
		map[string]any{"a": 1.0, "b": 3.0},
	}, rows)
	assert.Equal(t, []any{"x", "x"}, out.State["notes"], "only data-bearing bindings are deduplicated")
	assert.Len(t, report.ByRule(RuleData), 1)

	original, _ := spec.Get(in.State, "/market/rows")
	assert.Len(t, original, 3)
}

func TestDedupIsIdempotent(t *testing.T) {
	d := newDeduplicator(t)
	ctx := context.Background()

	in := spec.NewTree("main")
	in.Elements["main"] = &spec.Element{Type: "Stack", Props: map[string]any{}, Children: []string{"chart", "chart"}}
	in.Elements["chart"] = &spec.Element{
		Type:  "BarChart",
		Props: map[string]any{"data": map[string]any{"$bindState": "/series"}},
	}
	in.State = map[string]any{"series": []any{1.0, 1.0, 2.0}}

	once, _ := d.Dedup(ctx, in)
	twice, report := d.Dedup(ctx, once)

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("second dedup changed the tree (-once +twice):\n%s", diff)
	}
	assert.True(t, report.Empty())
	assert.Equal(t, []any{1.0, 2.0}, once.State["series"])
}
