package repairer

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/uispec/pkg/spec"
)

func newRepairer(t *testing.T, opts ...Option) Repairer {
	t.Helper()
	r, err := New(opts...)
	require.NoError(t, err)
	return r
}

func el(typ string, props map[string]any, children ...string) *spec.Element {
	if props == nil {
		props = map[string]any{}
	}
	return &spec.Element{Type: typ, Props: props, Children: children}
}

func tree(root string, elements map[string]*spec.Element) *spec.Tree {
	t := spec.NewTree(root)
	t.Elements = elements
	return t
}

func assertConsistent(t *testing.T, tr *spec.Tree) {
	t.Helper()
	assert.Empty(t, tr.Dangling(), "dangling references")
	assert.Len(t, tr.Reachable(), len(tr.Elements), "unreachable elements")
}

func assertAcyclic(t *testing.T, tr *spec.Tree) {
	t.Helper()
	state := make(map[string]int)
	var visit func(id string) bool
	visit = func(id string) bool {
		switch state[id] {
		case 1:
			return false
		case 2:
			return true
		}
		state[id] = 1
		if el, ok := tr.Element(id); ok {
			for _, child := range el.Children {
				if !visit(child) {
					t.Errorf("cycle through %s -> %s", id, child)
					return false
				}
			}
		}
		state[id] = 2
		return true
	}
	for _, id := range tr.IDs() {
		visit(id)
	}
}

func TestNewOptions(t *testing.T) {
	_, err := New(WithRegistry(nil))
	assert.Error(t, err)
	_, err = New(WithWrapperSuffixes("-card", ""))
	assert.Error(t, err)
	_, err = New(WithReferenceSuffixes("-outer"))
	assert.NoError(t, err)
}

func TestRepairMissingWrapper(t *testing.T) {
	in := tree("main", map[string]*spec.Element{
		"main":            el("Stack", nil, "grid1"),
		"grid1":           el("Grid", nil, "weather-card", "stocks"),
		"stocks":          el("Text", map[string]any{"text": "AAPL"}),
		"weather-header":  el("Heading", map[string]any{"text": "Weather in NYC"}),
		"weather-metrics": el("Metric", map[string]any{"value": map[string]any{"$state": "/temp"}}),
	})

	out, report := newRepairer(t).Repair(context.Background(), in)

	card, ok := out.Element("weather-card")
	require.True(t, ok)
	assert.Equal(t, "Card", card.Type)
	assert.Equal(t, []string{"weather-header", "weather-metrics"}, card.Children)
	assert.Equal(t, "Weather in NYC", card.Props["title"])
	assert.Equal(t, []string{"weather-card", "stocks"}, out.Elements["grid1"].Children)
	assert.Len(t, report.ByRule(RuleWrapper), 1)
	assert.Empty(t, report.ByRule(RuleAttach))
	assertConsistent(t, out)

	_, ok = in.Element("weather-card")
	assert.False(t, ok, "input must not be modified")
}

func TestRepairWrapperSkipsMembersPointingAtIt(t *testing.T) {
	in := tree("main", map[string]*spec.Element{
		"main":           el("Stack", nil, "weather-card"),
		"weather-body":   el("Stack", nil, "weather-card", "weather-temp"),
		"weather-header": el("Heading", map[string]any{"text": "Weather"}),
		"weather-temp":   el("Metric", nil),
	})

	out, _ := newRepairer(t).Repair(context.Background(), in)

	card, ok := out.Element("weather-card")
	require.True(t, ok)
	assert.Equal(t, []string{"weather-header"}, card.Children)
	assert.Empty(t, out.Dangling())
	assertAcyclic(t, out)
}

func TestRepairTabsSkipPanelsPointingAtGroup(t *testing.T) {
	in := tree("main", map[string]*spec.Element{
		"main":       el("Stack", nil, "range-tabs"),
		"range-day":  el("TabContent", map[string]any{"value": "day"}, "range-tabs"),
		"range-week": el("TabContent", map[string]any{"value": "week"}),
	})

	out, _ := newRepairer(t).Repair(context.Background(), in)

	tabs, ok := out.Element("range-tabs")
	require.True(t, ok)
	assert.Equal(t, []string{"range-week"}, tabs.Children)
	assert.Empty(t, out.Dangling())
	assertAcyclic(t, out)
}

func TestRepairWrapperTypeFromSuffix(t *testing.T) {
	in := tree("main", map[string]*spec.Element{
		"main":          el("Stack", nil, "stats-section"),
		"stats-item-10": el("Metric", nil),
		"stats-item-2":  el("Metric", nil),
	})

	out, _ := newRepairer(t).Repair(context.Background(), in)

	wrapper := out.Elements["stats-section"]
	require.NotNil(t, wrapper)
	assert.Equal(t, "Stack", wrapper.Type)
	assert.Equal(t, []string{"stats-item-2", "stats-item-10"}, wrapper.Children)
	assert.NotContains(t, wrapper.Props, "title")
}

func TestRepairSuffixRename(t *testing.T) {
	in := tree("main", map[string]*spec.Element{
		"main":              el("Stack", nil, "chart", "other"),
		"other":             el("Card", nil, "chart"),
		"chart-container":   el("Card", nil, "chart-inner"),
		"chart-inner":       el("LineChart", nil),
		"chart-section-pad": el("Text", nil),
	})

	out, report := newRepairer(t).Repair(context.Background(), in)

	assert.Equal(t, []string{"chart-container", "other", "chart-section-pad"}, out.Elements["main"].Children)
	assert.Equal(t, []string{"chart-container"}, out.Elements["other"].Children)
	fixes := report.ByRule(RuleSuffix)
	require.Len(t, fixes, 1)
	assert.Equal(t, "chart", fixes[0].Target)
	assertConsistent(t, out)
}

func TestRepairSuffixBeforeWrapper(t *testing.T) {
	in := tree("main", map[string]*spec.Element{
		"main":                el("Stack", nil, "summary-card"),
		"summary-card-inner":  el("Card", nil),
		"summary-card-footer": el("Text", nil),
	})

	out, report := newRepairer(t).Repair(context.Background(), in)

	assert.Equal(t, []string{"summary-card-inner", "summary-card-footer"}, out.Elements["main"].Children)
	assert.Len(t, report.ByRule(RuleSuffix), 1)
	assert.Empty(t, report.ByRule(RuleWrapper))
	assert.Len(t, report.ByRule(RuleAttach), 1)
}

func TestRepairTabGroup(t *testing.T) {
	in := tree("main", map[string]*spec.Element{
		"main":            el("Stack", nil, "range-tabs"),
		"range-day":       el("TabContent", map[string]any{"value": "day"}),
		"range-last-week": el("TabContent", nil),
		"range-title":     el("Heading", map[string]any{"text": "Range"}),
	})

	out, report := newRepairer(t).Repair(context.Background(), in)

	tabs := out.Elements["range-tabs"]
	require.NotNil(t, tabs)
	assert.Equal(t, "Tabs", tabs.Type)
	assert.Equal(t, []string{"range-day", "range-last-week"}, tabs.Children)
	assert.Equal(t, []any{
		map[string]any{"value": "day", "label": "Day"},
		map[string]any{"value": "last-week", "label": "Last Week"},
	}, tabs.Props["tabs"])
	assert.Equal(t, "day", tabs.Props["defaultValue"])
	assert.Equal(t, "last-week", out.Elements["range-last-week"].Props["value"])

	assert.Len(t, report.ByRule(RuleTabs), 1)
	assert.Equal(t, []string{"range-tabs", "range-title"}, out.Elements["main"].Children)
	assertConsistent(t, out)
}

func TestRepairAttachesTopMostOrphans(t *testing.T) {
	in := tree("main", map[string]*spec.Element{
		"main":    el("Stack", nil, "ghost"),
		"panel":   el("Card", nil, "inner"),
		"inner":   el("Text", nil),
		"floater": el("Text", nil),
	})

	out, report := newRepairer(t).Repair(context.Background(), in)

	assert.Equal(t, []string{"floater", "panel"}, out.Elements["main"].Children)
	assert.Equal(t, []string{"inner"}, out.Elements["panel"].Children)
	assert.Len(t, report.ByRule(RuleAttach), 2)
	assert.Len(t, report.ByRule(RulePrune), 1)
	assertConsistent(t, out)
}

func TestRepairTableColumns(t *testing.T) {
	in := tree("main", map[string]*spec.Element{
		"main": el("Table", map[string]any{
			"columns": []any{
				"symbol",
				map[string]any{"accessorKey": "price", "header": "Price"},
				map[string]any{"field": "change"},
				map[string]any{"title": "Volume"},
				42.0,
				[]any{"nested"},
			},
		}),
	})

	out, report := newRepairer(t).Repair(context.Background(), in)

	assert.Equal(t, []any{
		map[string]any{"key": "symbol", "label": "symbol"},
		map[string]any{"key": "price", "label": "Price"},
		map[string]any{"key": "change", "label": "change"},
		map[string]any{"key": "Volume", "label": "Volume"},
		map[string]any{"key": "42", "label": "42"},
	}, out.Elements["main"].Props["columns"])
	assert.Len(t, report.ByRule(RuleFields), 1)
}

func TestRepairListVariants(t *testing.T) {
	in := tree("main", map[string]*spec.Element{
		"main": el("Stack", nil, "pick", "faq", "history", "sections"),
		"pick": el("Select", map[string]any{
			"options": []any{map[string]any{"id": "nyc", "name": "New York"}, "sf"},
		}),
		"faq": el("Accordion", map[string]any{
			"items": []any{map[string]any{"trigger": "Why?", "body": "Because."}},
		}),
		"history": el("Timeline", map[string]any{
			"events": []any{map[string]any{"name": "Launch", "time": "2024-01-01", "text": "v1"}},
		}),
		"sections": el("Tabs", map[string]any{
			"items": []any{map[string]any{"key": "a", "title": "Alpha"}},
		}),
	})

	out, _ := newRepairer(t).Repair(context.Background(), in)

	assert.Equal(t, []any{
		map[string]any{"value": "nyc", "label": "New York"},
		map[string]any{"value": "sf", "label": "sf"},
	}, out.Elements["pick"].Props["options"])
	assert.Equal(t, []any{
		map[string]any{"title": "Why?", "content": "Because."},
	}, out.Elements["faq"].Props["items"])
	assert.Equal(t, map[string]any{
		"items": []any{map[string]any{"title": "Launch", "date": "2024-01-01", "description": "v1"}},
	}, out.Elements["history"].Props)
	assert.Equal(t, map[string]any{
		"tabs": []any{map[string]any{"value": "a", "label": "Alpha"}},
	}, out.Elements["sections"].Props)
}

func TestRepairChartSeries(t *testing.T) {
	in := tree("main", map[string]*spec.Element{
		"main": el("Stack", nil, "bars", "lines", "pie"),
		"bars": el("BarChart", map[string]any{
			"xAxisKey": "month",
			"yKeys":    []any{"revenue", "cost"},
			"dataKey":  "revenue",
		}),
		"lines": el("LineChart", map[string]any{
			"series": []any{map[string]any{"dataKey": "temp", "name": "Temperature"}, "humidity"},
		}),
		"pie": el("PieChart", map[string]any{"labelKey": "sector", "dataKey": "weight"}),
	})

	out, _ := newRepairer(t).Repair(context.Background(), in)

	assert.Equal(t, map[string]any{
		"xKey": "month",
		"series": []any{
			map[string]any{"key": "revenue", "label": "revenue"},
			map[string]any{"key": "cost", "label": "cost"},
		},
	}, out.Elements["bars"].Props)
	assert.Equal(t, []any{
		map[string]any{"key": "temp", "label": "Temperature"},
		map[string]any{"key": "humidity", "label": "humidity"},
	}, out.Elements["lines"].Props["series"])
	assert.Equal(t, map[string]any{"nameKey": "sector", "valueKey": "weight"}, out.Elements["pie"].Props)
}

func TestRepairGeo(t *testing.T) {
	in := tree("main", map[string]*spec.Element{
		"main": el("Stack", nil, "flat", "nested", "pair"),
		"flat": el("Map", map[string]any{
			"latitude":  40.7,
			"lon":       -74.0,
			"style":     "dark",
			"tileStyle": "ignored",
		}),
		"nested": el("Map", map[string]any{
			"center":  map[string]any{"latitude": 51.5, "longitude": -0.1},
			"markers": []any{map[string]any{"lat": 1.0, "long": 2.0, "label": "A"}},
			"style":   map[string]any{"height": 300.0},
			"basemap": "satellite",
		}),
		"pair": el("Map", map[string]any{"center": []any{10.0, 20.0}}),
	})

	out, report := newRepairer(t).Repair(context.Background(), in)

	assert.Equal(t, map[string]any{
		"center":    map[string]any{"lat": 40.7, "lng": -74.0},
		"mapStyle":  "dark",
		"tileStyle": "ignored",
	}, out.Elements["flat"].Props)
	assert.Equal(t, map[string]any{
		"center":   map[string]any{"lat": 51.5, "lng": -0.1},
		"markers":  []any{map[string]any{"lat": 1.0, "lng": 2.0, "label": "A"}},
		"style":    map[string]any{"height": 300.0},
		"mapStyle": "satellite",
	}, out.Elements["nested"].Props)
	assert.Equal(t, map[string]any{"lat": 10.0, "lng": 20.0}, out.Elements["pair"].Props["center"])
	assert.NotEmpty(t, report.ByRule(RuleGeo))
}

func TestRepairIsIdempotent(t *testing.T) {
	r := newRepairer(t)
	ctx := context.Background()
	in := tree("main", map[string]*spec.Element{
		"main":            el("Stack", nil, "grid1", "range-tabs", "gone"),
		"grid1":           el("Grid", nil, "weather-card"),
		"weather-header":  el("Heading", map[string]any{"text": "Weather"}),
		"weather-metrics": el("Metric", nil),
		"range-5d":        el("TabContent", nil),
		"table":           el("Table", map[string]any{"columns": []any{"a"}}),
		"chart":           el("BarChart", map[string]any{"yKey": "v"}),
		"map":             el("Map", map[string]any{"lat": 1.0, "lng": 2.0}),
	})

	once, _ := r.Repair(ctx, in)
	twice, report := r.Repair(ctx, once)

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("second repair changed the tree (-once +twice):\n%s", diff)
	}
	assert.True(t, report.Empty(), "unexpected fixes: %v", report.Fixes)
	assertConsistent(t, once)
}

func TestRepairNil(t *testing.T) {
	out, report := newRepairer(t).Repair(context.Background(), nil)
	assert.Nil(t, out)
	assert.True(t, report.Empty())
}
