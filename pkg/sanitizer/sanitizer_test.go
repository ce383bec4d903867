package sanitizer

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/uispec/pkg/errors"
	"github.com/agentstation/uispec/pkg/spec"
)

func newSanitizer(t *testing.T, opts ...Option) Sanitizer {
	t.Helper()
	s, err := New(opts...)
	require.NoError(t, err)
	return s
}

func TestNewRejectsNilRegistry(t *testing.T) {
	_, err := New(WithRegistry(nil))
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestRawNoTree(t *testing.T) {
	s := newSanitizer(t)
	ctx := context.Background()

	tests := []struct {
		name string
		raw  spec.Raw
	}{
		{name: "nil", raw: nil},
		{name: "no root", raw: spec.Raw{"elements": map[string]any{}}},
		{name: "root not a string", raw: spec.Raw{"root": 3.0, "elements": map[string]any{}}},
		{name: "elements missing", raw: spec.Raw{"root": "main"}},
		{name: "root element missing", raw: spec.Raw{"root": "main", "elements": map[string]any{}}},
		{
			name: "root element without type",
			raw: spec.Raw{"root": "main", "elements": map[string]any{
				"main": map[string]any{"props": map[string]any{}},
			}},
		},
		{
			name: "root element not an object",
			raw: spec.Raw{"root": "main", "elements": map[string]any{
				"main": "Stack",
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, _, err := s.Raw(ctx, tt.raw)
			require.Error(t, err)
			assert.Nil(t, tree)
			assert.True(t, errors.IsNoTree(err))
			assert.True(t, errors.IsValidationError(err))
		})
	}
}

func TestRawNormalizesElements(t *testing.T) {
	s := newSanitizer(t)
	raw := spec.Raw{
		"root": "main",
		"elements": map[string]any{
			"main": map[string]any{
				"type":     "Stack",
				"children": []any{"title", 7.0, "broken", "ghost", "list"},
			},
			"title":  map[string]any{"type": "Heading", "props": "oops"},
			"broken": map[string]any{"props": map[string]any{}},
			"list": map[string]any{
				"type":   "Text",
				"repeat": map[string]any{"key": "id"},
			},
			"junk": 12.0,
		},
		"state": []any{1.0},
	}

	tree, report, err := s.Raw(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, []string{"list", "main", "title"}, tree.IDs())
	assert.Equal(t, []string{"title", "ghost", "list"}, tree.Elements["main"].Children)
	assert.Equal(t, map[string]any{}, tree.Elements["title"].Props)
	assert.Nil(t, tree.Elements["list"].Repeat)
	assert.Equal(t, map[string]any{}, tree.State)

	assert.Len(t, report.ByRule(RuleDropElement), 2)
	assert.Len(t, report.ByRule(RuleDropChild), 1)
	assert.Len(t, report.ByRule(RuleDefaultProps), 1)
	assert.Len(t, report.ByRule(RuleDropRepeat), 1)
	assert.Len(t, report.ByRule(RuleDropReference), 1)
	assert.Len(t, report.ByRule(RuleDefaultState), 1)
}

func TestRawRemovesSchemaViolations(t *testing.T) {
	raw := spec.Raw{
		"root": "main",
		"elements": map[string]any{
			"main": map[string]any{
				"type":  "Table",
				"props": map[string]any{"columns": "name,price", "data": map[string]any{"$state": "/rows"}},
			},
		},
	}

	tree, report, err := newSanitizer(t).Raw(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"data": map[string]any{"$state": "/rows"}}, tree.Elements["main"].Props)
	assert.Len(t, report.ByRule(RuleInvalidProp), 1)

	tree, report, err = newSanitizer(t, WithSchemaValidation(false)).Raw(context.Background(), raw)
	require.NoError(t, err)
	assert.Contains(t, tree.Elements["main"].Props, "columns")
	assert.Empty(t, report.ByRule(RuleInvalidProp))
}

func TestRawBreaksCycles(t *testing.T) {
	raw := spec.Raw{
		"root": "main",
		"elements": map[string]any{
			"main": map[string]any{"type": "Stack", "children": []any{"a"}},
			"a":    map[string]any{"type": "Card", "children": []any{"b"}},
			"b":    map[string]any{"type": "Card", "children": []any{"a", "main"}},
			"c":    map[string]any{"type": "Text", "children": []any{"c"}},
		},
	}

	tree, report, err := newSanitizer(t).Raw(context.Background(), raw)
	require.NoError(t, err)

	_, ok := tree.Element("a")
	assert.False(t, ok, "element re-entered by a back edge is dropped")
	_, ok = tree.Element("c")
	assert.False(t, ok, "self reference is a cycle")
	assert.Empty(t, tree.Elements["main"].Children)
	assert.Empty(t, tree.Elements["b"].Children)
	assert.Len(t, report.ByRule(RuleCycle), 2)
	assert.Len(t, report.ByRule(RuleCutCycle), 1)
}

func TestRawRootCycleIsCut(t *testing.T) {
	raw := spec.Raw{
		"root": "main",
		"elements": map[string]any{
			"main": map[string]any{"type": "Stack", "children": []any{"child"}},
			"child": map[string]any{"type": "Card", "children": []any{"main"}},
		},
	}

	tree, _, err := newSanitizer(t).Raw(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"child"}, tree.Elements["main"].Children)
	assert.Empty(t, tree.Elements["child"].Children)
}

func TestSanitizeIsIdempotent(t *testing.T) {
	s := newSanitizer(t)
	ctx := context.Background()
	raw := spec.Raw{
		"root": "main",
		"elements": map[string]any{
			"main": map[string]any{"type": "Stack", "children": []any{"a", "missing", 1.0}},
			"a":    map[string]any{"type": "Card", "children": []any{"a"}},
			"b":    map[string]any{"type": "Map", "props": map[string]any{"zoom": true}},
		},
		"state": map[string]any{"x": 1.0},
	}

	once, _, err := s.Raw(ctx, raw)
	require.NoError(t, err)
	twice, report, err := s.Tree(ctx, once)
	require.NoError(t, err)

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("second pass changed the tree (-once +twice):\n%s", diff)
	}
	assert.True(t, report.Empty())
}

func TestTreeDoesNotMutateInput(t *testing.T) {
	in := spec.NewTree("main")
	in.Elements["main"] = &spec.Element{Type: "Stack", Props: map[string]any{}, Children: []string{"main"}}

	out, _, err := newSanitizer(t).Tree(context.Background(), in)
	require.NoError(t, err)
	assert.Empty(t, out.Elements["main"].Children)
	assert.Equal(t, []string{"main"}, in.Elements["main"].Children)

	_, _, err = newSanitizer(t).Tree(context.Background(), nil)
	assert.True(t, errors.IsNoTree(err))
}
