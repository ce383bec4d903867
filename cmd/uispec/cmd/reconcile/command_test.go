package reconcile

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/uispec/internal/appcontext"
	"github.com/agentstation/uispec/pkg/pipeline"
	"github.com/agentstation/uispec/pkg/provenance"
)

const previous = `{
  "root": "weather",
  "elements": {
    "weather": {"type": "Card", "props": {"title": "NYC"}, "children": ["temp"]},
    "temp": {"type": "Metric", "props": {"label": "Temp", "value": 20}}
  },
  "state": {"activeRange": "1d"}
}`

const next = `{
  "root": "card",
  "elements": {
    "card": {"type": "Card", "props": {"title": "NYC"}, "children": ["t2"]},
    "t2": {"type": "Metric", "props": {"label": "Temp", "value": 22}}
  }
}`

const live = `- path: /activeRange
  value: 1m
`

func execute(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	app := &appcontext.Mock{OutputFormatFunc: func() string { return format }}
	cmd := NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReconcile(t *testing.T) {
	dir := t.TempDir()
	prev := writeFile(t, dir, "prev.json", previous)
	nxt := writeFile(t, dir, "next.json", next)
	clicks := writeFile(t, dir, "live.yaml", live)

	out, err := execute(t, "json", nxt, "--previous", prev, "--live", clicks)
	require.NoError(t, err)

	var payload pipeline.Payload
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "reconciled", payload.Outcome)
	require.NotNil(t, payload.Tree)
	assert.Equal(t, "weather", payload.Tree.Root)
	assert.Equal(t, 22.0, payload.Tree.Elements["temp"].Props["value"])
	assert.Equal(t, "1m", payload.Tree.State["activeRange"])
	assert.Equal(t, "weather", payload.Mapping["card"])
	assert.Equal(t, "temp", payload.Mapping["t2"])
}

func TestReconcileFirstTurn(t *testing.T) {
	nxt := writeFile(t, t.TempDir(), "next.json", next)

	out, err := execute(t, "yaml", nxt)
	require.NoError(t, err)
	assert.Contains(t, out, "outcome: fresh")
}

func TestReconcileProvenance(t *testing.T) {
	dir := t.TempDir()
	prev := writeFile(t, dir, "prev.json", previous)
	nxt := writeFile(t, dir, "next.json", next)
	saved := filepath.Join(dir, "prov.yaml")

	out, err := execute(t, "wide", nxt, "--previous", prev, "--save-provenance", saved)
	require.NoError(t, err)
	assert.Contains(t, out, "reconciled")
	assert.Contains(t, out, "weather (root)")

	file, err := provenance.Load(saved)
	require.NoError(t, err)
	require.NotNil(t, file)
	assert.NotEmpty(t, file.Provenance)
}

func TestReconcileErrors(t *testing.T) {
	dir := t.TempDir()
	nxt := writeFile(t, dir, "next.json", next)

	_, err := execute(t, "json", nxt, "--previous", filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	_, err = execute(t, "json", "-", "--previous", "-")
	assert.Error(t, err)

	bad := writeFile(t, dir, "live.json", `[{"value": 1}]`)
	_, err = execute(t, "json", nxt, "--live", bad)
	assert.Error(t, err)
}

func TestFilterProvenance(t *testing.T) {
	m := provenance.Map{
		"/activeRange": {{Source: provenance.SourcePrevious}},
		"/prices/1d":   {{Source: provenance.SourceGenerated}},
	}

	assert.Len(t, filterProvenance(m, nil), 2)

	filtered := filterProvenance(m, []string{"/prices/*"})
	assert.Len(t, filtered, 1)
	assert.Contains(t, filtered, "/prices/1d")
}
