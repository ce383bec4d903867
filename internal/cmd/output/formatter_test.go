package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"table", "JSON", "yaml", "wide", ""} {
		_, err := ParseFormat(in)
		assert.NoError(t, err, in)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func TestPrint(t *testing.T) {
	data := Data{Headers: []string{"ID", "Type"}, Rows: [][]string{{"main", "Stack"}}}
	raw := map[string]any{"root": "main"}

	var buf bytes.Buffer
	require.NoError(t, Print(&buf, FormatJSON, data, raw))
	assert.JSONEq(t, `{"root":"main"}`, buf.String())

	buf.Reset()
	require.NoError(t, Print(&buf, FormatYAML, data, raw))
	assert.Contains(t, buf.String(), "root: main")

	buf.Reset()
	require.NoError(t, Print(&buf, FormatTable, data, raw))
	assert.Contains(t, buf.String(), "Stack")
	assert.Contains(t, buf.String(), "main")
}

func TestTableFormatterFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TableFormatter{}).Format(&buf, map[string]any{"root": "main"}))
	assert.JSONEq(t, `{"root":"main"}`, buf.String())
}

func TestResolve(t *testing.T) {
	format, err := Resolve("Wide")
	require.NoError(t, err)
	assert.Equal(t, FormatWide, format)

	// tests never run on a terminal
	format, err = Resolve("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, format)

	_, err = Resolve("xml")
	assert.Error(t, err)
}
