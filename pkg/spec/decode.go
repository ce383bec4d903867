package spec

import (
	"bytes"
	"encoding/json"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/uispec/pkg/errors"
)

// Raw is an undecoded snapshot as handed over by the streaming decoder:
// JSON-shaped maps, arrays and scalars with no guarantees about structure.
type Raw = map[string]any

// Decode parses a JSON or YAML snapshot into a Raw. Numbers decode as
// float64 in both formats.
func Decode(data []byte) (Raw, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.NewValidationError("snapshot", "", "empty document")
	}

	format := "json"
	if trimmed[0] != '{' {
		format = "yaml"
		converted, err := yaml.YAMLToJSON(trimmed)
		if err != nil {
			return nil, errors.WrapParse(format, "", err)
		}
		trimmed = converted
	}

	var raw Raw
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, errors.WrapParse(format, "", err)
	}
	if raw == nil {
		return nil, errors.NewValidationError("snapshot", nil, "document is not an object")
	}
	return raw, nil
}

// DecodeTree parses a JSON or YAML document straight into a Tree. It is
// meant for trees this engine produced earlier; untrusted snapshots go
// through Decode and the sanitizer.
func DecodeTree(data []byte) (*Tree, error) {
	raw, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return FromRaw(raw)
}

// FromRaw converts a Raw into a Tree without any repair.
func FromRaw(raw Raw) (*Tree, error) {
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, errors.WrapParse("json", "", err)
	}
	var t Tree
	if err := json.Unmarshal(encoded, &t); err != nil {
		return nil, errors.WrapParse("json", "", err)
	}
	if t.Elements == nil {
		t.Elements = make(map[string]*Element)
	}
	for id, el := range t.Elements {
		switch {
		case el == nil:
			delete(t.Elements, id)
		case el.Props == nil:
			el.Props = make(map[string]any)
		}
	}
	if t.State == nil {
		t.State = make(map[string]any)
	}
	return &t, nil
}

// Raw converts the tree back into its untyped form.
func (t *Tree) Raw() Raw {
	raw := Raw{"root": t.Root}
	elements := make(map[string]any, len(t.Elements))
	for id, el := range t.Elements {
		if el == nil {
			continue
		}
		entry := map[string]any{
			"type":  el.Type,
			"props": CloneMap(el.Props),
		}
		if entry["props"] == nil {
			entry["props"] = map[string]any{}
		}
		if el.Children != nil {
			children := make([]any, len(el.Children))
			for i, c := range el.Children {
				children[i] = c
			}
			entry["children"] = children
		}
		if el.Repeat != nil {
			repeat := map[string]any{"statePath": el.Repeat.StatePath}
			if el.Repeat.Key != "" {
				repeat["key"] = el.Repeat.Key
			}
			entry["repeat"] = repeat
		}
		elements[id] = entry
	}
	raw["elements"] = elements
	raw["state"] = CloneMap(t.State)
	if raw["state"] == nil {
		raw["state"] = map[string]any{}
	}
	return raw
}
