package kinds

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/agentstation/uispec/pkg/errors"
	"github.com/agentstation/uispec/pkg/spec"
)

const schemaBase = "https://uispec.local/kinds/"

//go:embed schemas/*.json
var schemaFS embed.FS

// Registry resolves element types to Kinds and validates their props.
type Registry struct {
	byName  map[string]*Kind
	schemas map[string]*jsonschema.Schema
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
	defaultErr      error
)

// Default returns the shared registry of built-in kinds. It panics if the
// embedded schemas fail to compile.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry, defaultErr = New(builtins()...)
	})
	if defaultErr != nil {
		panic(defaultErr)
	}
	return defaultRegistry
}

// New builds a registry over the given kinds, compiling every schema they name.
func New(kinds ...*Kind) (*Registry, error) {
	r := &Registry{
		byName:  make(map[string]*Kind),
		schemas: make(map[string]*jsonschema.Schema),
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, errors.WrapIO("read", "schemas", err)
	}
	for _, entry := range entries {
		data, err := schemaFS.ReadFile(path.Join("schemas", entry.Name()))
		if err != nil {
			return nil, errors.WrapIO("read", entry.Name(), err)
		}
		if err := compiler.AddResource(schemaBase+entry.Name(), bytes.NewReader(data)); err != nil {
			return nil, errors.WrapParse("json", entry.Name(), err)
		}
	}

	for _, k := range kinds {
		if k == nil || k.Name == "" {
			return nil, errors.NewValidationError("kind", k, "kind must have a name")
		}
		for _, name := range k.Names() {
			if _, dup := r.byName[name]; dup {
				return nil, errors.NewValidationError("kind", name, "duplicate kind name")
			}
			r.byName[name] = k
		}
		if k.Schema == "" {
			continue
		}
		if _, ok := r.schemas[k.Schema]; ok {
			continue
		}
		schema, err := compiler.Compile(schemaBase + k.Schema)
		if err != nil {
			return nil, errors.NewConfigError("kinds", fmt.Sprintf("compile schema %s", k.Schema), err)
		}
		r.schemas[k.Schema] = schema
	}
	return r, nil
}

// Lookup returns the kind registered under the type name or one of its aliases.
func (r *Registry) Lookup(typ string) (*Kind, bool) {
	k, ok := r.byName[typ]
	return k, ok
}

// Has reports whether the type is known and carries the trait.
func (r *Registry) Has(typ string, t Trait) bool {
	k, ok := r.Lookup(typ)
	return ok && k.Has(t)
}

// IsHeadingLike reports whether the element reads as a heading.
func (r *Registry) IsHeadingLike(el *spec.Element) bool {
	if el == nil {
		return false
	}
	if r.Has(el.Type, HeadingLike) {
		return true
	}
	if k, ok := r.Lookup(el.Type); ok && k.Name == "Text" {
		return IsHeadingText(el.Props)
	}
	return false
}

// Kinds returns the registered kinds sorted by name.
func (r *Registry) Kinds() []*Kind {
	seen := make(map[*Kind]bool)
	var out []*Kind
	for _, k := range r.byName {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// InvalidProps validates props against the kind's schema and returns the
// sorted top-level prop names that violate it. Unknown types and kinds
// without a schema never report violations.
func (r *Registry) InvalidProps(typ string, props map[string]any) []string {
	k, ok := r.Lookup(typ)
	if !ok || k.Schema == "" {
		return nil
	}
	schema := r.schemas[k.Schema]
	if schema == nil {
		return nil
	}

	doc, err := toJSONValue(props)
	if err != nil {
		return nil
	}
	err = schema.Validate(doc)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return nil
	}

	bad := make(map[string]bool)
	collectLocations(verr, bad)
	names := make([]string, 0, len(bad))
	for name := range bad {
		if _, ok := props[name]; ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func collectLocations(verr *jsonschema.ValidationError, into map[string]bool) {
	if len(verr.Causes) == 0 {
		segs := spec.SplitPath(verr.InstanceLocation)
		if len(segs) > 0 {
			into[segs[0]] = true
		}
		return
	}
	for _, cause := range verr.Causes {
		collectLocations(cause, into)
	}
}

// toJSONValue round-trips v through encoding/json so the validator only sees
// the value types it understands.
func toJSONValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
