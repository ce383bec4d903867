// Package cmdutil provides the file input helpers shared by uispec commands.
// Every path may be "-" to read standard input.
package cmdutil

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/uispec/pkg/errors"
	"github.com/agentstation/uispec/pkg/spec"
	"github.com/agentstation/uispec/pkg/state"
)

// Stdin is the path that selects standard input.
const Stdin = "-"

// CheckStdin rejects paths that select standard input more than once.
func CheckStdin(paths ...string) error {
	n := 0
	for _, path := range paths {
		if path == Stdin {
			n++
		}
	}
	if n > 1 {
		return &errors.ValidationError{Field: "stdin", Message: "only one input may read stdin"}
	}
	return nil
}

// ReadFile reads path, or r when path is "-".
func ReadFile(path string, r io.Reader) ([]byte, error) {
	if path == Stdin {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, errors.WrapIO("read", "stdin", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // paths come from the command line
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return data, nil
}

// ReadSnapshot reads and decodes a JSON or YAML snapshot.
func ReadSnapshot(path string, r io.Reader) (spec.Raw, error) {
	data, err := ReadFile(path, r)
	if err != nil {
		return nil, err
	}
	raw, err := spec.Decode(data)
	if err != nil {
		return nil, withFile(err, path)
	}
	return raw, nil
}

// ReadTree reads a tree written earlier by uispec.
func ReadTree(path string, r io.Reader) (*spec.Tree, error) {
	data, err := ReadFile(path, r)
	if err != nil {
		return nil, err
	}
	t, err := spec.DecodeTree(data)
	if err != nil {
		return nil, withFile(err, path)
	}
	return t, nil
}

// ReadLive reads a JSON or YAML list of interactions:
//
//	- path: /activeRange
//	  value: 1m
func ReadLive(path string, r io.Reader) ([]state.Write, error) {
	data, err := ReadFile(path, r)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] != '[' {
		// decode through JSON so numbers match snapshot decoding
		if trimmed, err = yaml.YAMLToJSON(trimmed); err != nil {
			return nil, errors.WrapParse("yaml", path, err)
		}
	}
	var writes []state.Write
	if err := json.Unmarshal(trimmed, &writes); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}
	for i, w := range writes {
		if w.Path == "" {
			return nil, errors.NewValidationError("live", i, "interaction has no path")
		}
	}
	return writes, nil
}

// withFile names the file in a parse error.
func withFile(err error, path string) error {
	var perr *errors.ParseError
	if stderrors.As(err, &perr) && perr.File == "" {
		perr.File = path
	}
	return err
}
