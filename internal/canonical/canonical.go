// Package canonical renders JSON-shaped values in RFC 8785 canonical form
// so that structurally equal values compare and hash identically.
package canonical

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/gowebpki/jcs"

	"github.com/agentstation/uispec/pkg/errors"
)

// Bytes returns the canonical JSON encoding of v.
func Bytes(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.WrapParse("json", "", err)
	}
	out, err := jcs.Transform(data)
	if err != nil {
		return nil, errors.WrapParse("json", "", err)
	}
	return out, nil
}

// Key returns the canonical encoding of v as a string. Values that cannot
// be encoded yield an empty key and ok=false.
func Key(v any) (string, bool) {
	data, err := Bytes(v)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Equal reports whether a and b have the same canonical form.
func Equal(a, b any) bool {
	ka, ok := Key(a)
	if !ok {
		return false
	}
	kb, ok := Key(b)
	return ok && ka == kb
}

// Hash returns the hex SHA-256 of the canonical encodings of parts, each
// terminated by a zero byte.
func Hash(parts ...any) (string, error) {
	h := sha256.New()
	for _, part := range parts {
		data, err := Bytes(part)
		if err != nil {
			return "", err
		}
		h.Write(data)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
