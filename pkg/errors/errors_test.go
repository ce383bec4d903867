package errors_test

import (
	"errors"
	"testing"

	pkgerrors "github.com/agentstation/uispec/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Resource: "element",
			ID:       "card1",
		}
		assert.Equal(t, "element with ID card1 not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("element", "m1")
		wrapped := errors.Join(errors.New("failed"), base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("root", "", "missing")
		assert.Equal(t, "validation failed for field root: missing", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
		assert.False(t, pkgerrors.IsNoTree(err))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "bad weights"}
		assert.Equal(t, "validation failed: bad weights", err.Error())
	})

	t.Run("no tree", func(t *testing.T) {
		err := pkgerrors.NewNoTreeError("root", "card1", "root element has no type")
		assert.True(t, pkgerrors.IsNoTree(err))
		assert.True(t, pkgerrors.IsValidationError(err))

		var verr *pkgerrors.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "root", verr.Field)
	})
}

func TestParseError(t *testing.T) {
	base := errors.New("unexpected token")
	err := pkgerrors.WrapParse("json", "tree.json", base)
	require.Error(t, err)
	assert.Equal(t, "parse error in json file tree.json: unexpected token", err.Error())
	assert.ErrorIs(t, err, base)
	assert.True(t, pkgerrors.IsValidationError(err))

	assert.Nil(t, pkgerrors.WrapParse("json", "", nil))
}

func TestIOError(t *testing.T) {
	base := errors.New("permission denied")
	err := pkgerrors.WrapIO("read", "/tmp/tree.json", base)
	assert.Equal(t, "IO error during read of /tmp/tree.json: permission denied", err.Error())
	assert.ErrorIs(t, err, base)

	err = pkgerrors.NewIOError("write", "", base)
	assert.Equal(t, "IO error during write: permission denied", err.Error())
}

func TestConfigError(t *testing.T) {
	base := errors.New("out of order")
	err := pkgerrors.NewConfigError("reconciler", "weights must be decreasing", base)
	assert.Equal(t, "configuration error in reconciler: weights must be decreasing", err.Error())
	assert.ErrorIs(t, err, base)
}

func TestWrapValidation(t *testing.T) {
	assert.Nil(t, pkgerrors.WrapValidation("props", nil))

	base := errors.New("not an object")
	err := pkgerrors.WrapValidation("props", base)
	assert.True(t, pkgerrors.IsValidationError(err))
	assert.ErrorIs(t, err, base)
}
