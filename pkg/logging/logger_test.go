package logging_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/uispec/pkg/logging"
)

func TestDefaultLogger(t *testing.T) {
	assert.NotNil(t, logging.Default())
}

func TestContextLogger(t *testing.T) {
	t.Run("falls back to default", func(t *testing.T) {
		assert.Equal(t, logging.Default(), logging.FromContext(context.Background()))
	})

	t.Run("carries fields", func(t *testing.T) {
		tl := logging.NewTestLogger(t)
		ctx := logging.WithLogger(context.Background(), tl.Logger)
		ctx = logging.WithSession(ctx, "s-1")
		ctx = logging.WithTurn(ctx, 3)
		ctx = logging.WithStage(ctx, "repair")

		logging.FromContext(ctx).Info().Msg("stage done")

		assert.True(t, tl.Contains(`"session_id":"s-1"`))
		assert.True(t, tl.Contains(`"turn":3`))
		assert.True(t, tl.Contains(`"stage":"repair"`))
		assert.Len(t, tl.Lines(), 1)
	})

	t.Run("error fields", func(t *testing.T) {
		tl := logging.NewTestLogger(t)
		ctx := logging.WithLogger(context.Background(), tl.Logger)
		ctx = logging.WithFields(ctx, map[string]any{"error": errors.New("boom"), "count": 2})

		logging.FromContext(ctx).Warn().Msg("with fields")

		assert.True(t, tl.Contains(`"error":"boom"`))
		assert.True(t, tl.Contains(`"count":2`))
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARNING", zerolog.WarnLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, logging.ParseLevel(tt.in))
		})
	}
}

func TestNewLoggerFromConfig(t *testing.T) {
	old := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(old) })

	logger := logging.NewLoggerFromConfig(&logging.Config{
		Level:  "warn",
		Format: "json",
		Output: "discard",
		Fields: map[string]any{"component": "test"},
	})
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())

	logger = logging.NewLoggerFromConfig(nil)
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestCaptureLoggingForTest(t *testing.T) {
	tl := logging.CaptureLoggingForTest(t)
	logging.Warn().Str("element_id", "card1").Msg("orphan attached")
	require.True(t, tl.Contains("orphan attached"))
	assert.True(t, tl.Contains(`"element_id":"card1"`))
}
