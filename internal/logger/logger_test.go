package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupJSON(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	var buf bytes.Buffer
	require.NoError(t, Setup(LogConfig{Level: "debug", Format: "json", Output: &buf}))

	l := WithComponent("service")
	l.Debug().Int64("total_cents", 100).Msg("invoice created")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "service", entry["component"])
	assert.Equal(t, "invoice created", entry["message"])
	assert.Equal(t, "debug", entry["level"])
}

func TestSetupRejectsBadConfig(t *testing.T) {
	assert.Error(t, Setup(LogConfig{Level: "loud", Format: "json"}))
	assert.Error(t, Setup(LogConfig{Level: "info", Format: "xml"}))
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf).With().Str("component", "svc").Logger()

	l := FromContext(context.Background(), base)
	l.Info().Msg("plain")
	ctx := ContextWithRequestID(context.Background(), "req-7")
	assert.Equal(t, "req-7", RequestID(ctx))
	l = FromContext(ctx, base)
	l.Info().Msg("tagged")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	var first, second map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &first))
	require.NoError(t, json.Unmarshal(lines[1], &second))
	assert.NotContains(t, first, "request_id")
	assert.Equal(t, "req-7", second["request_id"])
	assert.Equal(t, "svc", second["component"])
}
