package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestRunIDInjected(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info", "json")

	id := NewRunID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	ctx := WithRunID(context.Background(), id)
	logger.With("stage", "ingest").InfoContext(ctx, "loaded", "channels", 4)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, id, rec["run_id"])
	assert.Equal(t, "ingest", rec["stage"])
	assert.Equal(t, float64(4), rec["channels"])
}

func TestLevelFiltersAndTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn", "text")

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.Contains(out, "msg=shown"), out)
	assert.Empty(t, RunID(context.Background()))
}
