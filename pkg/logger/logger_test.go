package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "debug")

	l.Info("analysis done",
		String("symbol", "AAPL"),
		Int("rows", 251),
		Float64("price", 172.5),
		Bool("cached", true),
	)

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "info", got["level"])
	assert.Equal(t, "analysis done", got["message"])
	assert.Equal(t, "AAPL", got["symbol"])
	assert.Equal(t, float64(251), got["rows"])
	assert.Equal(t, 172.5, got["price"])
	assert.Equal(t, true, got["cached"])
}

func TestWithCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "info").With(String("request_id", "r-1"))

	l.Error("fetch failed", Error(errors.New("boom")))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "r-1", got["request_id"])
	assert.Equal(t, "boom", got["error"])
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "warn")

	l.Info("dropped")
	l.Debug("dropped")
	assert.Zero(t, buf.Len())

	l.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNopDiscards(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().Error("ignored", String("k", "v"))
	})
}

func TestWithNilError(t *testing.T) {
	var buf bytes.Buffer
	var l *Logger
	require.NotPanics(t, func() {
		l = NewWriter(&buf, "info").With(Error(nil), Duration("took", 1500*time.Millisecond))
	})
	l.Info("ok")

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Nil(t, got["error"])
	assert.Equal(t, float64(1500), got["took"])
}
