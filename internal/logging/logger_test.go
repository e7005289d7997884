package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"", zerolog.InfoLevel},
		{"debug", zerolog.DebugLevel},
		{"  WARN ", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"nonsense", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestLogger_WritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{ServiceName: "buysmart-comparison", Output: &buf}).Component("store")

	ctx := logger.WithRequestID(context.Background(), "req-1")
	logger.Error(ctx, "persist failed", errors.New("disk full"), "count", 3)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "buysmart-comparison", line["service"])
	assert.Equal(t, "store", line["component"])
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "disk full", line["error"])
	assert.Equal(t, float64(3), line["count"])
	assert.Equal(t, "persist failed", line["message"])
}

func TestLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: zerolog.WarnLevel, Output: &buf})

	logger.Info(context.Background(), "hidden")
	assert.Zero(t, buf.Len())

	logger.Warn(context.Background(), "shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().Error(context.Background(), "ignored", errors.New("x"))
	})
}

func TestLogger_ContextFieldsSurviveComponent(t *testing.T) {
	var buf bytes.Buffer
	root := New(Options{Output: &buf})

	ctx := root.WithRequestID(context.Background(), "req-2")
	ctx = root.WithField(ctx, "analysis_id", "a1")
	root.Component("fetcher").Info(ctx, "resolved")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "fetcher", line["component"])
	assert.Equal(t, "req-2", line["request_id"])
	assert.Equal(t, "a1", line["analysis_id"])
}
