package obs

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrom_AddsCorrelationFields(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutputForTests(&buf)
	defer restore()

	ctx := WithRun(context.Background())
	ctx = WithOperation(ctx, "flat", "navigate")
	ctx = WithCorrelation(ctx, Correlation{TestName: "TestBooking"})

	From(ctx).Info("step executed", "control", "next_year")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, RunIDFromContext(ctx), line["run_id"])
	assert.Equal(t, "flat", line["widget"])
	assert.Equal(t, "navigate", line["operation"])
	assert.Equal(t, "TestBooking", line["test"])
	assert.Equal(t, "next_year", line["control"])
	assert.True(t, strings.HasPrefix(line["run_id"].(string), "run-"))
}

func TestWithRun_KeepsExistingRunID(t *testing.T) {
	ctx := WithCorrelation(context.Background(), Correlation{RunID: "run-fixed"})
	ctx = WithRun(ctx)
	assert.Equal(t, "run-fixed", RunIDFromContext(ctx))
}

func TestRunIDFromContext_Unknown(t *testing.T) {
	assert.Equal(t, "unknown", RunIDFromContext(context.Background()))
	assert.Equal(t, Correlation{}, CorrelationFromContext(nil))
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "ParseLevel(%q)", in)
	}
}

func TestSetLevel_FiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutputForTests(&buf)
	defer restore()

	SetLevel(slog.LevelInfo)
	Pkg("navigator").Debug("hidden")
	assert.Empty(t, buf.String())

	Pkg("navigator").Info("shown")
	assert.Contains(t, buf.String(), `"pkg":"navigator"`)
}
