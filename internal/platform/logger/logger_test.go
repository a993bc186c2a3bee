package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lburgess/aftlab/internal/platform/logger"
)

func TestSetupLevels(t *testing.T) {
	var buf bytes.Buffer

	log, err := logger.Setup(logger.Config{Level: "warn", Out: &buf})
	require.NoError(t, err)

	log.Info("should be filtered")
	log.Warn("should appear", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "should be filtered")
	assert.Contains(t, out, "should appear")

	// Output is one JSON object per line.
	var entry map[string]interface{}
	line := strings.TrimSpace(out)
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "v", entry["k"])
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	_, err := logger.Setup(logger.Config{Level: "verbose"})
	assert.Error(t, err)
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()

	base := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	ctx := logger.WithLogger(context.Background(), base)

	assert.Same(t, base, logger.FromContext(ctx))
	assert.Same(t, base, logger.FromContextOrDefault(ctx, nil))
}

func TestFromContextFallbacks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fallback := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))

	assert.Same(t, fallback, logger.FromContextOrDefault(ctx, fallback))
	assert.NotNil(t, logger.FromContext(ctx))
}
