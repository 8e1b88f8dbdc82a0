package zerologadapter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twinforge/thing-engine-go/zerologadapter"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	return entry
}

func Test_Logger_EmitsMessageAndKeyValuePairs(t *testing.T) {
	// arrange
	var buf bytes.Buffer
	logger := zerologadapter.NewLogger(zerolog.New(&buf))

	// act
	logger.Info("command executed", "command", "createThing", "revision", 1)

	// assert
	entry := decodeLine(t, &buf)
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "command executed", entry["message"])
	assert.Equal(t, "createThing", entry["command"])
	assert.Equal(t, float64(1), entry["revision"])
}

func Test_Logger_LevelsMapOneToOne(t *testing.T) {
	var buf bytes.Buffer
	logger := zerologadapter.NewLogger(zerolog.New(&buf))

	tests := []struct {
		name string
		log  func(msg string, args ...any)
		want string
	}{
		{name: "debug", log: logger.Debug, want: "debug"},
		{name: "info", log: logger.Info, want: "info"},
		{name: "warn", log: logger.Warn, want: "warn"},
		{name: "error", log: logger.Error, want: "error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf.Reset()

			tc.log("something happened")

			entry := decodeLine(t, &buf)
			assert.Equal(t, tc.want, entry["level"])
		})
	}
}

func Test_Logger_DanglingValueIsNotDropped(t *testing.T) {
	var buf bytes.Buffer
	logger := zerologadapter.NewLogger(zerolog.New(&buf))

	logger.Warn("odd argument count", "policyId")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "policyId", entry["arg"])
}

func Test_Logger_ContextVariantsLog(t *testing.T) {
	var buf bytes.Buffer
	logger := zerologadapter.NewLogger(zerolog.New(&buf))

	logger.InfoContext(context.Background(), "with context", "correlationId", "corr-1")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "with context", entry["message"])
	assert.Equal(t, "corr-1", entry["correlationId"])
}
