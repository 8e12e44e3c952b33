package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestLogger_WritesJSONWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("debug", &buf)

	log.Info("user registered", map[string]interface{}{"user_id": "u-1"})

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "INFO", lines[0]["level"])
	assert.Equal(t, "user registered", lines[0]["msg"])
	assert.Equal(t, "u-1", lines[0]["user_id"])
	assert.Equal(t, "employeehub", lines[0]["service"])
}

func TestLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("warn", &buf)

	log.Debug("hidden", nil)
	log.Info("hidden too", nil)
	log.Warn("shown", nil)
	log.Error("also shown", errors.New("boom"))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "shown", lines[0]["msg"])
	assert.Equal(t, "boom", lines[1]["error"])
}

func TestLogger_FatalExits(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf).(*SlogLogger)
	code := -1
	log.exit = func(c int) { code = c }

	log.Fatal("cannot start", errors.New("no db"))

	assert.Equal(t, 1, code)
	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, true, lines[0]["fatal"])
}

func TestParseLevel_UnknownDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("verbose", &buf)

	log.Debug("hidden", nil)
	log.Info("shown", nil)

	assert.Len(t, decodeLines(t, &buf), 1)
}
