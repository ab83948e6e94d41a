package sysarena

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeRecords(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		rec := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		out = append(out, rec)
	}
	return out
}

func TestLogger_Records(t *testing.T) {
	var buf bytes.Buffer
	l := NewJSONLogger(&buf, slog.LevelDebug).With("manager", "test")

	l.LogAllocate(64, 128, 1, nil)
	l.LogFree(5000, 0, opError("free", -1, 5000, 0, ErrNotFound))
	l.LogDefragment(0, 1)

	recs := decodeRecords(t, &buf)
	require.Len(t, recs, 2, "defragment without merges is not logged")

	assert.Equal(t, "allocate completed", recs[0]["msg"])
	assert.Equal(t, "DEBUG", recs[0]["level"])
	assert.Equal(t, "test", recs[0]["manager"])
	assert.EqualValues(t, 128, recs[0]["addr"])
	assert.EqualValues(t, 1, recs[0]["slot"])

	assert.Equal(t, "free failed", recs[1]["msg"])
	assert.Equal(t, "WARN", recs[1]["level"])
	assert.Equal(t, "not_found", recs[1]["kind"])
	assert.Equal(t, "free addr=5000: sysarena: address not found", recs[1]["error"])
}

func TestLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	l := NewTextLogger(&buf, slog.LevelWarn)

	l.LogSplit(0, 64, 960, nil)
	assert.Empty(t, buf.String())

	l.LogSplit(0, 0, 0, opError("split", 0, 0, 0, ErrInvalidSize))
	assert.Contains(t, buf.String(), `msg="split failed"`)
	assert.Contains(t, buf.String(), "kind=invalid_size")
}

func TestNoopLogger(t *testing.T) {
	l := NoopLogger()
	assert.False(t, l.Enabled(t.Context(), slog.LevelError))
	l.LogAllocate(1, 0, 0, nil)
	l.LogDefragment(3, 1)
}
