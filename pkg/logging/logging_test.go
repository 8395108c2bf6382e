package logging

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := Component(New(&buf, "WARN"), "editor")

	log.Info().Msg("hidden")
	log.Warn().Str("date", "2024-01-15").Msg("save failed")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &rec))
	assert.Equal(t, "warn", rec["level"])
	assert.Equal(t, "editor", rec["component"])
	assert.Equal(t, "calendiary", rec["service"])
	assert.Equal(t, "2024-01-15", rec["date"])
	assert.Contains(t, rec, "time")
}

func TestNewUnknownLevelIsInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "chatty")
	log.Debug().Msg("hidden")
	log.Info().Msg("shown")
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestFileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "calendiary.log")
	log, closer, err := File(path, "debug")
	require.NoError(t, err)
	log.Debug().Msg("one")
	require.NoError(t, closer.Close())

	log, closer, err = File(path, "debug")
	require.NoError(t, err)
	log.Debug().Msg("two")
	require.NoError(t, closer.Close())

	assert.FileExists(t, path)
}
