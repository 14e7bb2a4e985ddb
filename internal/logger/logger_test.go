package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: "JSON", Level: slog.LevelInfo})

	log.Info("track started", "name", "a.mp3")
	log.Debug("hidden")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "track started", rec["msg"])
	assert.Equal(t, "a.mp3", rec["name"])
}

func TestNew_TextRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: FormatText, Level: slog.LevelWarn})

	log.Info("quiet")
	log.Warn("persist failed", "op", "save")

	out := buf.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "persist failed")
	assert.Contains(t, out, "op=save")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestOpenFile_CreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "eqwaves.log")

	f, err := OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	log := New(Config{Writer: f})
	log.Info("hello")
	assert.FileExists(t, path)
}
