package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    zerolog.Level
		wantErr bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{"warn", zerolog.WarnLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"loud", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewWithWriter_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.WarnLevel)

	logger.Info().Msg("hidden")
	logger.Warn().Str("track", "a.mp3").Msg("decode failed")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "a.mp3", entry["track"])
	assert.Equal(t, "decode failed", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNew_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "wavescope.log")

	logger, closer, err := New(Options{File: path, Level: "info", MaxSizeMB: 1, MaxBackups: 1})
	require.NoError(t, err)
	logger.Info().Msg("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"hello"`)
}

func TestNew_Errors(t *testing.T) {
	_, _, err := New(Options{File: "", Level: "info"})
	assert.Error(t, err)

	_, _, err = New(Options{File: filepath.Join(t.TempDir(), "x.log"), Level: "nope"})
	assert.Error(t, err)
}
