package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worldeditor.yaml")
	data := `
log_level: debug
maps_dir: /tmp/maps
close_timeout: 500ms
brush:
  radius: 8
ranges:
  angle: {min: -180, max: 180}
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/maps", cfg.MapsDir)
	assert.Equal(t, 500*time.Millisecond, cfg.CloseTimeout)
	assert.Equal(t, float32(8), cfg.Brush.Radius)
	assert.Equal(t, -180.0, cfg.Ranges.Angle.Min)
	assert.Equal(t, Default().Ranges.Scale, cfg.Ranges.Scale, "untouched keys keep defaults")
	assert.Equal(t, "presets", cfg.PresetsDir)
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"level":   "log_level: loud\n",
		"timeout": "close_timeout: 0s\n",
		"range":   "ranges:\n  scale: {min: 5, max: 1}\n",
		"yaml":    "ranges: [\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "c.yaml")
			require.NoError(t, os.WriteFile(path, []byte(data), 0644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, l)
	l, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, l)
}
