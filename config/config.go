// Package config loads the editor's YAML settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/worldeditor/form"
	"github.com/milk9111/worldeditor/terrain"
)

// DefaultPath is where the editor looks for its settings.
const DefaultPath = "worldeditor.yaml"

// Config is the editor's settings file.
type Config struct {
	LogLevel     string        `yaml:"log_level"`
	MapsDir      string        `yaml:"maps_dir"`
	PresetsDir   string        `yaml:"presets_dir"`
	WindowWidth  int           `yaml:"window_width"`
	WindowHeight int           `yaml:"window_height"`
	CloseTimeout time.Duration `yaml:"close_timeout"`
	Brush        terrain.Brush `yaml:"brush"`
	NewMap       NewMapConfig  `yaml:"new_map"`
	Ranges       Ranges        `yaml:"ranges"`
}

// NewMapConfig sizes the terrain of a new map.
type NewMapConfig struct {
	Width    int     `yaml:"width"`
	Depth    int     `yaml:"depth"`
	CellSize float32 `yaml:"cell_size"`
	Layers   int     `yaml:"layers"`
}

// Ranges bound the numeric fields of the properties form.
type Ranges struct {
	Height   form.Range `yaml:"height"`
	Angle    form.Range `yaml:"angle"`
	Scale    form.Range `yaml:"scale"`
	MaxForce form.Range `yaml:"max_force"`
	MaxSpeed form.Range `yaml:"max_speed"`
	Player   form.Range `yaml:"player"`
}

func Default() Config {
	return Config{
		LogLevel:     "info",
		MapsDir:      "maps",
		PresetsDir:   "presets",
		WindowWidth:  1280,
		WindowHeight: 800,
		CloseTimeout: terrain.DefaultCloseTimeout,
		Brush:        terrain.Brush{Radius: 4, Strength: 0.25, Falloff: true},
		NewMap:       NewMapConfig{Width: 129, Depth: 129, CellSize: 1, Layers: 4},
		Ranges: Ranges{
			Height:   form.Range{Min: -100, Max: 100},
			Angle:    form.Range{Min: 0, Max: 360},
			Scale:    form.Range{Min: 0.1, Max: 10},
			MaxForce: form.Range{Min: 0, Max: 100},
			MaxSpeed: form.Range{Min: 0, Max: 50},
			Player:   form.Range{Min: 0, Max: 8},
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values a YAML file can get wrong.
func (c Config) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.CloseTimeout <= 0 {
		return fmt.Errorf("close_timeout must be positive, got %s", c.CloseTimeout)
	}
	for name, r := range map[string]form.Range{
		"height":    c.Ranges.Height,
		"angle":     c.Ranges.Angle,
		"scale":     c.Ranges.Scale,
		"max_force": c.Ranges.MaxForce,
		"max_speed": c.Ranges.MaxSpeed,
		"player":    c.Ranges.Player,
	} {
		if r.Min > r.Max {
			return fmt.Errorf("range %s: min %v above max %v", name, r.Min, r.Max)
		}
	}
	return nil
}

// ParseLevel maps a level name to its slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s", s)
	}
}
