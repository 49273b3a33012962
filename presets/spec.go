// Package presets loads the YAML behavior and water presets and the console
// scripts shipped with the editor. Files in the presets directory override
// the embedded defaults and are watched for changes.
package presets

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/worldeditor/scene"
	"github.com/milk9111/worldeditor/steering"
	"github.com/milk9111/worldeditor/water"
)

func LoadSpec[T any](l *Library, cat Category, name string) (T, error) {
	var zero T
	data, err := l.Load(cat, name)
	if err != nil {
		return zero, fmt.Errorf("presets: load %s/%s: %w", cat, name, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("presets: unmarshal %s/%s: %w", cat, name, err)
	}

	return spec, nil
}

// BehaviorPreset is a reusable steering setup for scene items.
type BehaviorPreset struct {
	Name      string            `yaml:"name"`
	MaxForce  float32           `yaml:"max_force"`
	MaxSpeed  float32           `yaml:"max_speed"`
	Behaviors []steering.Config `yaml:"behaviors"`
}

func (l *Library) LoadBehavior(name string) (BehaviorPreset, error) {
	return LoadSpec[BehaviorPreset](l, Behaviors, name)
}

// ApplyTo replaces the item's behaviors with the preset's. Zero limits keep
// the item's current values.
func (p BehaviorPreset) ApplyTo(it *scene.Item) error {
	if it == nil {
		return nil
	}
	for _, k := range it.Behaviors.Registry().Active() {
		if err := it.Behaviors.SetActive(k, false); err != nil {
			return err
		}
	}
	for _, cfg := range p.Behaviors {
		if err := it.Behaviors.Apply(cfg); err != nil {
			return fmt.Errorf("presets: %s: %w", p.Name, err)
		}
	}
	if p.MaxForce > 0 {
		it.MaxForce = p.MaxForce
	}
	if p.MaxSpeed > 0 {
		it.MaxSpeed = p.MaxSpeed
	}
	return nil
}

// WaterPreset is a named set of water parameters. The colors are written as
// hex strings and override the ones in Params when present.
type WaterPreset struct {
	Name       string       `yaml:"name"`
	Params     water.Params `yaml:"params"`
	SunColor   *HexColor    `yaml:"sun_color"`
	WaterColor *HexColor    `yaml:"water_color"`
}

func (l *Library) LoadWater(name string) (WaterPreset, error) {
	return LoadSpec[WaterPreset](l, Water, name)
}

// Resolve returns the parameters with the hex colors applied.
func (p WaterPreset) Resolve() water.Params {
	out := p.Params
	if p.SunColor != nil {
		out.SunColor = p.SunColor.Vec4()
	}
	if p.WaterColor != nil {
		out.WaterColor = p.WaterColor.Vec4()
	}
	return out
}

// HexColor is an RGBA color. In YAML it is written as "#rgb", "#rgba",
// "#rrggbb" or "#rrggbbaa", as an SVG color name such as "steelblue", or as a
// list of three or four channels between 0 and 1.
type HexColor struct {
	R, G, B, A uint8
}

func (c HexColor) Vec4() mgl32.Vec4 {
	return mgl32.Vec4{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255}
}

func (c HexColor) MarshalYAML() (any, error) {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A), nil
}

func (c *HexColor) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if !strings.HasPrefix(value.Value, "#") {
			named, ok := colornames.Map[strings.ToLower(strings.TrimSpace(value.Value))]
			if !ok {
				return fmt.Errorf("line %d: unknown color %q", value.Line, value.Value)
			}
			*c = HexColor{R: named.R, G: named.G, B: named.B, A: named.A}
			return nil
		}
		ch, err := hexChannels(value.Value[1:])
		if err != nil {
			return fmt.Errorf("line %d: color %q: %w", value.Line, value.Value, err)
		}
		*c = HexColor{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}
		return nil
	case yaml.SequenceNode:
		var fs []float32
		if err := value.Decode(&fs); err != nil {
			return err
		}
		if len(fs) != 3 && len(fs) != 4 {
			return fmt.Errorf("line %d: color needs 3 or 4 channels, got %d", value.Line, len(fs))
		}
		ch := [4]uint8{255, 255, 255, 255}
		for i, f := range fs {
			if f < 0 || f > 1 {
				return fmt.Errorf("line %d: color channel %v outside 0..1", value.Line, f)
			}
			ch[i] = uint8(math.Round(float64(f) * 255))
		}
		*c = HexColor{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}
		return nil
	}
	return fmt.Errorf("line %d: color must be a string or a list", value.Line)
}

// hexChannels decodes 3, 4, 6 or 8 hex digits. Short forms repeat each
// digit; a missing alpha is opaque.
func hexChannels(s string) ([4]uint8, error) {
	ch := [4]uint8{0, 0, 0, 255}
	width := 2
	switch len(s) {
	case 3, 4:
		width = 1
	case 6, 8:
	default:
		return ch, fmt.Errorf("want 3, 4, 6 or 8 hex digits, got %d", len(s))
	}
	for i := 0; i*width < len(s); i++ {
		v, err := strconv.ParseUint(s[i*width:(i+1)*width], 16, 8)
		if err != nil {
			return ch, err
		}
		if width == 1 {
			v *= 17
		}
		ch[i] = uint8(v)
	}
	return ch, nil
}
