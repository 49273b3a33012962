package steering

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// Config is the persisted form of one active behavior. Values are bucketed by
// type so they survive JSON and YAML round trips without guessing.
type Config struct {
	Kind      string                `json:"kind" yaml:"kind"`
	Floats    map[string]float32    `json:"floats,omitempty" yaml:"floats,omitempty"`
	Ints      map[string]int        `json:"ints,omitempty" yaml:"ints,omitempty"`
	Bools     map[string]bool       `json:"bools,omitempty" yaml:"bools,omitempty"`
	Vectors   map[string]mgl32.Vec3 `json:"vectors,omitempty" yaml:"vectors,omitempty"`
	Waypoints []mgl32.Vec3          `json:"waypoints,omitempty" yaml:"waypoints,omitempty"`
}

// Export captures every active behavior in declaration order.
func (g *Aggregator) Export() []Config {
	if g == nil {
		return nil
	}
	var out []Config
	for _, k := range g.registry.Active() {
		b := g.registry.Get(k)
		cfg := Config{Kind: k.String()}
		for _, a := range b.attributes() {
			switch a.typ {
			case attrFloat:
				if cfg.Floats == nil {
					cfg.Floats = map[string]float32{}
				}
				cfg.Floats[a.name] = *a.f
			case attrInt:
				if cfg.Ints == nil {
					cfg.Ints = map[string]int{}
				}
				cfg.Ints[a.name] = *a.i
			case attrBool:
				if cfg.Bools == nil {
					cfg.Bools = map[string]bool{}
				}
				cfg.Bools[a.name] = *a.b
			case attrVec3:
				if cfg.Vectors == nil {
					cfg.Vectors = map[string]mgl32.Vec3{}
				}
				cfg.Vectors[a.name] = *a.v
			}
		}
		if fp, ok := b.(*FollowPath); ok && len(fp.Waypoints) > 0 {
			cfg.Waypoints = append([]mgl32.Vec3(nil), fp.Waypoints...)
		}
		out = append(out, cfg)
	}
	return out
}

// Apply activates the behavior named by cfg and writes every value it carries.
func (g *Aggregator) Apply(cfg Config) error {
	kind, ok := ParseKind(cfg.Kind)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
	}
	if err := g.SetActive(kind, true); err != nil {
		return err
	}
	for _, name := range sortedKeys(cfg.Floats) {
		if err := g.SetAttribute(kind, At(name), cfg.Floats[name]); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(cfg.Ints) {
		if err := g.SetAttribute(kind, At(name), cfg.Ints[name]); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(cfg.Bools) {
		if err := g.SetAttribute(kind, At(name), cfg.Bools[name]); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(cfg.Vectors) {
		if err := g.SetAttribute(kind, At(name), cfg.Vectors[name]); err != nil {
			return err
		}
	}
	if fp, ok := g.Behavior(kind).(*FollowPath); ok && cfg.Waypoints != nil {
		fp.Waypoints = append([]mgl32.Vec3(nil), cfg.Waypoints...)
		fp.current = 0
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
