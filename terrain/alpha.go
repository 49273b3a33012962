package terrain

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Brush shapes a paint stroke. Strength is the weight added per stamp at the
// center; it falls off linearly to zero at Radius when Falloff is set.
type Brush struct {
	Radius   float32 `yaml:"radius" json:"radius"`
	Strength float32 `yaml:"strength" json:"strength"`
	Falloff  bool    `yaml:"falloff" json:"falloff"`
}

// weight returns the brush influence at distance d from the center.
func (b Brush) weight(d float32) float32 {
	if d > b.Radius {
		return 0
	}
	if !b.Falloff || b.Radius <= 0 {
		return b.Strength
	}
	return b.Strength * (1 - d/b.Radius)
}

// AlphaMaps stores per-texel blend weights for the terrain's texture layers.
// Weights of a texel always sum to one; layer 0 is the base texture.
type AlphaMaps struct {
	Width     int
	Depth     int
	Layers    int
	TexelSize float32
	weights   []float32
}

func NewAlphaMaps(width, depth, layers int, texelSize float32) (*AlphaMaps, error) {
	if width < 1 || depth < 1 || layers < 1 || texelSize <= 0 {
		return nil, fmt.Errorf("%w: alpha %dx%d layers %d", ErrBadSize, width, depth, layers)
	}
	a := &AlphaMaps{
		Width:     width,
		Depth:     depth,
		Layers:    layers,
		TexelSize: texelSize,
		weights:   make([]float32, width*depth*layers),
	}
	for i := 0; i < width*depth; i++ {
		a.weights[i*layers] = 1
	}
	return a, nil
}

// Weight returns the blend weight of layer at texel (x, z).
func (a *AlphaMaps) Weight(layer, x, z int) float32 {
	if layer < 0 || layer >= a.Layers || x < 0 || z < 0 || x >= a.Width || z >= a.Depth {
		return 0
	}
	return a.weights[(z*a.Width+x)*a.Layers+layer]
}

// Weights exposes the raw texel-major data.
func (a *AlphaMaps) Weights() []float32 {
	return a.weights
}

// Load replaces the raw weights.
func (a *AlphaMaps) Load(data []float32) error {
	if len(data) != len(a.weights) {
		return fmt.Errorf("%w: %d weights for %dx%dx%d", ErrBadSize, len(data), a.Width, a.Depth, a.Layers)
	}
	copy(a.weights, data)
	return nil
}

// Paint raises layer around center. It returns how many texels changed.
func (a *AlphaMaps) Paint(center mgl32.Vec3, layer int, b Brush) int {
	return a.stamp(center, b, func(texel []float32, w float32) bool {
		if layer < 0 || layer >= len(texel) {
			return false
		}
		return raise(texel, layer, w)
	})
}

// Unpaint lowers layer around center, handing its weight back to the base
// layer.
func (a *AlphaMaps) Unpaint(center mgl32.Vec3, layer int, b Brush) int {
	return a.stamp(center, b, func(texel []float32, w float32) bool {
		if layer <= 0 || layer >= len(texel) {
			return false
		}
		cut := float32(math.Min(float64(w), float64(texel[layer])))
		if cut <= 0 {
			return false
		}
		texel[layer] -= cut
		texel[0] += cut
		return true
	})
}

func (a *AlphaMaps) stamp(center mgl32.Vec3, b Brush, apply func(texel []float32, w float32) bool) int {
	if b.Radius <= 0 || b.Strength <= 0 {
		return 0
	}
	cx := center[0] / a.TexelSize
	cz := center[2] / a.TexelSize
	r := b.Radius / a.TexelSize
	x0 := clampInt(int(math.Floor(float64(cx-r))), 0, a.Width-1)
	x1 := clampInt(int(math.Ceil(float64(cx+r))), 0, a.Width-1)
	z0 := clampInt(int(math.Floor(float64(cz-r))), 0, a.Depth-1)
	z1 := clampInt(int(math.Ceil(float64(cz+r))), 0, a.Depth-1)

	changed := 0
	for z := z0; z <= z1; z++ {
		for x := x0; x <= x1; x++ {
			dx := (float32(x) - cx) * a.TexelSize
			dz := (float32(z) - cz) * a.TexelSize
			w := b.weight(float32(math.Sqrt(float64(dx*dx + dz*dz))))
			if w <= 0 {
				continue
			}
			i := (z*a.Width + x) * a.Layers
			if apply(a.weights[i:i+a.Layers], w) {
				changed++
			}
		}
	}
	return changed
}

// raise adds w to layer and scales the other layers down so the texel still
// sums to one.
func raise(texel []float32, layer int, w float32) bool {
	cur := texel[layer]
	if cur >= 1 {
		return false
	}
	next := float32(math.Min(1, float64(cur+w)))
	rest := 1 - cur
	scale := float32(0)
	if rest > 0 {
		scale = (1 - next) / rest
	}
	for i := range texel {
		if i == layer {
			texel[i] = next
		} else {
			texel[i] *= scale
		}
	}
	return true
}
