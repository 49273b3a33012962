// Package terrain holds the editable ground of a map: heights, texture blend
// weights and the path-finding cost grid, plus the paint tool that edits them.
package terrain

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Terrain bundles the three grids of one map. The alpha maps share the
// heightmap's vertex grid; the path grid has one cell per heightmap quad.
type Terrain struct {
	Height *Heightmap
	Alpha  *AlphaMaps
	Paths  *PathGrid
}

func New(width, depth int, cellSize float32, layers int) (*Terrain, error) {
	h, err := NewHeightmap(width, depth, cellSize)
	if err != nil {
		return nil, err
	}
	a, err := NewAlphaMaps(width, depth, layers, cellSize)
	if err != nil {
		return nil, err
	}
	p, err := NewPathGrid(width-1, depth-1, cellSize)
	if err != nil {
		return nil, err
	}
	return &Terrain{Height: h, Alpha: a, Paths: p}, nil
}

func (t *Terrain) HeightAt(x, z float32) float32 {
	return t.Height.HeightAt(x, z)
}

func (t *Terrain) Paint(center mgl32.Vec3, layer int, b Brush) int {
	return t.Alpha.Paint(center, layer, b)
}

func (t *Terrain) Unpaint(center mgl32.Vec3, layer int, b Brush) int {
	return t.Alpha.Unpaint(center, layer, b)
}

func (t *Terrain) Block(center mgl32.Vec3, b Brush) int {
	return t.Paths.Block(center, b)
}

func (t *Terrain) Unblock(center mgl32.Vec3, b Brush) int {
	return t.Paths.Unblock(center, b)
}

// Picker returns a ray picker over this terrain's heightmap.
func (t *Terrain) Picker(cam *Camera) *RayPicker {
	return &RayPicker{Camera: cam, Map: t.Height}
}
