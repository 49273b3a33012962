package terrain

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrBadSize      = errors.New("terrain: invalid size")
	ErrCloseTimeout = errors.New("terrain: paint window did not close in time")
)

// Heightmap is a grid of vertex heights spaced CellSize world units apart.
type Heightmap struct {
	Width    int
	Depth    int
	CellSize float32
	heights  []float32
}

func NewHeightmap(width, depth int, cellSize float32) (*Heightmap, error) {
	if width < 2 || depth < 2 || cellSize <= 0 {
		return nil, fmt.Errorf("%w: %dx%d cell %v", ErrBadSize, width, depth, cellSize)
	}
	return &Heightmap{
		Width:    width,
		Depth:    depth,
		CellSize: cellSize,
		heights:  make([]float32, width*depth),
	}, nil
}

// Extent is the world size covered by the map.
func (h *Heightmap) Extent() (float32, float32) {
	return float32(h.Width-1) * h.CellSize, float32(h.Depth-1) * h.CellSize
}

// At returns the height of vertex (x, z), clamped to the grid.
func (h *Heightmap) At(x, z int) float32 {
	x = clampInt(x, 0, h.Width-1)
	z = clampInt(z, 0, h.Depth-1)
	return h.heights[z*h.Width+x]
}

// Set writes the height of vertex (x, z). Out of range writes are ignored.
func (h *Heightmap) Set(x, z int, v float32) {
	if x < 0 || z < 0 || x >= h.Width || z >= h.Depth {
		return
	}
	h.heights[z*h.Width+x] = v
}

// Heights exposes the row-major height data.
func (h *Heightmap) Heights() []float32 {
	return h.heights
}

// Load replaces the height data; data must hold Width*Depth values.
func (h *Heightmap) Load(data []float32) error {
	if len(data) != len(h.heights) {
		return fmt.Errorf("%w: %d heights for %dx%d", ErrBadSize, len(data), h.Width, h.Depth)
	}
	copy(h.heights, data)
	return nil
}

// HeightAt samples the surface at world (x, z) with bilinear interpolation.
func (h *Heightmap) HeightAt(x, z float32) float32 {
	fx := float64(x / h.CellSize)
	fz := float64(z / h.CellSize)
	x0 := int(math.Floor(fx))
	z0 := int(math.Floor(fz))
	tx := float32(fx - float64(x0))
	tz := float32(fz - float64(z0))

	a := h.At(x0, z0)
	b := h.At(x0+1, z0)
	c := h.At(x0, z0+1)
	d := h.At(x0+1, z0+1)
	top := a + (b-a)*tx
	bottom := c + (d-c)*tx
	return top + (bottom-top)*tz
}

// Contains reports whether world (x, z) lies over the map.
func (h *Heightmap) Contains(x, z float32) bool {
	w, d := h.Extent()
	return x >= 0 && z >= 0 && x <= w && z <= d
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
