package terrain

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeightmapBilinear(t *testing.T) {
	h, err := NewHeightmap(2, 2, 2)
	require.NoError(t, err)
	require.NoError(t, h.Load([]float32{0, 2, 4, 6}))

	assert.InDelta(t, 0, h.HeightAt(0, 0), 1e-6)
	assert.InDelta(t, 1, h.HeightAt(1, 0), 1e-6)
	assert.InDelta(t, 3, h.HeightAt(1, 1), 1e-6)
	assert.InDelta(t, 6, h.HeightAt(10, 10), 1e-6, "clamped past the edge")

	_, err = NewHeightmap(1, 4, 1)
	assert.ErrorIs(t, err, ErrBadSize)
	assert.ErrorIs(t, h.Load([]float32{1}), ErrBadSize)
}

func texelSum(a *AlphaMaps, x, z int) float32 {
	var s float32
	for l := 0; l < a.Layers; l++ {
		s += a.Weight(l, x, z)
	}
	return s
}

func TestAlphaPaintStaysNormalized(t *testing.T) {
	a, err := NewAlphaMaps(8, 8, 3, 1)
	require.NoError(t, err)
	b := Brush{Radius: 2, Strength: 0.4, Falloff: true}

	center := mgl32.Vec3{4, 0, 4}
	require.Positive(t, a.Paint(center, 1, b))
	require.Positive(t, a.Paint(center, 2, b))
	for z := 0; z < 8; z++ {
		for x := 0; x < 8; x++ {
			assert.InDelta(t, 1, texelSum(a, x, z), 1e-5)
		}
	}
	assert.Greater(t, a.Weight(2, 4, 4), float32(0))
	assert.Equal(t, float32(1), a.Weight(0, 0, 0), "outside the brush")

	for i := 0; i < 10; i++ {
		a.Unpaint(center, 1, b)
		a.Unpaint(center, 2, b)
	}
	assert.InDelta(t, 1, a.Weight(0, 4, 4), 1e-5)
	assert.Zero(t, a.Unpaint(center, 0, b), "base layer cannot be unpainted")
}

func TestPathGridBlockAndFind(t *testing.T) {
	g, err := NewPathGrid(5, 5, 1)
	require.NoError(t, err)

	// wall along x=2 leaving a gap at z=4
	for z := 0; z < 4; z++ {
		g.SetCost(2, z, Blocked)
	}
	path := g.FindPath(Cell{0, 0}, Cell{4, 0}, 1000)
	require.NotEmpty(t, path)
	assert.Equal(t, Cell{0, 0}, path[0])
	assert.Equal(t, Cell{4, 0}, path[len(path)-1])
	for _, c := range path {
		assert.False(t, g.IsBlocked(c.X, c.Z))
	}
	assert.Len(t, path, 13)

	g.SetCost(2, 4, Blocked)
	assert.Nil(t, g.FindPath(Cell{0, 0}, Cell{4, 0}, 1000))
	assert.Nil(t, g.FindPath(Cell{0, 0}, Cell{2, 1}, 1000), "blocked goal")
}

func TestPathGridBrush(t *testing.T) {
	g, err := NewPathGrid(10, 10, 1)
	require.NoError(t, err)
	n := g.Block(mgl32.Vec3{5, 0, 5}, Brush{Radius: 1.5})
	assert.Positive(t, n)
	assert.True(t, g.IsBlocked(5, 5))
	assert.False(t, g.IsBlocked(0, 0))
	assert.Zero(t, g.Block(mgl32.Vec3{5, 0, 5}, Brush{Radius: 1.5}))
	assert.Equal(t, n, g.Unblock(mgl32.Vec3{5, 0, 5}, Brush{Radius: 1.5}))
	assert.True(t, g.IsBlocked(-1, 0), "off grid")
}

func TestRayPicker(t *testing.T) {
	ter, err := New(11, 11, 1, 2)
	require.NoError(t, err)
	for i := range ter.Height.Heights() {
		ter.Height.Heights()[i] = 2
	}
	cam := &Camera{
		Eye:       mgl32.Vec3{5, 10, 5},
		Center:    mgl32.Vec3{5, 0, 5},
		Up:        mgl32.Vec3{0, 0, -1},
		FovY:      60,
		Near:      0.1,
		Far:       100,
		ViewportW: 100,
		ViewportH: 100,
	}
	p, ok := ter.Picker(cam).Pick(50, 50)
	require.True(t, ok)
	assert.InDelta(t, 5, p[0], 0.1)
	assert.InDelta(t, 2, p[1], 1e-4)
	assert.InDelta(t, 5, p[2], 0.1)

	_, ok = Intersect(ter.Height, mgl32.Vec3{5, 10, 5}, mgl32.Vec3{0, 1, 0}, 100)
	assert.False(t, ok, "looking away from the ground")
}

func TestCameraProjectMatchesRay(t *testing.T) {
	cam := &Camera{
		Eye:       mgl32.Vec3{8, 12, 20},
		Center:    mgl32.Vec3{8, 0, 8},
		Up:        mgl32.Vec3{0, 1, 0},
		FovY:      45,
		Near:      0.5,
		Far:       200,
		ViewportW: 320,
		ViewportH: 200,
	}
	origin, dir := cam.Ray(100, 60)
	x, y, ok := cam.Project(origin.Add(dir.Mul(15)))
	require.True(t, ok)
	assert.InDelta(t, 100, x, 0.01)
	assert.InDelta(t, 60, y, 0.01)

	_, _, ok = cam.Project(cam.Eye.Add(cam.Eye.Sub(cam.Center)))
	assert.False(t, ok, "behind the camera")

	cam.Pan(2, -1)
	assert.Equal(t, mgl32.Vec3{10, 0, 7}, cam.Center)
	before := cam.Eye.Sub(cam.Center).Len()
	cam.Zoom(0.5)
	assert.InDelta(t, before/2, cam.Eye.Sub(cam.Center).Len(), 1e-3)
}
