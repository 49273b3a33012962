package terrain

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is the editor's perspective view of the terrain.
type Camera struct {
	Eye       mgl32.Vec3
	Center    mgl32.Vec3
	Up        mgl32.Vec3
	FovY      float32 // degrees
	Near      float32
	Far       float32
	ViewportW int
	ViewportH int
}

func (c *Camera) view() mgl32.Mat4 {
	up := c.Up
	if up.Len() == 0 {
		up = mgl32.Vec3{0, 1, 0}
	}
	return mgl32.LookAtV(c.Eye, c.Center, up)
}

func (c *Camera) projection() mgl32.Mat4 {
	aspect := float32(1)
	if c.ViewportH > 0 {
		aspect = float32(c.ViewportW) / float32(c.ViewportH)
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FovY), aspect, c.Near, c.Far)
}

// Ray returns the world-space ray through screen pixel (sx, sy), with the
// origin on the near plane.
func (c *Camera) Ray(sx, sy int) (mgl32.Vec3, mgl32.Vec3) {
	if c.ViewportW <= 0 || c.ViewportH <= 0 {
		return c.Eye, c.Center.Sub(c.Eye).Normalize()
	}
	x := 2*(float32(sx)+0.5)/float32(c.ViewportW) - 1
	y := 1 - 2*(float32(sy)+0.5)/float32(c.ViewportH)
	inv := c.projection().Mul4(c.view()).Inv()

	near := inv.Mul4x1(mgl32.Vec4{x, y, -1, 1})
	far := inv.Mul4x1(mgl32.Vec4{x, y, 1, 1})
	n := near.Vec3().Mul(1 / near[3])
	f := far.Vec3().Mul(1 / far[3])
	return n, f.Sub(n).Normalize()
}

// Project maps a world point to screen pixels. ok is false for points behind
// the camera.
func (c *Camera) Project(p mgl32.Vec3) (x, y float32, ok bool) {
	clip := c.projection().Mul4(c.view()).Mul4x1(p.Vec4(1))
	if clip[3] <= 0 {
		return 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip[3])
	x = (ndc[0] + 1) / 2 * float32(c.ViewportW)
	y = (1 - ndc[1]) / 2 * float32(c.ViewportH)
	return x - 0.5, y - 0.5, true
}

// Pan moves eye and center together along the ground plane.
func (c *Camera) Pan(dx, dz float32) {
	d := mgl32.Vec3{dx, 0, dz}
	c.Eye = c.Eye.Add(d)
	c.Center = c.Center.Add(d)
}

// Zoom moves the eye towards the center by factor, never closer than Near.
func (c *Camera) Zoom(factor float32) {
	off := c.Eye.Sub(c.Center)
	l := off.Len() * factor
	if l < c.Near*2 {
		l = c.Near * 2
	}
	if l > c.Far/2 {
		l = c.Far / 2
	}
	c.Eye = c.Center.Add(off.Normalize().Mul(l))
}

// Picker converts a screen position to the terrain point under it.
type Picker interface {
	Pick(sx, sy int) (mgl32.Vec3, bool)
}

// RayPicker ray-marches the heightmap along the camera ray.
type RayPicker struct {
	Camera *Camera
	Map    *Heightmap
}

func (p *RayPicker) Pick(sx, sy int) (mgl32.Vec3, bool) {
	if p == nil || p.Camera == nil || p.Map == nil {
		return mgl32.Vec3{}, false
	}
	origin, dir := p.Camera.Ray(sx, sy)
	return Intersect(p.Map, origin, dir, p.Camera.Far)
}

// Intersect finds the first point where the ray passes below the surface,
// refined by bisection.
func Intersect(h *Heightmap, origin, dir mgl32.Vec3, maxDist float32) (mgl32.Vec3, bool) {
	if dir.Len() == 0 || maxDist <= 0 {
		return mgl32.Vec3{}, false
	}
	dir = dir.Normalize()
	step := h.CellSize / 2
	above := func(t float32) (bool, bool) {
		p := origin.Add(dir.Mul(t))
		if !h.Contains(p[0], p[2]) {
			return true, false
		}
		return p[1] > h.HeightAt(p[0], p[2]), true
	}

	prev := float32(0)
	for t := step; t <= maxDist; t += step {
		up, inside := above(t)
		if !inside || up {
			prev = t
			continue
		}
		lo, hi := prev, t
		for i := 0; i < 16; i++ {
			mid := (lo + hi) / 2
			if up, _ := above(mid); up {
				lo = mid
			} else {
				hi = mid
			}
		}
		p := origin.Add(dir.Mul(hi))
		p[1] = h.HeightAt(p[0], p[2])
		return p, true
	}
	return mgl32.Vec3{}, false
}
