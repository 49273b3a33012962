package main

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/jakecoffman/cp"
	"golang.org/x/image/colornames"

	"github.com/milk9111/worldeditor/scene"
	"github.com/milk9111/worldeditor/terrain"
)

// maxMeshVertices keeps the terrain mesh inside 16-bit indices.
const maxMeshVertices = 65000

var whiteImage = func() *ebiten.Image {
	img := ebiten.NewImage(3, 3)
	img.Fill(color.White)
	return img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}()

var layerColors = []color.RGBA{
	{96, 128, 64, 255},
	{140, 110, 80, 255},
	{150, 150, 150, 255},
	{220, 210, 160, 255},
	{240, 240, 250, 255},
}

var playerColors = []color.RGBA{
	colornames.White,
	colornames.Royalblue,
	colornames.Crimson,
	colornames.Gold,
	colornames.Limegreen,
	colornames.Darkorange,
	colornames.Mediumpurple,
	colornames.Turquoise,
	colornames.Hotpink,
}

var sunDir = mgl32.Vec3{0.4, 0.8, 0.3}.Normalize()

// canvas draws the open map from the session camera.
type canvas struct {
	vertices []ebiten.Vertex
	indices  []uint16
	visible  []bool
}

func (c *canvas) drawTerrain(screen *ebiten.Image, t *terrain.Terrain, cam *terrain.Camera) {
	h := t.Height
	step := 1
	for ((h.Width-1)/step+1)*((h.Depth-1)/step+1) > maxMeshVertices {
		step++
	}
	cols := (h.Width-1)/step + 1
	rows := (h.Depth-1)/step + 1

	c.vertices = c.vertices[:0]
	c.indices = c.indices[:0]
	c.visible = c.visible[:0]
	for zi := 0; zi < rows; zi++ {
		z := min(zi*step, h.Depth-1)
		for xi := 0; xi < cols; xi++ {
			x := min(xi*step, h.Width-1)
			p := mgl32.Vec3{float32(x) * h.CellSize, h.At(x, z), float32(z) * h.CellSize}
			sx, sy, ok := cam.Project(p)
			r, g, b := vertexColor(t, x, z)
			c.vertices = append(c.vertices, ebiten.Vertex{
				DstX: sx, DstY: sy,
				SrcX: 1, SrcY: 1,
				ColorR: r, ColorG: g, ColorB: b, ColorA: 1,
			})
			c.visible = append(c.visible, ok)
		}
	}
	for zi := 0; zi < rows-1; zi++ {
		for xi := 0; xi < cols-1; xi++ {
			i0 := zi*cols + xi
			i1, i2, i3 := i0+1, i0+cols, i0+cols+1
			if !c.visible[i0] || !c.visible[i1] || !c.visible[i2] || !c.visible[i3] {
				continue
			}
			c.indices = append(c.indices,
				uint16(i0), uint16(i1), uint16(i2),
				uint16(i1), uint16(i3), uint16(i2))
		}
	}
	screen.DrawTriangles(c.vertices, c.indices, whiteImage, &ebiten.DrawTrianglesOptions{})
}

// vertexColor blends the texture layer colors by weight, lights the result
// by the surface slope and tints blocked ground red.
func vertexColor(t *terrain.Terrain, x, z int) (float32, float32, float32) {
	var r, g, b float32
	for l := 0; l < t.Alpha.Layers; l++ {
		w := t.Alpha.Weight(l, x, z)
		lc := layerColors[l%len(layerColors)]
		r += w * float32(lc.R) / 255
		g += w * float32(lc.G) / 255
		b += w * float32(lc.B) / 255
	}

	h := t.Height
	left, right := h.At(max(x-1, 0), z), h.At(min(x+1, h.Width-1), z)
	down, up := h.At(x, max(z-1, 0)), h.At(x, min(z+1, h.Depth-1))
	n := mgl32.Vec3{left - right, 2 * h.CellSize, down - up}.Normalize()
	light := 0.35 + 0.65*float32(math.Max(0, float64(n.Dot(sunDir))))
	r, g, b = r*light, g*light, b*light

	if blockedAround(t.Paths, x, z) {
		r, g, b = (r+1)/2, g/2, b/2
	}
	return r, g, b
}

// blockedAround reports whether any path cell touching vertex (x, z) is
// impassable.
func blockedAround(p *terrain.PathGrid, x, z int) bool {
	for dz := -1; dz <= 0; dz++ {
		for dx := -1; dx <= 0; dx++ {
			cx, cz := x+dx, z+dz
			if cx < 0 || cz < 0 || cx >= p.Width || cz >= p.Depth {
				continue
			}
			if p.IsBlocked(cx, cz) {
				return true
			}
		}
	}
	return false
}

// drawScene marks the items and instances inside view.
func (c *canvas) drawScene(screen *ebiten.Image, sc *scene.Scene, cam *terrain.Camera, view cp.BB, sel selection) {
	keys := map[string]bool{}
	for _, k := range sc.Visible(view) {
		keys[k] = true
	}

	for _, m := range sc.Models() {
		for _, in := range m.Instances() {
			if !keys[m.Name+":"+in.ID.String()] {
				continue
			}
			sx, sy, ok := cam.Project(in.Position)
			if !ok {
				continue
			}
			size := 4 + 2*float64(in.Scale)
			clr := color.Color(colornames.Forestgreen)
			if sel.instance == in {
				clr = colornames.Yellow
			}
			ebitenutil.DrawRect(screen, float64(sx)-size/2, float64(sy)-size/2, size, size, clr)
		}
	}

	for _, h := range sc.Handles() {
		it, _ := sc.Item(h)
		if !keys["item:"+it.ID.String()] {
			continue
		}
		sx, sy, ok := cam.Project(it.Position)
		if !ok {
			continue
		}
		clr := color.Color(playerColors[it.PlayerNumber%len(playerColors)])
		if sel.hasItem && sel.item == h {
			clr = colornames.Yellow
		}
		size := 6 + 2*float64(it.Scale)
		ebitenutil.DrawRect(screen, float64(sx)-size/2, float64(sy)-size/2, size, size, clr)
		if hx, hy, ok := cam.Project(it.Position.Add(it.Heading().Mul(it.Radius * it.Scale * 2))); ok {
			ebitenutil.DrawLine(screen, float64(sx), float64(sy), float64(hx), float64(hy), clr)
		}
		ebitenutil.DebugPrintAt(screen, it.Name, int(sx)+6, int(sy)+4)
	}
}

// drawBrush outlines the paint brush on the ground around center.
func drawBrush(screen *ebiten.Image, t *terrain.Terrain, cam *terrain.Camera, center mgl32.Vec3, radius float32) {
	const segments = 32
	var prevX, prevY float32
	for i := 0; i <= segments; i++ {
		a := float64(i) / segments * 2 * math.Pi
		x := center[0] + radius*float32(math.Cos(a))
		z := center[2] + radius*float32(math.Sin(a))
		sx, sy, ok := cam.Project(mgl32.Vec3{x, t.HeightAt(x, z) + 0.05, z})
		if !ok {
			return
		}
		if i > 0 {
			ebitenutil.DrawLine(screen, float64(prevX), float64(prevY), float64(sx), float64(sy), colornames.Orange)
		}
		prevX, prevY = sx, sy
	}
}

func drawStatus(screen *ebiten.Image, lines ...string) {
	for i, l := range lines {
		ebitenutil.DebugPrintAt(screen, l, 392, screen.Bounds().Dy()-170-14*(len(lines)-i))
	}
}

func statusLine(name string, items, instances int, simulating bool) string {
	if name == "" {
		name = "(unsaved)"
	}
	sim := ""
	if simulating {
		sim = "  simulating"
	}
	return fmt.Sprintf("map %s  items %d  instances %d%s", name, items, instances, sim)
}
