package main

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"strings"

	"github.com/ebitenui/ebitenui/input"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/worldeditor/editor"
	"github.com/milk9111/worldeditor/presets"
	"github.com/milk9111/worldeditor/scene"
	"github.com/milk9111/worldeditor/terrain"
)

const (
	pickRadius  = 1.5
	panSpeed    = 0.02
	zoomPerTick = 0.9
	treeModel   = "tree"
	unitType    = "soldier"
)

var backgroundColor = color.RGBA{30, 34, 40, 255}

// selection is what the canvas highlights.
type selection struct {
	item     scene.Handle
	hasItem  bool
	instance *scene.Instance
}

type Game struct {
	session   *editor.Session
	ui        *editorUI
	canvas    canvas
	clipboard *behaviorClipboard
	watcher   *presets.Watcher
	log       *slog.Logger

	simulating bool
	closing    bool
	closeDone  chan error
	message    string
}

func NewGame(s *editor.Session, watcher *presets.Watcher, log *slog.Logger) (*Game, error) {
	g := &Game{
		session:   s,
		clipboard: newBehaviorClipboard(log),
		watcher:   watcher,
		log:       log,
		closeDone: make(chan error, 1),
	}
	ui, err := newEditorUI(s, log, toolbarActions{
		openMaps:   g.openMaps,
		openPaint:  g.openPaint,
		simulate:   func() { g.simulating = !g.simulating },
		copy:       g.copyBehaviors,
		paste:      g.pasteBehaviors,
		closePaint: g.closePaint,
	})
	if err != nil {
		return nil, err
	}
	g.ui = ui
	return g, nil
}

func (g *Game) Update() error {
	g.ui.ui.Update()
	g.ui.paint.poll()
	g.pollClose()
	g.drainPresets()

	if err := g.hotkeys(); err != nil {
		return err
	}
	g.paintTick()
	g.pick()

	if g.simulating {
		g.session.Simulate(1 / float32(ebiten.TPS()))
	}
	g.session.World.Scene.PrepareRender()

	g.ui.status.Label = g.message
	g.ui.sync()
	return nil
}

func (g *Game) pollClose() {
	select {
	case err := <-g.closeDone:
		g.closing = false
		if err != nil {
			g.report("close paint", err)
		}
	default:
	}
}

func (g *Game) drainPresets() {
	if g.watcher == nil {
		return
	}
	changed := g.watcher.Drain()
	if len(changed) == 0 {
		return
	}
	r, err := g.session.ReloadPresets(changed)
	if r.Has(presets.Behaviors) {
		g.ui.props.presets.fill()
	}
	if r.Has(presets.Water) {
		g.ui.tools.presets.fill()
	}
	if r.Water {
		g.ui.waterForm.Form.Refresh()
	}
	if len(r.Categories) > 0 {
		g.message = fmt.Sprintf("%d preset(s) reloaded", len(changed))
	}
	g.report("reload presets", err)
}

func (g *Game) hotkeys() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		return ebiten.Termination
	}
	if g.ui.maps.isOpen() {
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			g.ui.maps.hide()
		}
		return nil
	}
	if g.ui.typing() {
		return nil
	}

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl)
	switch {
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyS):
		g.quickSave()
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyC):
		g.copyBehaviors()
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyV):
		g.pasteBehaviors()
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		g.openMaps()
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		g.openPaint()
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		g.closePaint()
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.simulating = !g.simulating
	case inpututil.IsKeyJustPressed(ebiten.KeyDelete):
		g.deleteSelection()
	case inpututil.IsKeyJustPressed(ebiten.KeyI):
		g.addItem()
	case inpututil.IsKeyJustPressed(ebiten.KeyT):
		g.addTree()
	}

	if !ctrl {
		g.moveCamera()
	}
	return nil
}

func (g *Game) moveCamera() {
	cam := g.session.Camera
	step := cam.Eye.Sub(cam.Center).Len() * panSpeed
	var dx, dz float32
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		dx -= step
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		dx += step
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		dz -= step
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		dz += step
	}
	if dx != 0 || dz != 0 {
		cam.Pan(dx, dz)
	}
	if _, wy := ebiten.Wheel(); wy != 0 && !input.UIHovered {
		cam.Zoom(float32(math.Pow(zoomPerTick, wy)))
	}
}

func (g *Game) paintTick() {
	if g.closing || !g.session.Paint.Active() {
		return
	}
	x, y := ebiten.CursorPosition()
	g.session.Paint.Tick(terrain.Input{
		Button:         ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		X:              x,
		Y:              y,
		OverToolWindow: input.UIHovered || g.ui.paint.contains(x, y),
	})
}

// pick selects the item or instance under a click.
func (g *Game) pick() {
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) || input.UIHovered {
		return
	}
	if g.closing || g.session.Paint.Active() || g.ui.maps.isOpen() {
		return
	}
	p, ok := g.ground()
	if !ok {
		return
	}
	around := cp.NewBBForCircle(cp.Vector{X: float64(p[0]), Y: float64(p[2])}, pickRadius)

	var best string
	bestDist := math.Inf(1)
	for _, key := range g.session.World.Scene.Visible(around) {
		pos, ok := g.entryPosition(key)
		if !ok {
			continue
		}
		if d := float64(mgl32.Vec2{pos[0] - p[0], pos[2] - p[2]}.Len()); d < bestDist {
			best, bestDist = key, d
		}
	}
	if best == "" {
		g.session.ClearSelection()
		return
	}
	g.report("select", g.selectKey(best))
}

// entryPosition finds the world position behind a spatial index key.
func (g *Game) entryPosition(key string) (mgl32.Vec3, bool) {
	prefix, rest, ok := strings.Cut(key, ":")
	if !ok {
		return mgl32.Vec3{}, false
	}
	id, err := uuid.Parse(rest)
	if err != nil {
		return mgl32.Vec3{}, false
	}
	sc := g.session.World.Scene
	if prefix == "item" {
		if h, ok := g.itemHandle(id); ok {
			it, _ := sc.Item(h)
			return it.Position, true
		}
		return mgl32.Vec3{}, false
	}
	m, ok := sc.Model(prefix)
	if !ok {
		return mgl32.Vec3{}, false
	}
	in, ok := m.Find(id)
	if !ok {
		return mgl32.Vec3{}, false
	}
	return in.Position, true
}

func (g *Game) selectKey(key string) error {
	prefix, rest, _ := strings.Cut(key, ":")
	id, err := uuid.Parse(rest)
	if err != nil {
		return err
	}
	if prefix == "item" {
		h, ok := g.itemHandle(id)
		if !ok {
			return scene.ErrNotFound
		}
		return g.session.SelectItem(h)
	}
	m, ok := g.session.World.Scene.Model(prefix)
	if !ok {
		return scene.ErrNotFound
	}
	in, ok := m.Find(id)
	if !ok {
		return scene.ErrNotFound
	}
	return g.session.SelectInstance(prefix, in)
}

func (g *Game) itemHandle(id uuid.UUID) (scene.Handle, bool) {
	sc := g.session.World.Scene
	for _, h := range sc.Handles() {
		if it, ok := sc.Item(h); ok && it.ID == id {
			return h, true
		}
	}
	return scene.Handle{}, false
}

// ground is the terrain point under the cursor.
func (g *Game) ground() (mgl32.Vec3, bool) {
	x, y := ebiten.CursorPosition()
	return g.session.World.Terrain.Picker(g.session.Camera).Pick(x, y)
}

func (g *Game) addItem() {
	p, ok := g.ground()
	if !ok {
		return
	}
	sc := g.session.World.Scene
	name := ""
	for n := len(sc.Handles()) + 1; ; n++ {
		name = fmt.Sprintf("unit%d", n)
		if _, taken := sc.FindByName(name); !taken {
			break
		}
	}
	it := scene.NewItem(name, unitType)
	it.Position = p
	h, err := sc.AddItem(it)
	if err != nil {
		g.report("add item", err)
		return
	}
	g.report("select", g.session.SelectItem(h))
}

func (g *Game) addTree() {
	p, ok := g.ground()
	if !ok {
		return
	}
	sc := g.session.World.Scene
	m, ok := sc.Model(treeModel)
	if !ok {
		m = scene.NewInstancedModel(treeModel, 0.5)
		if err := sc.AddModel(m); err != nil {
			g.report("add model", err)
			return
		}
	}
	in := m.Add(p)
	sc.Index().MarkDirty()
	g.report("select", g.session.SelectInstance(treeModel, in))
}

func (g *Game) deleteSelection() {
	sc := g.session.World.Scene
	if _, h, ok := g.session.SelectedItem(); ok {
		sc.RemoveItem(h)
	} else if in, model, ok := g.session.SelectedInstance(); ok {
		if m, ok := sc.Model(model); ok {
			m.Remove(in.ID)
			sc.Index().MarkDirty()
		}
	} else {
		return
	}
	g.session.ClearSelection()
}

func (g *Game) openMaps() {
	g.ui.maps.open()
}

func (g *Game) quickSave() {
	if g.session.MapName == "" {
		g.openMaps()
		return
	}
	if err := g.session.SaveMap(g.session.MapName, true); err != nil {
		g.report("save map", err)
		return
	}
	g.message = "saved " + g.session.MapName
}

func (g *Game) openPaint() {
	if g.closing || g.session.Paint.Active() {
		return
	}
	g.session.Paint.Open(g.ui.paint)
	g.ui.paint.show()
}

// closePaint starts closing the paint window. The close waits on the UI loop
// to confirm, so it cannot run on it.
func (g *Game) closePaint() {
	if g.closing || !g.session.Paint.Active() {
		return
	}
	g.closing = true
	go func() {
		g.closeDone <- g.session.ClosePaint(context.Background())
	}()
}

func (g *Game) copyBehaviors() {
	if err := g.clipboard.copy(g.session); err != nil {
		g.report("copy behaviors", err)
		return
	}
	g.message = "behaviors copied"
}

func (g *Game) pasteBehaviors() {
	if err := g.clipboard.paste(g.session); err != nil {
		g.report("paste behaviors", err)
		return
	}
	g.message = "behaviors pasted"
}

func (g *Game) report(what string, err error) {
	if err == nil {
		return
	}
	g.log.Warn(what, "err", err)
	g.message = what + ": " + err.Error()
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	s := g.session
	t := s.World.Terrain

	g.canvas.drawTerrain(screen, t, s.Camera)
	g.canvas.drawScene(screen, s.World.Scene, s.Camera, g.viewBounds(screen), g.selection())

	if !g.closing && s.Paint.Active() {
		if p, ok := g.ground(); ok {
			drawBrush(screen, t, s.Camera, p, s.Paint.Brush.Radius)
		}
	}

	instances := 0
	for _, m := range s.World.Scene.Models() {
		instances += len(m.Instances())
	}
	drawStatus(screen,
		statusLine(s.MapName, len(s.World.Scene.Handles()), instances, g.simulating),
		fmt.Sprintf("TPS %.0f  FPS %.0f", ebiten.ActualTPS(), ebiten.ActualFPS()))

	g.ui.ui.Draw(screen)
}

// viewBounds is the ground-plane box seen by the camera, or the whole map
// when a screen corner misses the terrain.
func (g *Game) viewBounds(screen *ebiten.Image) cp.BB {
	ex, ez := g.session.World.Terrain.Height.Extent()
	whole := cp.BB{L: 0, B: 0, R: float64(ex), T: float64(ez)}

	picker := g.session.World.Terrain.Picker(g.session.Camera)
	b := screen.Bounds()
	bb := cp.BB{L: math.Inf(1), B: math.Inf(1), R: math.Inf(-1), T: math.Inf(-1)}
	for _, c := range [][2]int{{0, 0}, {b.Dx() - 1, 0}, {0, b.Dy() - 1}, {b.Dx() - 1, b.Dy() - 1}} {
		p, ok := picker.Pick(c[0], c[1])
		if !ok {
			return whole
		}
		bb = bb.Expand(cp.Vector{X: float64(p[0]), Y: float64(p[2])})
	}
	return bb
}

func (g *Game) selection() selection {
	var sel selection
	if _, h, ok := g.session.SelectedItem(); ok {
		sel.item, sel.hasItem = h, true
	}
	if in, _, ok := g.session.SelectedInstance(); ok {
		sel.instance = in
	}
	return sel
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.session.Camera.ViewportW = outsideWidth
	g.session.Camera.ViewportH = outsideHeight
	return outsideWidth, outsideHeight
}
