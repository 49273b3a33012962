package editor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/worldeditor/config"
	"github.com/milk9111/worldeditor/form"
	"github.com/milk9111/worldeditor/material"
	"github.com/milk9111/worldeditor/presets"
	"github.com/milk9111/worldeditor/scene"
	"github.com/milk9111/worldeditor/steering"
	"github.com/milk9111/worldeditor/terrain"
	"github.com/milk9111/worldeditor/water"
)

func newSession(t *testing.T) *Session {
	t.Helper()
	cfg := config.Default()
	cfg.MapsDir = t.TempDir()
	cfg.PresetsDir = ""
	cfg.NewMap = config.NewMapConfig{Width: 17, Depth: 17, CellSize: 1, Layers: 2}
	s, err := NewSession(cfg, nil)
	require.NoError(t, err)
	return s
}

func addItem(t *testing.T, s *Session, name string) scene.Handle {
	t.Helper()
	h, err := s.World.Scene.AddItem(scene.NewItem(name, "soldier"))
	require.NoError(t, err)
	return h
}

// spinner records what a form wrote into it.
type spinner struct{ shown []float64 }

func (sp *spinner) Set(v float64) { sp.shown = append(sp.shown, v) }

func TestPropertiesRefreshOnSelect(t *testing.T) {
	s := newSession(t)
	p := NewPropertiesForm(s)
	h := addItem(t, s, "scout")
	it, _ := s.World.Scene.Item(h)
	it.Angle = 30

	track, spin := &spinner{}, &spinner{}
	p.Angle.Attach(track)
	p.Angle.Attach(spin)

	require.NoError(t, s.SelectItem(h))
	assert.Equal(t, []float64{30}, track.shown)
	assert.Equal(t, []float64{30}, spin.shown)
	assert.Equal(t, float32(30), it.Angle, "refresh never writes the model")
}

func TestPropertiesClampAndMirror(t *testing.T) {
	s := newSession(t)
	p := NewPropertiesForm(s)
	h := addItem(t, s, "scout")
	require.NoError(t, s.SelectItem(h))

	track, spin := &spinner{}, &spinner{}
	ti := p.Scale.Attach(track)
	si := p.Scale.Attach(spin)

	require.NoError(t, p.Scale.Edited(si, 500))
	it, _ := s.World.Scene.Item(h)
	assert.Equal(t, float32(10), it.Scale)
	assert.Equal(t, []float64{10}, track.shown)
	assert.Equal(t, []float64{10}, spin.shown, "clamped value is written back")

	// the trackbar's deferred change event for the mirrored value is ignored
	require.NoError(t, p.Scale.Edited(ti, 10))
	assert.Len(t, track.shown, 1)

	require.NoError(t, p.Angle.Edited(-1, -45))
	assert.Equal(t, float32(0), it.Angle)
	require.NoError(t, p.Height.Edited(-1, 1000))
	assert.Equal(t, float32(100), it.Position[1])
}

func TestPropertiesWithoutSelection(t *testing.T) {
	s := newSession(t)
	p := NewPropertiesForm(s)
	h := addItem(t, s, "scout")

	require.NoError(t, p.MaxForce.Edited(-1, 50))
	require.NoError(t, p.ToggleBehavior(steering.KindSeek, -1, true))
	it, _ := s.World.Scene.Item(h)
	assert.Equal(t, float32(10), it.MaxForce)
	assert.Zero(t, it.Behaviors.Registry().Len())
}

func TestBehaviorToggleAndAttributes(t *testing.T) {
	s := newSession(t)
	p := NewPropertiesForm(s)
	h := addItem(t, s, "scout")
	require.NoError(t, s.SelectItem(h))
	it, _ := s.World.Scene.Item(h)

	flee := AttrKey{Kind: steering.KindFlee, Path: steering.At(steering.PropPanicDistance)}
	require.NoError(t, p.Numbers[flee].Edited(-1, 25))
	assert.False(t, it.Behaviors.Registry().Has(steering.KindFlee), "inactive write creates nothing")

	panicDist := &spinner{}
	p.Numbers[flee].Attach(panicDist)
	require.NoError(t, p.ToggleBehavior(steering.KindFlee, -1, true))
	assert.Equal(t, []float64{10}, panicDist.shown, "defaults shown after activation")

	require.NoError(t, p.Numbers[flee].Edited(-1, 25))
	v, ok := it.Behaviors.GetAttribute(steering.KindFlee, steering.PropPanicDistance)
	require.True(t, ok)
	assert.Equal(t, float32(25), v)

	ty := AttrKey{Kind: steering.KindFlee, Path: steering.At(steering.PropTarget).Sub(steering.FieldY)}
	require.NoError(t, p.Numbers[ty].Edited(-1, 7))
	v, _ = it.Behaviors.GetAttribute(steering.KindFlee, steering.PropTarget)
	assert.Equal(t, mgl32.Vec3{0, 7, 0}, v)

	decel := AttrKey{Kind: steering.KindArrive, Path: steering.At(steering.PropDeceleration)}
	require.NoError(t, p.ToggleBehavior(steering.KindArrive, -1, true))
	require.NoError(t, p.Numbers[decel].Edited(-1, 3))
	v, _ = it.Behaviors.GetAttribute(steering.KindArrive, steering.PropDeceleration)
	assert.Equal(t, 3, v)

	loop := AttrKey{Kind: steering.KindFollowPath, Path: steering.At(steering.PropLoop)}
	require.Contains(t, p.Flags, loop)
	require.NoError(t, p.ToggleBehavior(steering.KindFollowPath, -1, true))
	require.NoError(t, p.Flags[loop].Edited(-1, true))
	v, _ = it.Behaviors.GetAttribute(steering.KindFollowPath, steering.PropLoop)
	assert.Equal(t, true, v)

	require.NoError(t, p.ToggleBehavior(steering.KindFlee, -1, false))
	assert.False(t, it.Behaviors.Registry().Has(steering.KindFlee))
}

func TestNameValidation(t *testing.T) {
	s := newSession(t)
	p := NewPropertiesForm(s)
	addItem(t, s, "alpha")
	h := addItem(t, s, "bravo")
	require.NoError(t, s.SelectItem(h))

	err := p.SetName(-1, "Alpha")
	assert.ErrorIs(t, err, scene.ErrDuplicateName)
	assert.NotEmpty(t, p.NameError)
	it, _ := s.World.Scene.Item(h)
	assert.Equal(t, "bravo", it.Name)

	require.NoError(t, p.SetName(-1, "charlie"))
	assert.Empty(t, p.NameError)
	assert.Equal(t, "charlie", it.Name)
}

func TestSetAllInstances(t *testing.T) {
	s := newSession(t)
	p := NewPropertiesForm(s)
	trees := scene.NewInstancedModel("tree", 1)
	var cur *scene.Instance
	for i := 0; i < 6; i++ {
		in := trees.Add(mgl32.Vec3{float32(i), 0, 1})
		if i == 2 {
			cur = in
		}
	}
	require.NoError(t, s.World.Scene.AddModel(trees))
	s.World.Scene.PrepareRender()
	builds := s.World.Scene.Index().Builds()

	assert.ErrorIs(t, p.SetAll(scene.AttrScale), ErrNoInstance)
	require.NoError(t, s.SelectInstance("tree", cur))
	assert.True(t, p.CanSetAll())

	require.NoError(t, p.Scale.Edited(-1, 4.2))
	require.NoError(t, p.SetAll(scene.AttrScale))
	for _, in := range trees.Instances() {
		assert.Equal(t, float32(4.2), in.Scale)
	}
	s.World.Scene.PrepareRender()
	assert.Equal(t, builds+1, s.World.Scene.Index().Builds())
}

func TestWaterForm(t *testing.T) {
	s := newSession(t)
	w := NewWaterForm(s)

	shown := &spinner{}
	w.Params[water.ParamWaveHeight].Attach(shown)
	w.Form.Refresh()
	require.Len(t, shown.shown, 1)

	require.NoError(t, w.Params[water.ParamWaveHeight].Edited(-1, 99))
	assert.Equal(t, float32(5), s.World.Water.Params().WaveHeight)

	require.NoError(t, w.Colors[ColorKey{water.ColorSun, 0}].Edited(-1, 0.25))
	assert.Equal(t, float32(0.25), s.World.Water.Params().SunColor[0])

	require.NoError(t, w.ApplyPreset("storm"))
	assert.Equal(t, float32(14), s.World.Water.Params().WindForce)
	assert.Equal(t, 14.0, w.Params[water.ParamWindForce].Value())
}

func TestMaterialForm(t *testing.T) {
	s := newSession(t)
	m := NewMaterialForm(s)
	m.Parts = 3
	rocks := scene.NewInstancedModel("rock", 1)
	in := rocks.Add(mgl32.Vec3{})
	require.NoError(t, s.World.Scene.AddModel(rocks))

	require.NoError(t, m.Floats[material.Tiling].Edited(-1, 8))
	_, ok := s.World.Materials.Get("rock")
	assert.False(t, ok, "nothing selected")

	require.NoError(t, s.SelectInstance("rock", in))
	_, ok = s.World.Materials.Get("rock")
	assert.False(t, ok, "viewing does not create a material")

	require.NoError(t, m.Floats[material.Tiling].Edited(-1, 8))
	mat, ok := s.World.Materials.Get("rock")
	require.True(t, ok)
	for i := range mat.Parts {
		assert.Equal(t, float32(8), mat.Parts[i].Tiling)
	}

	require.NoError(t, m.SelectPart(1))
	require.NoError(t, m.Colors[MaterialColorKey{material.Diffuse, 0}].Edited(-1, 0.1))
	assert.Equal(t, float32(0.1), mat.Parts[1].Diffuse[0])
	assert.Equal(t, float32(0.8), mat.Parts[0].Diffuse[0])
	assert.ErrorIs(t, m.SelectPart(3), material.ErrBadPart)
}

func TestSaveLoadResetsSelection(t *testing.T) {
	s := newSession(t)
	h := addItem(t, s, "scout")
	require.NoError(t, s.SelectItem(h))
	require.NoError(t, s.SaveMap("first", false))
	assert.Equal(t, "first", s.MapName)

	require.NoError(t, s.NewMap())
	assert.False(t, s.HasSelection())
	assert.Empty(t, s.World.Scene.Items())

	require.NoError(t, s.LoadMap("first"))
	_, ok := s.World.Scene.FindByName("scout")
	assert.True(t, ok)
	assert.False(t, s.HasSelection())
}

func TestPaintRetargetsAfterLoad(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.SaveMap("base", false))
	require.NoError(t, s.LoadMap("base"))

	s.Paint.Open(nil)
	s.Paint.SubMode = terrain.SubModePath
	s.Camera.Eye = mgl32.Vec3{8, 20, 8}
	s.Camera.Center = mgl32.Vec3{8, 0, 8}
	s.Camera.Up = mgl32.Vec3{0, 0, -1}
	s.Camera.ViewportW, s.Camera.ViewportH = 100, 100

	require.True(t, s.Paint.Tick(terrain.Input{Button: true, X: 50, Y: 50}))
	assert.True(t, s.World.Terrain.Paths.IsBlocked(8, 8))
}

type stuckWindow struct{ forced bool }

func (w *stuckWindow) RequestClose(func()) {}
func (w *stuckWindow) ForceClose()         { w.forced = true }

func TestClosePaintTimeout(t *testing.T) {
	s := newSession(t)
	s.Paint.CloseTimeout = 10 * time.Millisecond
	w := &stuckWindow{}
	s.Paint.Open(w)
	assert.ErrorIs(t, s.ClosePaint(context.Background()), terrain.ErrCloseTimeout)
	assert.True(t, w.forced)
}

func TestBehaviorPreset(t *testing.T) {
	s := newSession(t)
	p := NewPropertiesForm(s)
	h := addItem(t, s, "scout")
	require.NoError(t, s.SelectItem(h))

	shown := &spinner{}
	p.MaxSpeed.Attach(shown)
	require.NoError(t, s.ApplyBehaviorPreset("flock"))
	it, _ := s.World.Scene.Item(h)
	assert.True(t, it.Behaviors.Registry().Has(steering.KindCohesion))
	assert.Equal(t, []float64{4}, shown.shown)
}

func TestSimulateMovesSeekers(t *testing.T) {
	s := newSession(t)
	h := addItem(t, s, "scout")
	it, _ := s.World.Scene.Item(h)
	it.Position = mgl32.Vec3{2, 0, 2}
	require.NoError(t, it.Behaviors.SetActive(steering.KindSeek, true))
	require.NoError(t, it.Behaviors.SetAttribute(steering.KindSeek, steering.At(steering.PropTarget), mgl32.Vec3{10, 0, 2}))

	for i := 0; i < 10; i++ {
		s.Simulate(0.1)
	}
	assert.Greater(t, it.Position[0], float32(2))
	assert.LessOrEqual(t, it.Velocity.Len(), it.MaxSpeed+1e-4)
}

var _ form.Control[float64] = (*spinner)(nil)

func TestCopyPasteBehaviors(t *testing.T) {
	s := newSession(t)
	src := addItem(t, s, "leader")
	dst := addItem(t, s, "follower")

	_, err := s.CopyBehaviors()
	assert.ErrorIs(t, err, ErrNoItem)

	require.NoError(t, s.SelectItem(src))
	a, _ := s.World.Scene.Item(src)
	a.MaxSpeed = 7
	require.NoError(t, a.Behaviors.SetActive(steering.KindArrive, true))
	require.NoError(t, a.Behaviors.SetAttribute(steering.KindArrive, steering.At(steering.PropTarget), mgl32.Vec3{3, 0, 4}))
	data, err := s.CopyBehaviors()
	require.NoError(t, err)

	require.NoError(t, s.SelectItem(dst))
	require.NoError(t, s.PasteBehaviors(data))
	b, _ := s.World.Scene.Item(dst)
	assert.Equal(t, float32(7), b.MaxSpeed)
	v, ok := b.Behaviors.GetAttribute(steering.KindArrive, steering.PropTarget)
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{3, 0, 4}, v)

	assert.Error(t, s.PasteBehaviors([]byte("behaviors: [{kind: Teleport}]")))
}

func writePreset(t *testing.T, path, body string, mod time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	require.NoError(t, os.Chtimes(path, mod, mod))
}

func TestReloadPresets(t *testing.T) {
	s := newSession(t)
	s.Presets.Dir = t.TempDir()
	calm := filepath.Join(s.Presets.Dir, "water", "calm.yaml")
	start := time.Now().Add(-time.Hour)
	writePreset(t, calm, "name: calm\nparams:\n  wave_height: 4\n", start)
	require.NoError(t, s.ApplyWaterPreset("calm"))
	assert.Equal(t, float32(4), s.World.Water.Params().WaveHeight)

	writePreset(t, calm, "name: calm\nparams:\n  wave_height: 6\n", start.Add(time.Minute))
	r, err := s.ReloadPresets([]string{calm, filepath.Join(s.Presets.Dir, "notes", "x.yaml")})
	require.NoError(t, err)
	assert.Equal(t, []presets.Category{presets.Water}, r.Categories)
	assert.True(t, r.Water)
	assert.Equal(t, float32(6), s.World.Water.Params().WaveHeight)

	// a second event for the same write changes nothing
	r, err = s.ReloadPresets([]string{calm})
	require.NoError(t, err)
	assert.Empty(t, r.Categories)

	swarm := filepath.Join(s.Presets.Dir, "behaviors", "swarm.yaml")
	writePreset(t, swarm, "name: swarm\n", start)
	r, err = s.ReloadPresets([]string{swarm})
	require.NoError(t, err)
	assert.True(t, r.Has(presets.Behaviors))
	assert.False(t, r.Water)
	names, err := s.Presets.List(presets.Behaviors)
	require.NoError(t, err)
	assert.Contains(t, names, "swarm")

	require.NoError(t, s.NewMap())
	writePreset(t, calm, "name: calm\nparams:\n  wave_height: 8\n", start.Add(2*time.Minute))
	r, err = s.ReloadPresets([]string{calm})
	require.NoError(t, err)
	assert.True(t, r.Has(presets.Water))
	assert.False(t, r.Water, "a new map has no water preset in use")
}
