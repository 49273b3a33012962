// Package editor ties the open map, the current selection and the tool forms
// together. The GUI in cmd/editor drives a Session; nothing here draws.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/worldeditor/config"
	"github.com/milk9111/worldeditor/maps"
	"github.com/milk9111/worldeditor/presets"
	"github.com/milk9111/worldeditor/scene"
	"github.com/milk9111/worldeditor/steering"
	"github.com/milk9111/worldeditor/terrain"
)

var (
	ErrNoInstance = errors.New("editor: no instance selected")
	ErrNoItem     = errors.New("editor: no item selected")
)

// Session is the editor's state for one open map.
type Session struct {
	Config  config.Config
	World   *maps.World
	Store   *maps.Store
	Presets *presets.Library
	Camera  *terrain.Camera
	Paint   *terrain.PaintTool
	Binder  *steering.Binder
	MapName string

	log *slog.Logger

	item      scene.Handle
	hasItem   bool
	model     string
	instance  *scene.Instance
	listeners []func()

	// water preset last applied, reapplied when its file changes
	waterPreset string
	presetTimes map[string]time.Time
}

// NewSession opens an empty map sized by cfg.NewMap.
func NewSession(cfg config.Config, log *slog.Logger) (*Session, error) {
	if log == nil {
		log = slog.Default()
	}
	nm := cfg.NewMap
	w, err := maps.NewWorld(nm.Width, nm.Depth, nm.CellSize, nm.Layers, log)
	if err != nil {
		return nil, fmt.Errorf("editor: new map: %w", err)
	}
	s := &Session{
		Config:  cfg,
		World:   w,
		Store:   maps.NewStore(cfg.MapsDir, log),
		Presets: presets.NewLibrary(cfg.PresetsDir),
		log:     log,
	}
	ex, ez := w.Terrain.Height.Extent()
	s.Camera = &terrain.Camera{
		Eye:       mgl32.Vec3{ex / 2, ex, ez + ez/2},
		Center:    mgl32.Vec3{ex / 2, 0, ez / 2},
		Up:        mgl32.Vec3{0, 1, 0},
		FovY:      45,
		Near:      0.5,
		Far:       4 * (ex + ez),
		ViewportW: cfg.WindowWidth,
		ViewportH: cfg.WindowHeight,
	}
	s.Paint = terrain.NewPaintTool(w.Terrain, w.Terrain.Picker(s.Camera), log)
	s.Paint.Brush = cfg.Brush
	s.Paint.CloseTimeout = cfg.CloseTimeout
	s.Binder = steering.NewBinder(s.selectedBehaviors, log)
	return s, nil
}

func (s *Session) Logger() *slog.Logger { return s.log }

// OnSelectionChanged registers fn to run whenever the selection changes.
func (s *Session) OnSelectionChanged(fn func()) {
	s.listeners = append(s.listeners, fn)
}

func (s *Session) selectionChanged() {
	for _, fn := range s.listeners {
		fn()
	}
}

// SelectItem makes the item behind h the selection.
func (s *Session) SelectItem(h scene.Handle) error {
	if _, ok := s.World.Scene.Item(h); !ok {
		return scene.ErrStaleHandle
	}
	s.item, s.hasItem = h, true
	s.model, s.instance = "", nil
	s.selectionChanged()
	return nil
}

// SelectInstance makes one instance of model the selection.
func (s *Session) SelectInstance(model string, in *scene.Instance) error {
	m, ok := s.World.Scene.Model(model)
	if !ok {
		return fmt.Errorf("%w: model %q", scene.ErrNotFound, model)
	}
	if in == nil {
		return ErrNoInstance
	}
	if _, ok := m.Find(in.ID); !ok {
		return fmt.Errorf("%w: instance %s", scene.ErrNotFound, in.ID)
	}
	s.hasItem = false
	s.model, s.instance = model, in
	s.selectionChanged()
	return nil
}

// ClearSelection deselects everything.
func (s *Session) ClearSelection() {
	s.hasItem = false
	s.model, s.instance = "", nil
	s.selectionChanged()
}

// SelectedItem returns the selected scene item.
func (s *Session) SelectedItem() (*scene.Item, scene.Handle, bool) {
	if !s.hasItem {
		return nil, scene.Handle{}, false
	}
	it, ok := s.World.Scene.Item(s.item)
	if !ok {
		return nil, scene.Handle{}, false
	}
	return it, s.item, true
}

// SelectedInstance returns the selected instance and its model name.
func (s *Session) SelectedInstance() (*scene.Instance, string, bool) {
	if s.instance == nil {
		return nil, "", false
	}
	return s.instance, s.model, true
}

// HasSelection reports whether an item or an instance is selected.
func (s *Session) HasSelection() bool {
	_, _, item := s.SelectedItem()
	return item || s.instance != nil
}

func (s *Session) selectedBehaviors() *steering.Aggregator {
	it, _, ok := s.SelectedItem()
	if !ok {
		return nil
	}
	return it.Behaviors
}

// SetAll copies value into attr of the selected instance and every other
// instance of its model.
func (s *Session) SetAll(attr scene.InstanceAttr, value float32) error {
	in, model, ok := s.SelectedInstance()
	if !ok {
		return ErrNoInstance
	}
	if err := s.World.Scene.ApplyToAllInstances(model, in, attr, value); err != nil {
		return err
	}
	s.log.Info("set all instances", "model", model, "attr", attr, "value", value)
	return nil
}

// NewMap replaces the open map with an empty one.
func (s *Session) NewMap() error {
	nm := s.Config.NewMap
	w, err := maps.NewWorld(nm.Width, nm.Depth, nm.CellSize, nm.Layers, s.log)
	if err != nil {
		return err
	}
	s.replaceWorld(w, "")
	return nil
}

// SaveMap writes the open map under name.
func (s *Session) SaveMap(name string, overwrite bool) error {
	if err := s.Store.Save(name, maps.Capture(name, s.World), overwrite); err != nil {
		return err
	}
	s.MapName = maps.CleanName(name)
	return nil
}

// LoadMap replaces the open map with the one saved as name.
func (s *Session) LoadMap(name string) error {
	doc, err := s.Store.Load(name)
	if err != nil {
		return err
	}
	w, err := doc.Restore(s.log)
	if err != nil {
		return err
	}
	s.replaceWorld(w, doc.Name)
	s.log.Info("map loaded", "name", doc.Name)
	return nil
}

func (s *Session) replaceWorld(w *maps.World, name string) {
	s.World = w
	s.MapName = name
	s.waterPreset = ""
	s.Paint.Retarget(w.Terrain, w.Terrain.Picker(s.Camera))
	s.ClearSelection()
}

// ApplyBehaviorPreset replaces the selected item's behaviors with a preset.
func (s *Session) ApplyBehaviorPreset(name string) error {
	it, _, ok := s.SelectedItem()
	if !ok {
		return nil
	}
	p, err := s.Presets.LoadBehavior(name)
	if err != nil {
		return err
	}
	if err := p.ApplyTo(it); err != nil {
		return err
	}
	s.selectionChanged()
	return nil
}

// CopyBehaviors encodes the selected item's steering setup as a behavior
// preset document.
func (s *Session) CopyBehaviors() ([]byte, error) {
	it, _, ok := s.SelectedItem()
	if !ok {
		return nil, ErrNoItem
	}
	return yaml.Marshal(presets.BehaviorPreset{
		Name:      it.Name,
		MaxForce:  it.MaxForce,
		MaxSpeed:  it.MaxSpeed,
		Behaviors: it.Behaviors.Export(),
	})
}

// PasteBehaviors applies a document produced by CopyBehaviors, or any
// behavior preset, to the selected item.
func (s *Session) PasteBehaviors(data []byte) error {
	it, _, ok := s.SelectedItem()
	if !ok {
		return ErrNoItem
	}
	var p presets.BehaviorPreset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("editor: paste behaviors: %w", err)
	}
	if err := p.ApplyTo(it); err != nil {
		return err
	}
	s.selectionChanged()
	return nil
}

// ApplyWaterPreset loads a water preset into the map's water.
func (s *Session) ApplyWaterPreset(name string) error {
	p, err := s.Presets.LoadWater(name)
	if err != nil {
		return err
	}
	s.World.Water.Apply(p.Resolve())
	s.waterPreset = name
	return nil
}

// ClosePaint shuts the paint tool window down, forcing it after the
// configured timeout.
func (s *Session) ClosePaint(ctx context.Context) error {
	return s.Paint.Close(ctx)
}

// Simulate advances every item's steering by dt seconds. The other items are
// its neighbors and the instanced models its obstacles.
func (s *Session) Simulate(dt float32) {
	items := s.World.Scene.Items()
	env := &steering.Environment{DT: dt}
	for _, m := range s.World.Scene.Models() {
		for _, in := range m.Instances() {
			env.Obstacles = append(env.Obstacles, steering.Obstacle{Position: in.Position, Radius: m.Radius * in.Scale})
		}
	}
	for _, it := range items {
		env.Neighbors = env.Neighbors[:0]
		for _, o := range items {
			if o == it {
				continue
			}
			env.Neighbors = append(env.Neighbors, steering.Neighbor{
				Position: o.Position,
				Velocity: o.Velocity,
				Heading:  o.Heading(),
				Radius:   o.Radius * o.Scale,
				MaxSpeed: o.MaxSpeed,
			})
		}
		force := it.Behaviors.Calculate(it.Agent(), env)
		it.Velocity = it.Velocity.Add(force.Mul(dt))
		if l := it.Velocity.Len(); l > it.MaxSpeed && l > 0 {
			it.Velocity = it.Velocity.Mul(it.MaxSpeed / l)
		}
		it.Position = it.Position.Add(it.Velocity.Mul(dt))
		it.Position[1] = s.World.Terrain.HeightAt(it.Position[0], it.Position[2])
	}
	if len(items) > 0 {
		s.World.Scene.Index().MarkDirty()
	}
}
