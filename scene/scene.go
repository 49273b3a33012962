package scene

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jakecoffman/cp"
)

var (
	ErrNotFound      = errors.New("scene: not found")
	ErrDuplicateName = errors.New("scene: duplicate name")
	ErrEmptyName     = errors.New("scene: empty name")
	ErrStaleHandle   = errors.New("scene: stale handle")
)

// HeightSampler reports the terrain height under a ground position.
type HeightSampler interface {
	HeightAt(x, z float32) float32
}

// Scene owns the placed items and instanced models of one map.
type Scene struct {
	handles handleStore
	items   SparseSet[*Item]
	models  map[string]*InstancedModel
	index   *SpatialIndex
	ground  HeightSampler
}

// New creates an empty scene whose culling index covers width x depth world
// units starting at the origin.
func New(width, depth float32) *Scene {
	s := &Scene{models: map[string]*InstancedModel{}}
	s.index = NewSpatialIndex(cp.BB{L: 0, B: 0, R: float64(width), T: float64(depth)}, s.entries)
	return s
}

// SetGround attaches a terrain for height snapping.
func (s *Scene) SetGround(g HeightSampler) {
	s.ground = g
}

// Index returns the scene's culling index.
func (s *Scene) Index() *SpatialIndex {
	return s.index
}

// AddItem stores it and returns its handle. Names must be unique.
func (s *Scene) AddItem(it *Item) (Handle, error) {
	if it == nil {
		return Handle{}, fmt.Errorf("%w: nil item", ErrNotFound)
	}
	if err := s.checkName(it.Name, Handle{}); err != nil {
		return Handle{}, err
	}
	h := s.handles.create()
	s.items.Set(h.ID, it)
	s.index.MarkDirty()
	return h, nil
}

// RemoveItem deletes the item behind h.
func (s *Scene) RemoveItem(h Handle) bool {
	if !s.handles.isAlive(h) {
		return false
	}
	s.items.Remove(h.ID)
	s.handles.destroy(h)
	s.index.MarkDirty()
	return true
}

// Item resolves h. Stale handles resolve to nothing.
func (s *Scene) Item(h Handle) (*Item, bool) {
	if !s.handles.isAlive(h) {
		return nil, false
	}
	return s.items.Get(h.ID)
}

// Handles returns every live handle ordered by slot.
func (s *Scene) Handles() []Handle {
	ids := append([]int(nil), s.items.IDs()...)
	sort.Ints(ids)
	out := make([]Handle, 0, len(ids))
	for _, id := range ids {
		out = append(out, Handle{ID: id, Gen: s.handles.gen[id-1]})
	}
	return out
}

// Items returns the stored items in slot order.
func (s *Scene) Items() []*Item {
	hs := s.Handles()
	out := make([]*Item, 0, len(hs))
	for _, h := range hs {
		it, _ := s.items.Get(h.ID)
		out = append(out, it)
	}
	return out
}

// FindByName returns the handle of the item called name.
func (s *Scene) FindByName(name string) (Handle, bool) {
	for _, h := range s.Handles() {
		if it, _ := s.items.Get(h.ID); it != nil && strings.EqualFold(it.Name, name) {
			return h, true
		}
	}
	return Handle{}, false
}

// Rename changes an item's name, rejecting empty and duplicate names.
func (s *Scene) Rename(h Handle, name string) error {
	it, ok := s.Item(h)
	if !ok {
		return ErrStaleHandle
	}
	name = strings.TrimSpace(name)
	if err := s.checkName(name, h); err != nil {
		return err
	}
	it.Name = name
	return nil
}

func (s *Scene) checkName(name string, self Handle) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	ids := s.items.IDs()
	for i, it := range s.items.Values() {
		if it != nil && ids[i] != self.ID && strings.EqualFold(it.Name, name) {
			return fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
	}
	return nil
}

// MoveItem places the item at pos, snapping to the ground when one is set.
func (s *Scene) MoveItem(h Handle, x, z float32) error {
	it, ok := s.Item(h)
	if !ok {
		return ErrStaleHandle
	}
	it.Position[0] = x
	it.Position[2] = z
	if s.ground != nil {
		it.Position[1] = s.ground.HeightAt(x, z)
	}
	s.index.MarkDirty()
	return nil
}

// AddModel registers an instanced model type. Model names must be unique.
func (s *Scene) AddModel(m *InstancedModel) error {
	if m == nil || strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	if _, ok := s.models[m.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateName, m.Name)
	}
	s.models[m.Name] = m
	s.index.MarkDirty()
	return nil
}

// Model returns the instanced model called name.
func (s *Scene) Model(name string) (*InstancedModel, bool) {
	m, ok := s.models[name]
	return m, ok
}

// Models returns every instanced model sorted by name.
func (s *Scene) Models() []*InstancedModel {
	out := make([]*InstancedModel, 0, len(s.models))
	for _, m := range s.models {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ApplyToAllInstances broadcasts attr from the current instance of model to
// every sibling and invalidates culling once.
func (s *Scene) ApplyToAllInstances(model string, current *Instance, attr InstanceAttr, value float32) error {
	m, ok := s.models[model]
	if !ok {
		return fmt.Errorf("%w: model %q", ErrNotFound, model)
	}
	return m.ApplyToAll(current, attr, value, s.index)
}

// PrepareRender rebuilds the culling index if an edit invalidated it.
func (s *Scene) PrepareRender() {
	s.index.Rebuild()
}

// Visible returns the culling keys inside view.
func (s *Scene) Visible(view cp.BB) []string {
	return s.index.Query(view)
}

func (s *Scene) entries() []Entry {
	var out []Entry
	for _, h := range s.Handles() {
		it, _ := s.items.Get(h.ID)
		out = append(out, Entry{Key: "item:" + it.ID.String(), Bounds: it.Bounds()})
	}
	for _, m := range s.Models() {
		for _, in := range m.instances {
			out = append(out, Entry{Key: m.Name + ":" + in.ID.String(), Bounds: m.Bounds(in)})
		}
	}
	return out
}
