package scene

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/jakecoffman/cp"
)

// InstanceAttr names a per-instance value that can be broadcast with Set All.
type InstanceAttr int

const (
	AttrHeight InstanceAttr = iota
	AttrAngle
	AttrScale
)

func (a InstanceAttr) String() string {
	switch a {
	case AttrHeight:
		return "Height"
	case AttrAngle:
		return "Angle"
	case AttrScale:
		return "Scale"
	default:
		return "Unknown"
	}
}

// ParseInstanceAttr resolves an attribute by name, ignoring case.
func ParseInstanceAttr(s string) (InstanceAttr, bool) {
	for _, a := range []InstanceAttr{AttrHeight, AttrAngle, AttrScale} {
		if strings.EqualFold(a.String(), s) {
			return a, true
		}
	}
	return 0, false
}

// Instance is one placement of an instanced model (a tree, a rock).
type Instance struct {
	ID       uuid.UUID
	Position mgl32.Vec3
	Angle    float32
	Scale    float32
}

// Height is the instance's vertical position.
func (in *Instance) Height() float32 {
	return in.Position[1]
}

// Get reads attr.
func (in *Instance) Get(attr InstanceAttr) float32 {
	switch attr {
	case AttrHeight:
		return in.Position[1]
	case AttrAngle:
		return in.Angle
	case AttrScale:
		return in.Scale
	}
	return 0
}

// Set writes attr.
func (in *Instance) Set(attr InstanceAttr, v float32) {
	switch attr {
	case AttrHeight:
		in.Position[1] = v
	case AttrAngle:
		in.Angle = v
	case AttrScale:
		in.Scale = v
	}
}

// InstancedModel groups every instance sharing one mesh.
type InstancedModel struct {
	Name      string
	Radius    float32
	instances []*Instance
}

func NewInstancedModel(name string, radius float32) *InstancedModel {
	if radius <= 0 {
		radius = 1
	}
	return &InstancedModel{Name: name, Radius: radius}
}

// Add places a new instance at pos.
func (m *InstancedModel) Add(pos mgl32.Vec3) *Instance {
	in := &Instance{ID: uuid.New(), Position: pos, Scale: 1}
	m.instances = append(m.instances, in)
	return in
}

// Put stores an existing instance, as when a map is loaded.
func (m *InstancedModel) Put(in *Instance) {
	if in.ID == uuid.Nil {
		in.ID = uuid.New()
	}
	m.instances = append(m.instances, in)
}

// Remove deletes the instance with id.
func (m *InstancedModel) Remove(id uuid.UUID) bool {
	for i, in := range m.instances {
		if in.ID == id {
			m.instances = append(m.instances[:i], m.instances[i+1:]...)
			return true
		}
	}
	return false
}

// Instances returns the model's instances.
func (m *InstancedModel) Instances() []*Instance {
	return m.instances
}

// Find returns the instance with id.
func (m *InstancedModel) Find(id uuid.UUID) (*Instance, bool) {
	for _, in := range m.instances {
		if in.ID == id {
			return in, true
		}
	}
	return nil, false
}

// Bounds is the ground footprint of one instance.
func (m *InstancedModel) Bounds(in *Instance) cp.BB {
	r := float64(m.Radius * in.Scale)
	return cp.NewBBForCircle(cp.Vector{X: float64(in.Position[0]), Y: float64(in.Position[2])}, r)
}

// DirtyMarker is told when placements change enough to invalidate culling.
type DirtyMarker interface {
	MarkDirty()
}

// ApplyToAll writes value to current, then to every sibling instance, and
// marks the spatial index dirty once. current must belong to m.
func (m *InstancedModel) ApplyToAll(current *Instance, attr InstanceAttr, value float32, index DirtyMarker) error {
	if current == nil {
		return nil
	}
	if _, ok := m.Find(current.ID); !ok {
		return fmt.Errorf("%w: instance %s not in %q", ErrNotFound, current.ID, m.Name)
	}
	current.Set(attr, value)
	for _, in := range m.instances {
		if in != current {
			in.Set(attr, value)
		}
	}
	if index != nil {
		index.MarkDirty()
	}
	return nil
}
