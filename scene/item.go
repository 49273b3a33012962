package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/worldeditor/steering"
)

// Item is a placed, selectable scene object such as a unit or building.
type Item struct {
	ID           uuid.UUID
	Name         string
	Type         string
	Position     mgl32.Vec3
	Angle        float32 // yaw, degrees
	Scale        float32
	Radius       float32
	MaxForce     float32
	MaxSpeed     float32
	PlayerNumber int
	Velocity     mgl32.Vec3

	Behaviors *steering.Aggregator
}

// NewItem returns an item with unit scale and an empty behavior set.
func NewItem(name, typ string) *Item {
	return &Item{
		ID:           uuid.New(),
		Name:         name,
		Type:         typ,
		Scale:        1,
		Radius:       1,
		MaxForce:     10,
		MaxSpeed:     5,
		PlayerNumber: 1,
		Behaviors:    steering.NewAggregator(),
	}
}

// Heading is the unit ground-plane direction the item faces.
func (it *Item) Heading() mgl32.Vec3 {
	q := mgl32.QuatRotate(mgl32.DegToRad(it.Angle), mgl32.Vec3{0, 1, 0})
	return q.Rotate(mgl32.Vec3{0, 0, 1})
}

// Agent returns the steering view of the item.
func (it *Item) Agent() *steering.Agent {
	return &steering.Agent{
		Position: it.Position,
		Velocity: it.Velocity,
		Heading:  it.Heading(),
		Radius:   it.Radius * it.Scale,
		MaxSpeed: it.MaxSpeed,
		MaxForce: it.MaxForce,
	}
}

// Bounds is the item's footprint on the ground plane.
func (it *Item) Bounds() cp.BB {
	r := float64(it.Radius * it.Scale)
	return cp.NewBBForCircle(cp.Vector{X: float64(it.Position[0]), Y: float64(it.Position[2])}, r)
}
