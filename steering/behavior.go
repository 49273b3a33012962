package steering

import (
	"fmt"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
)

// Behavior is one steering force source. The set of implementations is closed;
// each variant exposes its editable properties through a typed attribute table.
type Behavior interface {
	Kind() Kind
	Force(a *Agent, env *Environment) mgl32.Vec3
	weight() float32
	attributes() []attribute
}

// New returns a behavior of the given kind with default settings.
func New(kind Kind) (Behavior, error) {
	switch kind {
	case KindAlignment:
		return &Alignment{Weight: 1, ViewDistance: 15}, nil
	case KindArrive:
		return &Arrive{Weight: 1, Deceleration: 2}, nil
	case KindCohesion:
		return &Cohesion{Weight: 1, ViewDistance: 15}, nil
	case KindEvade:
		return &Evade{Weight: 1, ThreatRange: 100}, nil
	case KindFlee:
		return &Flee{Weight: 1, PanicDistance: 10}, nil
	case KindFollowPath:
		return &FollowPath{Weight: 1, WaypointSeekDistance: 2}, nil
	case KindHide:
		return &Hide{Weight: 1, HideDistance: 2, ThreatRange: 50}, nil
	case KindObstacleAvoidance:
		return &ObstacleAvoidance{Weight: 10, DetectionLength: 4}, nil
	case KindOffsetPursuit:
		return &OffsetPursuit{Weight: 1, Offset: mgl32.Vec3{-2, 0, -2}}, nil
	case KindPursuit:
		return &Pursuit{Weight: 1}, nil
	case KindSeek:
		return &Seek{Weight: 1}, nil
	case KindSeparation:
		return &Separation{Weight: 1, ViewDistance: 10}, nil
	case KindTurnToFace:
		return &TurnToFace{Weight: 1, TurnSpeed: 4}, nil
	case KindWander:
		return newWander(rand.New(rand.NewPCG(1, uint64(KindWander)))), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
}

// Seek steers towards Target at full speed.
type Seek struct {
	Weight float32
	Target mgl32.Vec3
}

func (b *Seek) Kind() Kind      { return KindSeek }
func (b *Seek) weight() float32 { return b.Weight }
func (b *Seek) attributes() []attribute {
	return []attribute{floatAttr(PropWeight, &b.Weight), vecAttr(PropTarget, &b.Target)}
}

func (b *Seek) Force(a *Agent, _ *Environment) mgl32.Vec3 {
	return seek(a, b.Target)
}

// Flee steers away from Target while it is inside PanicDistance.
type Flee struct {
	Weight        float32
	Target        mgl32.Vec3
	PanicDistance float32
}

func (b *Flee) Kind() Kind      { return KindFlee }
func (b *Flee) weight() float32 { return b.Weight }
func (b *Flee) attributes() []attribute {
	return []attribute{
		floatAttr(PropWeight, &b.Weight),
		vecAttr(PropTarget, &b.Target),
		floatAttr(PropPanicDistance, &b.PanicDistance),
	}
}

func (b *Flee) Force(a *Agent, _ *Environment) mgl32.Vec3 {
	if b.PanicDistance > 0 && flat(a.Position.Sub(b.Target)).Len() > b.PanicDistance {
		return mgl32.Vec3{}
	}
	return flee(a, b.Target)
}

// Arrive steers towards Target and slows down on approach. Deceleration is 1
// (fast) to 3 (slow).
type Arrive struct {
	Weight       float32
	Target       mgl32.Vec3
	Deceleration int
}

func (b *Arrive) Kind() Kind      { return KindArrive }
func (b *Arrive) weight() float32 { return b.Weight }
func (b *Arrive) attributes() []attribute {
	return []attribute{
		floatAttr(PropWeight, &b.Weight),
		vecAttr(PropTarget, &b.Target),
		intAttr(PropDeceleration, &b.Deceleration),
	}
}

func (b *Arrive) Force(a *Agent, _ *Environment) mgl32.Vec3 {
	return arrive(a, b.Target, b.Deceleration)
}

// Pursuit intercepts the environment's threat by predicting its position.
type Pursuit struct {
	Weight float32
}

func (b *Pursuit) Kind() Kind      { return KindPursuit }
func (b *Pursuit) weight() float32 { return b.Weight }
func (b *Pursuit) attributes() []attribute {
	return []attribute{floatAttr(PropWeight, &b.Weight)}
}

func (b *Pursuit) Force(a *Agent, env *Environment) mgl32.Vec3 {
	if env == nil || env.Threat == nil {
		return mgl32.Vec3{}
	}
	q := env.Threat
	toQuarry := flat(q.Position.Sub(a.Position))
	h := heading(a)
	qh := normalize(flat(q.Heading))
	// quarry ahead and facing us: head straight for it
	if toQuarry.Dot(h) > 0 && h.Dot(qh) < -0.95 {
		return seek(a, q.Position)
	}
	t := lookAhead(a, q)
	return seek(a, q.Position.Add(q.Velocity.Mul(t)))
}

// Evade flees from the predicted position of the threat inside ThreatRange.
type Evade struct {
	Weight      float32
	ThreatRange float32
}

func (b *Evade) Kind() Kind      { return KindEvade }
func (b *Evade) weight() float32 { return b.Weight }
func (b *Evade) attributes() []attribute {
	return []attribute{floatAttr(PropWeight, &b.Weight), floatAttr(PropThreatRange, &b.ThreatRange)}
}

func (b *Evade) Force(a *Agent, env *Environment) mgl32.Vec3 {
	if env == nil || env.Threat == nil {
		return mgl32.Vec3{}
	}
	p := env.Threat
	if b.ThreatRange > 0 && flat(p.Position.Sub(a.Position)).Len() > b.ThreatRange {
		return mgl32.Vec3{}
	}
	t := lookAhead(a, p)
	return flee(a, p.Position.Add(p.Velocity.Mul(t)))
}

// OffsetPursuit keeps formation at Offset, expressed in the leader's local
// space (X = side, Z = heading).
type OffsetPursuit struct {
	Weight float32
	Offset mgl32.Vec3
}

func (b *OffsetPursuit) Kind() Kind      { return KindOffsetPursuit }
func (b *OffsetPursuit) weight() float32 { return b.Weight }
func (b *OffsetPursuit) attributes() []attribute {
	return []attribute{floatAttr(PropWeight, &b.Weight), vecAttr(PropOffset, &b.Offset)}
}

func (b *OffsetPursuit) Force(a *Agent, env *Environment) mgl32.Vec3 {
	if env == nil || env.Leader == nil {
		return mgl32.Vec3{}
	}
	l := env.Leader
	lh := normalize(flat(l.Heading))
	if lh.Len() == 0 {
		lh = mgl32.Vec3{0, 0, 1}
	}
	world := l.Position.Add(side(lh).Mul(b.Offset[0])).Add(lh.Mul(b.Offset[2]))
	world[1] += b.Offset[1]
	ahead := flat(world.Sub(a.Position)).Len() / (a.MaxSpeed + l.Velocity.Len() + 1e-6)
	return arrive(a, world.Add(l.Velocity.Mul(ahead)), 1)
}
