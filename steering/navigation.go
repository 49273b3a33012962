package steering

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
)

// Wander jitters a target around a circle projected ahead of the agent.
type Wander struct {
	Weight         float32
	WanderRadius   float32
	WanderDistance float32
	// WanderJitter is the maximum target displacement per second.
	WanderJitter float32

	target mgl32.Vec3
	rng    *rand.Rand
}

func newWander(rng *rand.Rand) *Wander {
	return &Wander{
		Weight:         1,
		WanderRadius:   1.2,
		WanderDistance: 2,
		WanderJitter:   80,
		target:         mgl32.Vec3{0, 0, 1.2},
		rng:            rng,
	}
}

func (b *Wander) Kind() Kind      { return KindWander }
func (b *Wander) weight() float32 { return b.Weight }
func (b *Wander) attributes() []attribute {
	return []attribute{
		floatAttr(PropWeight, &b.Weight),
		floatAttr(PropWanderRadius, &b.WanderRadius),
		floatAttr(PropWanderDistance, &b.WanderDistance),
		floatAttr(PropWanderJitter, &b.WanderJitter),
	}
}

func (b *Wander) Force(a *Agent, env *Environment) mgl32.Vec3 {
	dt := float32(1.0 / 60.0)
	if env != nil && env.DT > 0 {
		dt = env.DT
	}
	jitter := b.WanderJitter * dt
	b.target = b.target.Add(mgl32.Vec3{
		(b.rng.Float32()*2 - 1) * jitter,
		0,
		(b.rng.Float32()*2 - 1) * jitter,
	})
	b.target = normalize(b.target).Mul(b.WanderRadius)

	h := heading(a)
	local := b.target.Add(mgl32.Vec3{0, 0, b.WanderDistance})
	world := a.Position.Add(side(h).Mul(local[0])).Add(h.Mul(local[2]))
	return flat(world.Sub(a.Position))
}

// Hide puts the nearest obstacle between the agent and the threat.
type Hide struct {
	Weight       float32
	HideDistance float32
	ThreatRange  float32
}

func (b *Hide) Kind() Kind      { return KindHide }
func (b *Hide) weight() float32 { return b.Weight }
func (b *Hide) attributes() []attribute {
	return []attribute{
		floatAttr(PropWeight, &b.Weight),
		floatAttr(PropHideDistance, &b.HideDistance),
		floatAttr(PropThreatRange, &b.ThreatRange),
	}
}

func (b *Hide) Force(a *Agent, env *Environment) mgl32.Vec3 {
	if env == nil || env.Threat == nil {
		return mgl32.Vec3{}
	}
	hunter := env.Threat.Position
	if b.ThreatRange > 0 && flat(hunter.Sub(a.Position)).Len() > b.ThreatRange {
		return mgl32.Vec3{}
	}

	best := float32(math.MaxFloat32)
	var spot mgl32.Vec3
	found := false
	for _, o := range env.Obstacles {
		dir := normalize(flat(o.Position.Sub(hunter)))
		candidate := o.Position.Add(dir.Mul(o.Radius + b.HideDistance))
		d := flat(candidate.Sub(a.Position)).Len()
		if d < best {
			best = d
			spot = candidate
			found = true
		}
	}
	if !found {
		t := lookAhead(a, env.Threat)
		return flee(a, hunter.Add(env.Threat.Velocity.Mul(t)))
	}
	return arrive(a, spot, 1)
}

// ObstacleAvoidance steers around obstacles inside a detection box that grows
// with speed.
type ObstacleAvoidance struct {
	Weight          float32
	DetectionLength float32
}

func (b *ObstacleAvoidance) Kind() Kind      { return KindObstacleAvoidance }
func (b *ObstacleAvoidance) weight() float32 { return b.Weight }
func (b *ObstacleAvoidance) attributes() []attribute {
	return []attribute{floatAttr(PropWeight, &b.Weight), floatAttr(PropDetectionLength, &b.DetectionLength)}
}

func (b *ObstacleAvoidance) Force(a *Agent, env *Environment) mgl32.Vec3 {
	if env == nil || len(env.Obstacles) == 0 {
		return mgl32.Vec3{}
	}
	boxLen := b.DetectionLength
	if a.MaxSpeed > 0 {
		boxLen += flat(a.Velocity).Len() / a.MaxSpeed * b.DetectionLength
	}
	if boxLen <= 0 {
		return mgl32.Vec3{}
	}
	h := heading(a)
	s := side(h)

	closest := float32(math.MaxFloat32)
	var hitX, hitZ, hitR float32
	hit := false
	for _, o := range env.Obstacles {
		to := flat(o.Position.Sub(a.Position))
		lz := to.Dot(h)
		lx := to.Dot(s)
		if lz < 0 || lz > boxLen+o.Radius {
			continue
		}
		r := o.Radius + a.Radius
		if float32(math.Abs(float64(lx))) >= r {
			continue
		}
		sq := float32(math.Sqrt(float64(r*r - lx*lx)))
		ip := lz - sq
		if ip <= 0 {
			ip = lz + sq
		}
		if ip < closest {
			closest = ip
			hitX, hitZ, hitR = lx, lz, r
			hit = true
		}
	}
	if !hit {
		return mgl32.Vec3{}
	}

	multiplier := 1 + (boxLen-hitZ)/boxLen
	dir := float32(-1)
	if hitX < 0 {
		dir = 1
	}
	lateral := dir * (hitR - float32(math.Abs(float64(hitX)))) * multiplier
	braking := -(hitR - hitZ) * 0.2
	if braking > 0 {
		braking = 0
	}
	return s.Mul(lateral).Add(h.Mul(braking))
}

// FollowPath seeks each waypoint in turn and arrives at the last one unless
// Loop is set.
type FollowPath struct {
	Weight               float32
	WaypointSeekDistance float32
	Loop                 bool
	Waypoints            []mgl32.Vec3

	current int
}

func (b *FollowPath) Kind() Kind      { return KindFollowPath }
func (b *FollowPath) weight() float32 { return b.Weight }
func (b *FollowPath) attributes() []attribute {
	return []attribute{
		floatAttr(PropWeight, &b.Weight),
		floatAttr(PropWaypointSeekDist, &b.WaypointSeekDistance),
		boolAttr(PropLoop, &b.Loop),
	}
}

// Current returns the index of the waypoint being sought.
func (b *FollowPath) Current() int {
	return b.current
}

func (b *FollowPath) Force(a *Agent, _ *Environment) mgl32.Vec3 {
	if len(b.Waypoints) == 0 {
		return mgl32.Vec3{}
	}
	if b.current >= len(b.Waypoints) {
		b.current = len(b.Waypoints) - 1
	}
	last := b.current == len(b.Waypoints)-1
	wp := b.Waypoints[b.current]
	if flat(wp.Sub(a.Position)).Len() < b.WaypointSeekDistance {
		switch {
		case !last:
			b.current++
		case b.Loop:
			b.current = 0
		}
		wp = b.Waypoints[b.current]
		last = b.current == len(b.Waypoints)-1
	}
	if last && !b.Loop {
		return arrive(a, wp, 2)
	}
	return seek(a, wp)
}

// TurnToFace rotates the agent's heading towards Target without moving it
// forward.
type TurnToFace struct {
	Weight    float32
	Target    mgl32.Vec3
	TurnSpeed float32
}

func (b *TurnToFace) Kind() Kind      { return KindTurnToFace }
func (b *TurnToFace) weight() float32 { return b.Weight }
func (b *TurnToFace) attributes() []attribute {
	return []attribute{
		floatAttr(PropWeight, &b.Weight),
		vecAttr(PropTarget, &b.Target),
		floatAttr(PropTurnSpeed, &b.TurnSpeed),
	}
}

func (b *TurnToFace) Force(a *Agent, _ *Environment) mgl32.Vec3 {
	want := normalize(flat(b.Target.Sub(a.Position)))
	if want.Len() == 0 {
		return mgl32.Vec3{}
	}
	h := heading(a)
	if h.Dot(want) > 0.999 {
		return mgl32.Vec3{}
	}
	return want.Sub(h).Mul(b.TurnSpeed)
}
