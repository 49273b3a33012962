package steering

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Agent is the kinematic state a behavior steers.
type Agent struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3
	Heading  mgl32.Vec3
	Radius   float32
	MaxSpeed float32
	MaxForce float32
}

// Neighbor is another moving body visible to the agent.
type Neighbor struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3
	Heading  mgl32.Vec3
	Radius   float32
	MaxSpeed float32
}

// Obstacle is a static circular blocker on the ground plane.
type Obstacle struct {
	Position mgl32.Vec3
	Radius   float32
}

// Environment is what the caller knows about the agent's surroundings for a
// single update.
type Environment struct {
	DT        float32
	Neighbors []Neighbor
	Obstacles []Obstacle
	// Threat is the pursuer for Evade and Hide, the quarry for Pursuit.
	Threat *Neighbor
	Leader *Neighbor
}

func normalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l < 1e-6 {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}

func truncate(v mgl32.Vec3, max float32) mgl32.Vec3 {
	l := v.Len()
	if l > max && l > 0 {
		return v.Mul(max / l)
	}
	return v
}

// flat drops the vertical component; steering runs on the ground plane.
func flat(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v[0], 0, v[2]}
}

func heading(a *Agent) mgl32.Vec3 {
	if h := normalize(flat(a.Heading)); h.Len() > 0 {
		return h
	}
	if h := normalize(flat(a.Velocity)); h.Len() > 0 {
		return h
	}
	return mgl32.Vec3{0, 0, 1}
}

// side is the heading rotated a quarter turn on the ground plane.
func side(h mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{-h[2], 0, h[0]}
}

func seek(a *Agent, target mgl32.Vec3) mgl32.Vec3 {
	desired := normalize(flat(target.Sub(a.Position))).Mul(a.MaxSpeed)
	return desired.Sub(flat(a.Velocity))
}

func flee(a *Agent, from mgl32.Vec3) mgl32.Vec3 {
	desired := normalize(flat(a.Position.Sub(from))).Mul(a.MaxSpeed)
	return desired.Sub(flat(a.Velocity))
}

func arrive(a *Agent, target mgl32.Vec3, deceleration int) mgl32.Vec3 {
	const tweaker = 0.3
	if deceleration < 1 {
		deceleration = 1
	}
	toTarget := flat(target.Sub(a.Position))
	dist := toTarget.Len()
	if dist < 1e-3 {
		return mgl32.Vec3{}
	}
	speed := dist / (float32(deceleration) * tweaker)
	speed = float32(math.Min(float64(speed), float64(a.MaxSpeed)))
	desired := toTarget.Mul(speed / dist)
	return desired.Sub(flat(a.Velocity))
}

// lookAhead estimates how long the agent needs to reach a moving body.
func lookAhead(a *Agent, n *Neighbor) float32 {
	speed := a.MaxSpeed + n.Velocity.Len()
	if speed <= 0 {
		return 0
	}
	return flat(n.Position.Sub(a.Position)).Len() / speed
}
