package steering

import "github.com/go-gl/mathgl/mgl32"

// Separation pushes away from neighbors inside ViewDistance, weighted by
// inverse distance.
type Separation struct {
	Weight       float32
	ViewDistance float32
}

func (b *Separation) Kind() Kind      { return KindSeparation }
func (b *Separation) weight() float32 { return b.Weight }
func (b *Separation) attributes() []attribute {
	return []attribute{floatAttr(PropWeight, &b.Weight), floatAttr(PropViewDistance, &b.ViewDistance)}
}

func (b *Separation) Force(a *Agent, env *Environment) mgl32.Vec3 {
	var force mgl32.Vec3
	for _, n := range visible(a, env, b.ViewDistance) {
		away := flat(a.Position.Sub(n.Position))
		d := away.Len()
		if d < 1e-4 {
			continue
		}
		force = force.Add(away.Mul(1 / (d * d)))
	}
	return force
}

// Alignment matches the average heading of neighbors.
type Alignment struct {
	Weight       float32
	ViewDistance float32
}

func (b *Alignment) Kind() Kind      { return KindAlignment }
func (b *Alignment) weight() float32 { return b.Weight }
func (b *Alignment) attributes() []attribute {
	return []attribute{floatAttr(PropWeight, &b.Weight), floatAttr(PropViewDistance, &b.ViewDistance)}
}

func (b *Alignment) Force(a *Agent, env *Environment) mgl32.Vec3 {
	ns := visible(a, env, b.ViewDistance)
	if len(ns) == 0 {
		return mgl32.Vec3{}
	}
	var avg mgl32.Vec3
	for _, n := range ns {
		avg = avg.Add(normalize(flat(n.Heading)))
	}
	avg = avg.Mul(1 / float32(len(ns)))
	return avg.Sub(heading(a))
}

// Cohesion steers towards the center of mass of neighbors.
type Cohesion struct {
	Weight       float32
	ViewDistance float32
}

func (b *Cohesion) Kind() Kind      { return KindCohesion }
func (b *Cohesion) weight() float32 { return b.Weight }
func (b *Cohesion) attributes() []attribute {
	return []attribute{floatAttr(PropWeight, &b.Weight), floatAttr(PropViewDistance, &b.ViewDistance)}
}

func (b *Cohesion) Force(a *Agent, env *Environment) mgl32.Vec3 {
	ns := visible(a, env, b.ViewDistance)
	if len(ns) == 0 {
		return mgl32.Vec3{}
	}
	var center mgl32.Vec3
	for _, n := range ns {
		center = center.Add(n.Position)
	}
	center = center.Mul(1 / float32(len(ns)))
	return normalize(seek(a, center))
}

func visible(a *Agent, env *Environment, view float32) []Neighbor {
	if env == nil {
		return nil
	}
	out := make([]Neighbor, 0, len(env.Neighbors))
	for _, n := range env.Neighbors {
		d := flat(n.Position.Sub(a.Position)).Len()
		if d < 1e-4 {
			// the agent itself
			continue
		}
		if view > 0 && d > view+n.Radius {
			continue
		}
		out = append(out, n)
	}
	return out
}
