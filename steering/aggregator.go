package steering

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
)

// priority is the order forces are accumulated in when the budget is tight.
var priority = [kindCount]Kind{
	KindObstacleAvoidance,
	KindEvade,
	KindFlee,
	KindSeparation,
	KindAlignment,
	KindCohesion,
	KindSeek,
	KindArrive,
	KindWander,
	KindPursuit,
	KindOffsetPursuit,
	KindHide,
	KindFollowPath,
	KindTurnToFace,
}

// Aggregator owns an agent's behaviors and combines their forces.
type Aggregator struct {
	registry Registry
}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Registry exposes the active behaviors.
func (g *Aggregator) Registry() *Registry {
	if g == nil {
		return nil
	}
	return &g.registry
}

// Behavior returns the active behavior for kind, or nil.
func (g *Aggregator) Behavior(kind Kind) Behavior {
	if g == nil {
		return nil
	}
	return g.registry.Get(kind)
}

// SetActive creates a default behavior for kind when active and none exists,
// and discards the existing one when not active.
func (g *Aggregator) SetActive(kind Kind, active bool) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}
	if !active {
		g.registry.remove(kind)
		return nil
	}
	if g.registry.Has(kind) {
		return nil
	}
	b, err := New(kind)
	if err != nil {
		return err
	}
	g.registry.put(b)
	return nil
}

// SetAttribute writes value into the active behavior for kind. It does
// nothing when kind is inactive.
func (g *Aggregator) SetAttribute(kind Kind, path Path, value any) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}
	b := g.registry.Get(kind)
	if b == nil {
		return nil
	}
	if err := setAttribute(b.attributes(), path, value); err != nil {
		return fmt.Errorf("%s: %w", kind, err)
	}
	return nil
}

// GetAttribute reads a property of the active behavior for kind.
func (g *Aggregator) GetAttribute(kind Kind, property string) (any, bool) {
	b := g.Behavior(kind)
	if b == nil {
		return nil, false
	}
	return getAttribute(b.attributes(), property)
}

// Calculate sums the weighted forces of the active behaviors in priority
// order until the agent's MaxForce budget is spent.
func (g *Aggregator) Calculate(a *Agent, env *Environment) mgl32.Vec3 {
	var total mgl32.Vec3
	if g == nil || a == nil {
		return total
	}
	for _, k := range priority {
		b := g.registry.Get(k)
		if b == nil {
			continue
		}
		f := b.Force(a, env).Mul(b.weight())
		var ok bool
		if total, ok = accumulate(total, f, a.MaxForce); !ok {
			break
		}
	}
	return total
}

// accumulate adds as much of add to running as the max budget allows and
// reports whether budget remains.
func accumulate(running, add mgl32.Vec3, max float32) (mgl32.Vec3, bool) {
	if max <= 0 {
		return running.Add(add), true
	}
	remaining := max - running.Len()
	if remaining <= 0 {
		return running, false
	}
	l := add.Len()
	if l < remaining {
		return running.Add(add), true
	}
	return running.Add(normalize(add).Mul(remaining)), false
}

// Properties lists the editable property names of a kind in table order.
func Properties(kind Kind) []string {
	b, err := New(kind)
	if err != nil {
		return nil
	}
	attrs := b.attributes()
	out := make([]string, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, a.name)
	}
	return out
}

// IsVector reports whether a property of kind holds a vector.
func IsVector(kind Kind, property string) bool {
	b, err := New(kind)
	if err != nil {
		return false
	}
	a, ok := lookup(b.attributes(), property)
	return ok && a.typ == attrVec3
}

// Binder routes attribute edits to the aggregator of the current selection.
// Without a selection every call is a no-op.
type Binder struct {
	selected func() *Aggregator
	log      *slog.Logger
}

func NewBinder(selected func() *Aggregator, log *slog.Logger) *Binder {
	if log == nil {
		log = slog.Default()
	}
	return &Binder{selected: selected, log: log}
}

func (b *Binder) target() *Aggregator {
	if b == nil || b.selected == nil {
		return nil
	}
	return b.selected()
}

func (b *Binder) SetBehaviorActive(kind Kind, active bool) error {
	g := b.target()
	if g == nil {
		return nil
	}
	if err := g.SetActive(kind, active); err != nil {
		b.log.Warn("steering: toggle behavior", "kind", kind, "active", active, "err", err)
		return err
	}
	return nil
}

func (b *Binder) SetAttribute(kind Kind, path Path, value any) error {
	g := b.target()
	if g == nil {
		return nil
	}
	if err := g.SetAttribute(kind, path, value); err != nil {
		b.log.Warn("steering: set attribute", "kind", kind, "path", path.String(), "err", err)
		return err
	}
	return nil
}

func (b *Binder) GetAttribute(kind Kind, property string) (any, bool) {
	g := b.target()
	if g == nil {
		return nil, false
	}
	return g.GetAttribute(kind, property)
}

// IsActive reports whether the selection has kind active.
func (b *Binder) IsActive(kind Kind) bool {
	return b.target().Behavior(kind) != nil
}
