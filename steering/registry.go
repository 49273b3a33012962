package steering

// Registry holds at most one active behavior per kind.
type Registry struct {
	slots [kindCount]Behavior
}

// Get returns the active behavior for kind, or nil.
func (r *Registry) Get(kind Kind) Behavior {
	if r == nil || !kind.Valid() {
		return nil
	}
	return r.slots[kind]
}

// Has reports whether kind has an active behavior.
func (r *Registry) Has(kind Kind) bool {
	return r.Get(kind) != nil
}

func (r *Registry) put(b Behavior) {
	r.slots[b.Kind()] = b
}

func (r *Registry) remove(kind Kind) bool {
	if !kind.Valid() || r.slots[kind] == nil {
		return false
	}
	r.slots[kind] = nil
	return true
}

// Active returns the kinds with a registered behavior in declaration order.
func (r *Registry) Active() []Kind {
	if r == nil {
		return nil
	}
	var out []Kind
	for k, b := range r.slots {
		if b != nil {
			out = append(out, Kind(k))
		}
	}
	return out
}

// Len returns the number of active behaviors.
func (r *Registry) Len() int {
	n := 0
	if r == nil {
		return n
	}
	for _, b := range r.slots {
		if b != nil {
			n++
		}
	}
	return n
}
