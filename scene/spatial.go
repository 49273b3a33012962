package scene

import "github.com/jakecoffman/cp"

const (
	quadCapacity = 8
	quadMaxDepth = 8
)

// Entry is one culling record: an opaque key and its ground footprint.
type Entry struct {
	Key    string
	Bounds cp.BB
}

type quadNode struct {
	bounds   cp.BB
	entries  []Entry
	children *[4]quadNode
	depth    int
}

// SpatialIndex is the visibility quadtree over the map's ground plane. It is
// rebuilt lazily: edits only mark it dirty.
type SpatialIndex struct {
	bounds cp.BB
	root   quadNode
	dirty  bool
	source func() []Entry
	builds int
}

// NewSpatialIndex covers bounds and pulls entries from source on rebuild.
func NewSpatialIndex(bounds cp.BB, source func() []Entry) *SpatialIndex {
	return &SpatialIndex{bounds: bounds, source: source, dirty: true}
}

// MarkDirty schedules a rebuild before the next query.
func (s *SpatialIndex) MarkDirty() {
	if s == nil {
		return
	}
	s.dirty = true
}

// Dirty reports whether a rebuild is pending.
func (s *SpatialIndex) Dirty() bool {
	return s != nil && s.dirty
}

// Builds returns how many times the tree was rebuilt.
func (s *SpatialIndex) Builds() int {
	if s == nil {
		return 0
	}
	return s.builds
}

// Rebuild reconstructs the tree if it is dirty.
func (s *SpatialIndex) Rebuild() {
	if s == nil || !s.dirty {
		return
	}
	s.root = quadNode{bounds: s.bounds}
	if s.source != nil {
		for _, e := range s.source() {
			s.root.insert(e)
		}
	}
	s.dirty = false
	s.builds++
}

// Query returns the keys whose footprint intersects bb.
func (s *SpatialIndex) Query(bb cp.BB) []string {
	if s == nil {
		return nil
	}
	s.Rebuild()
	var out []string
	s.root.query(bb, &out)
	return out
}

func (n *quadNode) insert(e Entry) {
	if n.children != nil {
		if c := n.childFor(e.Bounds); c != nil {
			c.insert(e)
			return
		}
		n.entries = append(n.entries, e)
		return
	}
	n.entries = append(n.entries, e)
	if len(n.entries) > quadCapacity && n.depth < quadMaxDepth {
		n.split()
	}
}

func (n *quadNode) split() {
	b := n.bounds
	mx := (b.L + b.R) / 2
	my := (b.B + b.T) / 2
	n.children = &[4]quadNode{
		{bounds: cp.BB{L: b.L, B: b.B, R: mx, T: my}, depth: n.depth + 1},
		{bounds: cp.BB{L: mx, B: b.B, R: b.R, T: my}, depth: n.depth + 1},
		{bounds: cp.BB{L: b.L, B: my, R: mx, T: b.T}, depth: n.depth + 1},
		{bounds: cp.BB{L: mx, B: my, R: b.R, T: b.T}, depth: n.depth + 1},
	}
	old := n.entries
	n.entries = nil
	for _, e := range old {
		if c := n.childFor(e.Bounds); c != nil {
			c.insert(e)
		} else {
			n.entries = append(n.entries, e)
		}
	}
}

// childFor returns the child that fully contains bb, if any.
func (n *quadNode) childFor(bb cp.BB) *quadNode {
	for i := range n.children {
		if n.children[i].bounds.Contains(bb) {
			return &n.children[i]
		}
	}
	return nil
}

func (n *quadNode) query(bb cp.BB, out *[]string) {
	if !n.bounds.Intersects(bb) && n.depth > 0 {
		return
	}
	for _, e := range n.entries {
		if e.Bounds.Intersects(bb) {
			*out = append(*out, e.Key)
		}
	}
	if n.children == nil {
		return
	}
	for i := range n.children {
		n.children[i].query(bb, out)
	}
}
