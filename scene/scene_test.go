package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingMarker struct{ n int }

func (c *countingMarker) MarkDirty() { c.n++ }

type flatGround float32

func (g flatGround) HeightAt(x, z float32) float32 { return float32(g) }

func TestApplyToAllInstances(t *testing.T) {
	m := NewInstancedModel("pine", 1)
	var siblings []*Instance
	for i := 0; i < 5; i++ {
		siblings = append(siblings, m.Add(mgl32.Vec3{float32(i), 3, 0}))
	}
	current := m.Add(mgl32.Vec3{9, 0, 9})
	marker := &countingMarker{}

	require.NoError(t, m.ApplyToAll(current, AttrHeight, 42, marker))

	assert.Equal(t, float32(42), current.Height())
	for _, in := range siblings {
		assert.Equal(t, float32(42), in.Height())
	}
	assert.Equal(t, 1, marker.n)
}

func TestApplyToAllOtherAttributes(t *testing.T) {
	cases := []struct {
		attr InstanceAttr
		val  float32
	}{
		{AttrAngle, 90},
		{AttrScale, 2.5},
	}
	for _, tc := range cases {
		t.Run(tc.attr.String(), func(t *testing.T) {
			m := NewInstancedModel("rock", 2)
			a := m.Add(mgl32.Vec3{})
			b := m.Add(mgl32.Vec3{1, 0, 1})
			require.NoError(t, m.ApplyToAll(a, tc.attr, tc.val, nil))
			assert.Equal(t, tc.val, a.Get(tc.attr))
			assert.Equal(t, tc.val, b.Get(tc.attr))
		})
	}
}

func TestApplyToAllRejectsForeignInstance(t *testing.T) {
	m := NewInstancedModel("pine", 1)
	m.Add(mgl32.Vec3{})
	stranger := &Instance{ID: uuid.New()}
	marker := &countingMarker{}
	assert.ErrorIs(t, m.ApplyToAll(stranger, AttrScale, 3, marker), ErrNotFound)
	assert.Zero(t, marker.n)
	assert.NoError(t, m.ApplyToAll(nil, AttrScale, 3, marker))
	assert.Zero(t, marker.n)
}

func TestSceneApplyToAllRebuildsOnce(t *testing.T) {
	s := New(64, 64)
	m := NewInstancedModel("pine", 1)
	require.NoError(t, s.AddModel(m))
	cur := m.Add(mgl32.Vec3{4, 0, 4})
	m.Add(mgl32.Vec3{10, 0, 10})

	s.PrepareRender()
	builds := s.Index().Builds()
	require.False(t, s.Index().Dirty())

	require.NoError(t, s.ApplyToAllInstances("pine", cur, AttrScale, 2))
	assert.True(t, s.Index().Dirty())
	s.PrepareRender()
	s.PrepareRender()
	assert.Equal(t, builds+1, s.Index().Builds())

	assert.ErrorIs(t, s.ApplyToAllInstances("oak", cur, AttrScale, 2), ErrNotFound)
}

func TestSceneItemsAndNames(t *testing.T) {
	s := New(100, 100)
	h1, err := s.AddItem(NewItem("tank", "unit"))
	require.NoError(t, err)
	h2, err := s.AddItem(NewItem("scout", "unit"))
	require.NoError(t, err)

	_, err = s.AddItem(NewItem("Tank", "unit"))
	assert.ErrorIs(t, err, ErrDuplicateName)
	_, err = s.AddItem(NewItem("  ", "unit"))
	assert.ErrorIs(t, err, ErrEmptyName)

	assert.ErrorIs(t, s.Rename(h2, "tank"), ErrDuplicateName)
	require.NoError(t, s.Rename(h1, "tank"))
	require.NoError(t, s.Rename(h2, "recon"))
	it, ok := s.Item(h2)
	require.True(t, ok)
	assert.Equal(t, "recon", it.Name)

	require.True(t, s.RemoveItem(h1))
	_, ok = s.Item(h1)
	assert.False(t, ok)
	assert.False(t, s.RemoveItem(h1))

	// the freed slot is reused with a new generation
	h3, err := s.AddItem(NewItem("tank", "unit"))
	require.NoError(t, err)
	assert.Equal(t, h1.ID, h3.ID)
	assert.NotEqual(t, h1, h3)
	_, ok = s.Item(h1)
	assert.False(t, ok)
	assert.Len(t, s.Items(), 2)
	assert.ErrorIs(t, s.Rename(h2, "TANK"), ErrDuplicateName)
	require.NoError(t, s.Rename(h3, "Tank"), "renaming to its own name")
}

func TestMoveItemSnapsToGround(t *testing.T) {
	s := New(100, 100)
	s.SetGround(flatGround(7))
	h, err := s.AddItem(NewItem("tank", "unit"))
	require.NoError(t, err)
	require.NoError(t, s.MoveItem(h, 10, 20))
	it, _ := s.Item(h)
	assert.Equal(t, mgl32.Vec3{10, 7, 20}, it.Position)
}

func TestSpatialIndexQuery(t *testing.T) {
	s := New(256, 256)
	m := NewInstancedModel("bush", 0.5)
	require.NoError(t, s.AddModel(m))
	for x := 0; x < 20; x++ {
		m.Add(mgl32.Vec3{float32(x*10 + 5), 0, 5})
	}
	got := s.Visible(cp.BB{L: 0, B: 0, R: 30, T: 10})
	assert.Len(t, got, 3)
	assert.Empty(t, s.Visible(cp.BB{L: 0, B: 100, R: 256, T: 200}))
}

func TestItemHeading(t *testing.T) {
	it := NewItem("a", "unit")
	it.Angle = 90
	h := it.Heading()
	assert.InDelta(t, 1, h[0], 1e-5)
	assert.InDelta(t, 0, h[2], 1e-5)
}

func TestSparseSetRemoveKeepsOthers(t *testing.T) {
	var s SparseSet[string]
	s.Set(1, "a")
	s.Set(2, "b")
	s.Set(3, "c")
	require.True(t, s.Remove(1))
	v, ok := s.Get(3)
	require.True(t, ok)
	assert.Equal(t, "c", v)
	assert.Equal(t, 2, s.Len())
	assert.False(t, s.Has(1))
}
