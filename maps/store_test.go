package maps

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/worldeditor/material"
	"github.com/milk9111/worldeditor/scene"
	"github.com/milk9111/worldeditor/steering"
	"github.com/milk9111/worldeditor/terrain"
	"github.com/milk9111/worldeditor/water"
)

func sampleWorld(t *testing.T) *World {
	t.Helper()
	w, err := NewWorld(9, 9, 2, 3, nil)
	require.NoError(t, err)

	w.Terrain.Height.Set(4, 4, 3)
	w.Terrain.Alpha.Paint(mgl32.Vec3{8, 0, 8}, 2, terrain.Brush{Radius: 3, Strength: 0.5})
	w.Terrain.Paths.Block(mgl32.Vec3{1, 0, 1}, terrain.Brush{Radius: 1})

	it := scene.NewItem("scout", "soldier")
	it.Position = mgl32.Vec3{4, 0, 6}
	it.Angle = 90
	it.PlayerNumber = 2
	require.NoError(t, it.Behaviors.SetActive(steering.KindArrive, true))
	require.NoError(t, it.Behaviors.SetAttribute(steering.KindArrive, steering.At(steering.PropTarget), mgl32.Vec3{1, 2, 3}))
	require.NoError(t, it.Behaviors.SetActive(steering.KindWander, true))
	_, err = w.Scene.AddItem(it)
	require.NoError(t, err)

	trees := scene.NewInstancedModel("tree", 1.5)
	trees.Add(mgl32.Vec3{2, 0, 2}).Scale = 2
	trees.Add(mgl32.Vec3{10, 0, 3})
	require.NoError(t, w.Scene.AddModel(trees))
	require.NoError(t, w.Materials.For("tree", 2).SetFloat(material.Tiling, 1, 3))

	_, err = w.Water.Set(water.ParamWaveHeight, 1.25)
	require.NoError(t, err)
	return w
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir(), nil)
	w := sampleWorld(t)
	require.NoError(t, store.Save("Island", Capture("Island", w), false))

	doc, err := store.Load("Island.json")
	require.NoError(t, err)
	assert.Equal(t, "Island", doc.Name)
	assert.Equal(t, Version, doc.Version)

	got, err := doc.Restore(nil)
	require.NoError(t, err)

	assert.Equal(t, float32(3), got.Terrain.Height.At(4, 4))
	assert.Equal(t, w.Terrain.Alpha.Weights(), got.Terrain.Alpha.Weights())
	assert.Equal(t, w.Terrain.Paths.Costs(), got.Terrain.Paths.Costs())

	h, ok := got.Scene.FindByName("scout")
	require.True(t, ok)
	it, _ := got.Scene.Item(h)
	assert.Equal(t, 2, it.PlayerNumber)
	assert.Equal(t, float32(90), it.Angle)
	assert.True(t, it.Behaviors.Registry().Has(steering.KindWander))
	v, ok := it.Behaviors.GetAttribute(steering.KindArrive, steering.PropTarget)
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, v)

	trees, ok := got.Scene.Model("tree")
	require.True(t, ok)
	require.Len(t, trees.Instances(), 2)
	assert.Equal(t, float32(2), trees.Instances()[0].Scale)

	m, ok := got.Materials.Get("tree")
	require.True(t, ok)
	tiling, err := m.Float(material.Tiling, 1)
	require.NoError(t, err)
	assert.Equal(t, float32(3), tiling)

	assert.Equal(t, float32(1.25), got.Water.Params().WaveHeight)
}

func TestSaveNameValidation(t *testing.T) {
	store := NewStore(t.TempDir(), nil)
	doc := Capture("a", sampleWorld(t))

	assert.ErrorIs(t, store.Save("  ", doc, false), ErrEmptyName)
	assert.ErrorIs(t, store.Save("a/b", doc, false), ErrBadName)

	require.NoError(t, store.Save("first", doc, false))
	assert.ErrorIs(t, store.Save("first", doc, false), ErrDuplicateName)
	assert.ErrorIs(t, store.Save("First.json ", doc, false), ErrDuplicateName)
	require.NoError(t, store.Save("first", doc, true), "overwrite was requested")
}

func TestListAndDelete(t *testing.T) {
	store := NewStore(t.TempDir(), nil)
	names, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	doc := Capture("x", sampleWorld(t))
	require.NoError(t, store.Save("beta", doc, false))
	require.NoError(t, store.Save("alpha", doc, false))

	names, err = store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, names)

	require.NoError(t, store.Delete("alpha"))
	assert.ErrorIs(t, store.Delete("alpha"), ErrNotFound)
	_, err = store.Load("alpha")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadDeleteStayInDir(t *testing.T) {
	root := t.TempDir()
	store := NewStore(filepath.Join(root, "maps"), nil)
	outside := filepath.Join(root, "x.json")
	require.NoError(t, os.WriteFile(outside, []byte(`{"version":1}`), 0644))

	for _, name := range []string{"../x", `..\x`, "..", "sub/x", "x:y"} {
		t.Run(name, func(t *testing.T) {
			_, err := store.Load(name)
			assert.ErrorIs(t, err, ErrBadName)
			assert.ErrorIs(t, store.Delete(name), ErrBadName)
		})
	}
	assert.FileExists(t, outside)

	_, err := store.Load(" ")
	assert.ErrorIs(t, err, ErrEmptyName)
	assert.ErrorIs(t, store.Delete(""), ErrEmptyName)
}

func TestListMissingDir(t *testing.T) {
	store := NewStore(t.TempDir()+"/none", nil)
	names, err := store.List()
	require.NoError(t, err)
	assert.Nil(t, names)
}
