// Package maps saves and loads whole editor maps: terrain, placed items,
// instanced models, materials and water.
package maps

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/milk9111/worldeditor/material"
	"github.com/milk9111/worldeditor/scene"
	"github.com/milk9111/worldeditor/steering"
	"github.com/milk9111/worldeditor/terrain"
	"github.com/milk9111/worldeditor/water"
)

// Version is written into every saved document.
const Version = 1

// Document is the on-disk form of a map.
type Document struct {
	Version   int                           `json:"version"`
	Name      string                        `json:"name"`
	Terrain   TerrainDoc                    `json:"terrain"`
	Items     []ItemDoc                     `json:"items,omitempty"`
	Models    []ModelDoc                    `json:"models,omitempty"`
	Materials map[string]*material.Material `json:"materials,omitempty"`
	Water     water.Params                  `json:"water"`
}

type TerrainDoc struct {
	Width    int       `json:"width"`
	Depth    int       `json:"depth"`
	CellSize float32   `json:"cellSize"`
	Layers   int       `json:"layers"`
	Heights  []float32 `json:"heights"`
	Alpha    []float32 `json:"alpha"`
	Paths    []uint8   `json:"paths"`
}

type ItemDoc struct {
	ID           uuid.UUID         `json:"id"`
	Name         string            `json:"name"`
	Type         string            `json:"type"`
	Position     mgl32.Vec3        `json:"position"`
	Angle        float32           `json:"angle"`
	Scale        float32           `json:"scale"`
	Radius       float32           `json:"radius"`
	MaxForce     float32           `json:"maxForce"`
	MaxSpeed     float32           `json:"maxSpeed"`
	PlayerNumber int               `json:"playerNumber"`
	Behaviors    []steering.Config `json:"behaviors,omitempty"`
}

type ModelDoc struct {
	Name      string        `json:"name"`
	Radius    float32       `json:"radius"`
	Instances []InstanceDoc `json:"instances"`
}

type InstanceDoc struct {
	ID       uuid.UUID  `json:"id"`
	Position mgl32.Vec3 `json:"position"`
	Angle    float32    `json:"angle"`
	Scale    float32    `json:"scale"`
}

// World is the live, editable state of one map.
type World struct {
	Terrain   *terrain.Terrain
	Scene     *scene.Scene
	Water     *water.Manager
	Materials *material.Library
}

// NewWorld creates an empty map with a flat terrain of width x depth vertices.
func NewWorld(width, depth int, cellSize float32, layers int, log *slog.Logger) (*World, error) {
	t, err := terrain.New(width, depth, cellSize, layers)
	if err != nil {
		return nil, err
	}
	w, d := t.Height.Extent()
	s := scene.New(w, d)
	s.SetGround(t)
	return &World{
		Terrain:   t,
		Scene:     s,
		Water:     water.NewManager(log),
		Materials: material.NewLibrary(),
	}, nil
}

// Capture snapshots w into a document called name.
func Capture(name string, w *World) *Document {
	t := w.Terrain
	doc := &Document{
		Version: Version,
		Name:    name,
		Terrain: TerrainDoc{
			Width:    t.Height.Width,
			Depth:    t.Height.Depth,
			CellSize: t.Height.CellSize,
			Layers:   t.Alpha.Layers,
			Heights:  append([]float32(nil), t.Height.Heights()...),
			Alpha:    append([]float32(nil), t.Alpha.Weights()...),
			Paths:    append([]uint8(nil), t.Paths.Costs()...),
		},
		Water: w.Water.Params(),
	}
	for _, it := range w.Scene.Items() {
		doc.Items = append(doc.Items, ItemDoc{
			ID:           it.ID,
			Name:         it.Name,
			Type:         it.Type,
			Position:     it.Position,
			Angle:        it.Angle,
			Scale:        it.Scale,
			Radius:       it.Radius,
			MaxForce:     it.MaxForce,
			MaxSpeed:     it.MaxSpeed,
			PlayerNumber: it.PlayerNumber,
			Behaviors:    it.Behaviors.Export(),
		})
	}
	for _, m := range w.Scene.Models() {
		md := ModelDoc{Name: m.Name, Radius: m.Radius}
		for _, in := range m.Instances() {
			md.Instances = append(md.Instances, InstanceDoc{ID: in.ID, Position: in.Position, Angle: in.Angle, Scale: in.Scale})
		}
		doc.Models = append(doc.Models, md)
	}
	if all := w.Materials.All(); len(all) > 0 {
		doc.Materials = make(map[string]*material.Material, len(all))
		for k, v := range all {
			doc.Materials[k] = v
		}
	}
	return doc
}

// Restore builds a live world from doc.
func (doc *Document) Restore(log *slog.Logger) (*World, error) {
	td := doc.Terrain
	w, err := NewWorld(td.Width, td.Depth, td.CellSize, td.Layers, log)
	if err != nil {
		return nil, fmt.Errorf("maps: %q terrain: %w", doc.Name, err)
	}
	if err := w.Terrain.Height.Load(td.Heights); err != nil {
		return nil, fmt.Errorf("maps: %q heights: %w", doc.Name, err)
	}
	if err := w.Terrain.Alpha.Load(td.Alpha); err != nil {
		return nil, fmt.Errorf("maps: %q alpha: %w", doc.Name, err)
	}
	if err := w.Terrain.Paths.Load(td.Paths); err != nil {
		return nil, fmt.Errorf("maps: %q paths: %w", doc.Name, err)
	}

	for _, id := range doc.Items {
		it := scene.NewItem(id.Name, id.Type)
		if id.ID != uuid.Nil {
			it.ID = id.ID
		}
		it.Position = id.Position
		it.Angle = id.Angle
		it.Scale = id.Scale
		it.Radius = id.Radius
		it.MaxForce = id.MaxForce
		it.MaxSpeed = id.MaxSpeed
		it.PlayerNumber = id.PlayerNumber
		for _, cfg := range id.Behaviors {
			if err := it.Behaviors.Apply(cfg); err != nil {
				return nil, fmt.Errorf("maps: %q item %q: %w", doc.Name, id.Name, err)
			}
		}
		if _, err := w.Scene.AddItem(it); err != nil {
			return nil, fmt.Errorf("maps: %q: %w", doc.Name, err)
		}
	}

	for _, md := range doc.Models {
		m := scene.NewInstancedModel(md.Name, md.Radius)
		for _, in := range md.Instances {
			m.Put(&scene.Instance{ID: in.ID, Position: in.Position, Angle: in.Angle, Scale: in.Scale})
		}
		if err := w.Scene.AddModel(m); err != nil {
			return nil, fmt.Errorf("maps: %q: %w", doc.Name, err)
		}
	}
	for name, m := range doc.Materials {
		if m != nil {
			w.Materials.Put(name, m)
		}
	}
	w.Water.Apply(doc.Water)
	return w, nil
}
