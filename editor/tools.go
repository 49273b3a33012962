package editor

import (
	"github.com/milk9111/worldeditor/form"
	"github.com/milk9111/worldeditor/material"
	"github.com/milk9111/worldeditor/water"
)

// ColorKey names one channel of a color parameter.
type ColorKey struct {
	Color   water.Color
	Channel int
}

// WaterForm edits the open map's water. The water always exists, so the form
// never lacks a selection.
type WaterForm struct {
	Form   *form.Form
	Params map[water.Param]*form.Field[float64]
	Colors map[ColorKey]*form.Field[float64]

	s *Session
}

func NewWaterForm(s *Session) *WaterForm {
	w := &WaterForm{
		Form:   form.New(nil),
		Params: map[water.Param]*form.Field[float64]{},
		Colors: map[ColorKey]*form.Field[float64]{},
		s:      s,
	}
	for _, k := range water.AllParams() {
		w.Params[k] = form.BindRange(w.Form, k.Range(),
			func() (float64, bool) {
				v, err := s.World.Water.Get(k)
				return float64(v), err == nil
			},
			func(v float64) error {
				_, err := s.World.Water.Set(k, float32(v))
				return err
			})
	}
	unit := form.Range{Min: 0, Max: 1}
	for _, c := range []water.Color{water.ColorSun, water.ColorWater} {
		for ch := 0; ch < 4; ch++ {
			w.Colors[ColorKey{c, ch}] = form.BindRange(w.Form, unit,
				func() (float64, bool) {
					v, err := s.World.Water.Color(c)
					return float64(v[ch]), err == nil
				},
				func(v float64) error {
					cur, err := s.World.Water.Color(c)
					if err != nil {
						return err
					}
					cur[ch] = float32(v)
					return s.World.Water.SetColor(c, cur)
				})
		}
	}
	s.OnSelectionChanged(w.Form.Refresh)
	return w
}

// ApplyPreset loads a water preset and shows its values.
func (w *WaterForm) ApplyPreset(name string) error {
	if err := w.s.ApplyWaterPreset(name); err != nil {
		return err
	}
	w.Form.Refresh()
	return nil
}

// MaterialForm edits the material of the selected instance's model. Part
// selects one model part, or material.AllParts.
type MaterialForm struct {
	Form   *form.Form
	Part   int
	Floats map[material.ParamKind]*form.Field[float64]
	Colors map[MaterialColorKey]*form.Field[float64]

	// Parts is how many parts a model gets the first time its material is
	// edited.
	Parts int

	s *Session
}

// MaterialColorKey names one channel of a material color.
type MaterialColorKey struct {
	Kind    material.ParamKind
	Channel int
}

var materialRanges = map[material.ParamKind]form.Range{
	material.SpecularPower: {Min: 1, Max: 256},
	material.BumpStrength:  {Min: 0, Max: 4},
	material.NoiseScale:    {Min: 0.01, Max: 100},
	material.Tiling:        {Min: 0.01, Max: 64},
}

func NewMaterialForm(s *Session) *MaterialForm {
	m := &MaterialForm{
		Floats: map[material.ParamKind]*form.Field[float64]{},
		Colors: map[MaterialColorKey]*form.Field[float64]{},
		Part:   material.AllParts,
		Parts:  1,
		s:      s,
	}
	m.Form = form.New(func() bool {
		_, _, ok := s.SelectedInstance()
		return ok
	})

	for _, k := range material.Kinds() {
		if k.IsColor() {
			for ch := 0; ch < 4; ch++ {
				m.Colors[MaterialColorKey{k, ch}] = form.BindRange(m.Form, form.Range{Min: 0, Max: 1},
					func() (float64, bool) {
						mat := m.view()
						if mat == nil {
							return 0, false
						}
						c, err := mat.Color(k, m.Part)
						return float64(c[ch]), err == nil
					},
					func(v float64) error {
						mat := m.current()
						if mat == nil {
							return nil
						}
						part := m.Part
						if part == material.AllParts {
							part = 0
						}
						c, err := mat.Color(k, part)
						if err != nil {
							return err
						}
						c[ch] = float32(v)
						return mat.SetColor(k, m.Part, c)
					})
			}
			continue
		}
		m.Floats[k] = form.BindRange(m.Form, materialRanges[k],
			func() (float64, bool) {
				mat := m.view()
				if mat == nil {
					return 0, false
				}
				v, err := mat.Float(k, m.Part)
				return float64(v), err == nil
			},
			func(v float64) error {
				mat := m.current()
				if mat == nil {
					return nil
				}
				return mat.SetFloat(k, m.Part, float32(v))
			})
	}
	s.OnSelectionChanged(m.Form.Refresh)
	return m
}

// current returns the selected model's material, creating it on first edit.
func (m *MaterialForm) current() *material.Material {
	_, model, ok := m.s.SelectedInstance()
	if !ok {
		return nil
	}
	return m.s.World.Materials.For(model, m.Parts)
}

// view returns the selected model's material for display without storing a
// default one.
func (m *MaterialForm) view() *material.Material {
	_, model, ok := m.s.SelectedInstance()
	if !ok {
		return nil
	}
	if mat, ok := m.s.World.Materials.Get(model); ok {
		return mat
	}
	return material.New(m.Parts)
}

// SelectPart switches the edited part and reloads the fields.
func (m *MaterialForm) SelectPart(part int) error {
	mat := m.view()
	if mat != nil && part != material.AllParts && (part < 0 || part >= len(mat.Parts)) {
		return material.ErrBadPart
	}
	m.Part = part
	m.Form.Refresh()
	return nil
}
