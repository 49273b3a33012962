package editor

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/milk9111/worldeditor/form"
	"github.com/milk9111/worldeditor/scene"
	"github.com/milk9111/worldeditor/steering"
)

// AttrKey names one editable behavior value: a scalar property, or one
// component of a vector property.
type AttrKey struct {
	Kind steering.Kind
	Path steering.Path
}

// PropertiesForm is the properties window of the selected item or instance.
type PropertiesForm struct {
	Form *form.Form

	Height   *form.Field[float64]
	Angle    *form.Field[float64]
	Scale    *form.Field[float64]
	MaxForce *form.Field[float64]
	MaxSpeed *form.Field[float64]
	Player   *form.Field[float64]
	Name     *form.Field[string]

	// NameError is the validation message shown under the name box.
	NameError string

	Behaviors map[steering.Kind]*form.Field[bool]
	Numbers   map[AttrKey]*form.Field[float64]
	Flags     map[AttrKey]*form.Field[bool]

	s *Session
}

func NewPropertiesForm(s *Session) *PropertiesForm {
	p := &PropertiesForm{
		Form:      form.New(s.HasSelection),
		Behaviors: map[steering.Kind]*form.Field[bool]{},
		Numbers:   map[AttrKey]*form.Field[float64]{},
		Flags:     map[AttrKey]*form.Field[bool]{},
		s:         s,
	}
	r := s.Config.Ranges

	p.Height = p.placement(r.Height, scene.AttrHeight)
	p.Angle = p.placement(r.Angle, scene.AttrAngle)
	p.Scale = p.placement(r.Scale, scene.AttrScale)

	p.MaxForce = form.BindRange(p.Form, r.MaxForce,
		p.itemFloat(func(it *scene.Item) *float32 { return &it.MaxForce }),
		p.setItemFloat(func(it *scene.Item) *float32 { return &it.MaxForce }))
	p.MaxSpeed = form.BindRange(p.Form, r.MaxSpeed,
		p.itemFloat(func(it *scene.Item) *float32 { return &it.MaxSpeed }),
		p.setItemFloat(func(it *scene.Item) *float32 { return &it.MaxSpeed }))

	p.Player = form.BindRange(p.Form, r.Player,
		func() (float64, bool) {
			it, _, ok := s.SelectedItem()
			if !ok {
				return 0, false
			}
			return float64(it.PlayerNumber), true
		},
		func(v float64) error {
			if it, _, ok := s.SelectedItem(); ok {
				it.PlayerNumber = int(v)
			}
			return nil
		}).Normalize(func(v float64) float64 { return math.Round(r.Player.Clamp(v)) })

	p.Name = form.Bind(p.Form,
		func() (string, bool) {
			it, _, ok := s.SelectedItem()
			if !ok {
				return "", false
			}
			return it.Name, true
		},
		func(v string) error {
			_, h, ok := s.SelectedItem()
			if !ok {
				return nil
			}
			return s.World.Scene.Rename(h, v)
		})

	for _, k := range steering.Kinds() {
		p.bindBehavior(k)
	}
	s.OnSelectionChanged(p.Refresh)
	return p
}

// Refresh reloads every field from the selection.
func (p *PropertiesForm) Refresh() {
	p.NameError = ""
	p.Form.Refresh()
}

// placement binds Height, Angle or Scale of whichever of item or instance is
// selected.
func (p *PropertiesForm) placement(r form.Range, attr scene.InstanceAttr) *form.Field[float64] {
	s := p.s
	return form.BindRange(p.Form, r,
		func() (float64, bool) {
			if in, _, ok := s.SelectedInstance(); ok {
				return float64(in.Get(attr)), true
			}
			if it, _, ok := s.SelectedItem(); ok {
				return float64(itemPlacement(it, attr)), true
			}
			return 0, false
		},
		func(v float64) error {
			if in, _, ok := s.SelectedInstance(); ok {
				in.Set(attr, float32(v))
				s.World.Scene.Index().MarkDirty()
				return nil
			}
			if it, _, ok := s.SelectedItem(); ok {
				setItemPlacement(it, attr, float32(v))
				s.World.Scene.Index().MarkDirty()
			}
			return nil
		})
}

func itemPlacement(it *scene.Item, attr scene.InstanceAttr) float32 {
	switch attr {
	case scene.AttrHeight:
		return it.Position[1]
	case scene.AttrAngle:
		return it.Angle
	case scene.AttrScale:
		return it.Scale
	}
	return 0
}

func setItemPlacement(it *scene.Item, attr scene.InstanceAttr, v float32) {
	switch attr {
	case scene.AttrHeight:
		it.Position[1] = v
	case scene.AttrAngle:
		it.Angle = v
	case scene.AttrScale:
		it.Scale = v
	}
}

func (p *PropertiesForm) itemFloat(field func(*scene.Item) *float32) func() (float64, bool) {
	return func() (float64, bool) {
		it, _, ok := p.s.SelectedItem()
		if !ok {
			return 0, false
		}
		return float64(*field(it)), true
	}
}

func (p *PropertiesForm) setItemFloat(field func(*scene.Item) *float32) func(float64) error {
	return func(v float64) error {
		if it, _, ok := p.s.SelectedItem(); ok {
			*field(it) = float32(v)
		}
		return nil
	}
}

// SetName validates and applies a name typed into the name box. Rejected
// names leave the item unchanged and set NameError.
func (p *PropertiesForm) SetName(control int, name string) error {
	err := p.Name.Edited(control, name)
	switch {
	case err == nil:
		p.NameError = ""
	case errors.Is(err, scene.ErrDuplicateName):
		p.NameError = "Another item already has this name."
	case errors.Is(err, scene.ErrEmptyName):
		p.NameError = "Name cannot be empty."
	default:
		p.NameError = err.Error()
	}
	return err
}

func (p *PropertiesForm) bindBehavior(k steering.Kind) {
	b := p.s.Binder
	p.Behaviors[k] = form.Bind(p.Form,
		func() (bool, bool) {
			if _, _, ok := p.s.SelectedItem(); !ok {
				return false, false
			}
			return b.IsActive(k), true
		},
		func(on bool) error { return b.SetBehaviorActive(k, on) })

	for _, prop := range steering.Properties(k) {
		if steering.IsVector(k, prop) {
			for i, f := range []string{steering.FieldX, steering.FieldY, steering.FieldZ} {
				key := AttrKey{Kind: k, Path: steering.At(prop).Sub(f)}
				p.Numbers[key] = p.bindNumber(key, i)
			}
			continue
		}
		key := AttrKey{Kind: k, Path: steering.At(prop)}
		def, _ := defaultValue(k, prop)
		if _, ok := def.(bool); ok {
			p.Flags[key] = form.Bind(p.Form,
				func() (bool, bool) {
					v, ok := b.GetAttribute(k, prop)
					if !ok {
						return false, false
					}
					on, ok := v.(bool)
					return on, ok
				},
				func(on bool) error { return b.SetAttribute(k, key.Path, on) })
			continue
		}
		p.Numbers[key] = p.bindNumber(key, -1)
	}
}

// bindNumber binds a numeric attribute. component selects a vector component,
// or -1 for a scalar.
func (p *PropertiesForm) bindNumber(key AttrKey, component int) *form.Field[float64] {
	b := p.s.Binder
	return form.Bind(p.Form,
		func() (float64, bool) {
			v, ok := b.GetAttribute(key.Kind, key.Path.Property)
			if !ok {
				return 0, false
			}
			return numeric(v, component)
		},
		func(v float64) error {
			if component >= 0 {
				return b.SetAttribute(key.Kind, key.Path, float32(v))
			}
			return b.SetAttribute(key.Kind, key.Path, v)
		})
}

// ToggleBehavior is the check box handler of a behavior. The kind's attribute
// fields are reloaded so a newly active behavior shows its defaults.
func (p *PropertiesForm) ToggleBehavior(k steering.Kind, control int, on bool) error {
	fl, ok := p.Behaviors[k]
	if !ok {
		return steering.ErrUnknownKind
	}
	if err := fl.Edited(control, on); err != nil {
		return err
	}
	p.Form.Refresh()
	return nil
}

// SetAll broadcasts the selected instance's value of attr to every instance
// of its model.
func (p *PropertiesForm) SetAll(attr scene.InstanceAttr) error {
	in, _, ok := p.s.SelectedInstance()
	if !ok {
		return ErrNoInstance
	}
	return p.s.SetAll(attr, in.Get(attr))
}

// CanSetAll reports whether the Set All buttons apply to the selection.
func (p *PropertiesForm) CanSetAll() bool {
	_, _, ok := p.s.SelectedInstance()
	return ok
}

func numeric(v any, component int) (float64, bool) {
	switch x := v.(type) {
	case float32:
		return float64(x), component < 0
	case int:
		return float64(x), component < 0
	case mgl32.Vec3:
		if component >= 0 && component < 3 {
			return float64(x[component]), true
		}
	}
	return 0, false
}

func defaultValue(k steering.Kind, prop string) (any, bool) {
	g := steering.NewAggregator()
	if err := g.SetActive(k, true); err != nil {
		return nil, false
	}
	return g.GetAttribute(k, prop)
}
