package main

import (
	"github.com/ebitenui/ebitenui/widget"

	"github.com/milk9111/worldeditor/editor"
	"github.com/milk9111/worldeditor/form"
	"github.com/milk9111/worldeditor/presets"
	"github.com/milk9111/worldeditor/scene"
	"github.com/milk9111/worldeditor/steering"
)

// propertiesPanel is the left panel: the selected item or instance.
type propertiesPanel struct {
	Container *widget.Container

	form      *editor.PropertiesForm
	title     *widget.Label
	nameError *widget.Label
	setAll    []*widget.Button
	presets   *presetRow
	session   *editor.Session
}

func buildPropertiesPanel(k *uiKit, s *editor.Session, p *editor.PropertiesForm) *propertiesPanel {
	pp := &propertiesPanel{form: p, session: s}
	content := widget.NewContainer(vertical(4))

	pp.title = k.label("Nothing selected")
	content.AddChild(pp.title)

	nameIdx := -1
	nameInput := k.textInput(180, func(v string) {
		k.report("rename", p.SetName(nameIdx, v))
		pp.nameError.Label = p.NameError
	})
	nameIdx = p.Name.AttachQuiet(controlText(nameInput))
	pp.nameError = widget.NewLabel(widget.LabelOpts.Text("", k.face, errorColor))
	content.AddChild(k.row(k.fixedLabel("Name", 90), nameInput), pp.nameError)

	r := s.Config.Ranges
	placements := []struct {
		attr scene.InstanceAttr
		row  *widget.Container
	}{
		{scene.AttrHeight, k.numberRow("Height", p.Height, r.Height)},
		{scene.AttrAngle, k.numberRow("Angle", p.Angle, r.Angle)},
		{scene.AttrScale, k.numberRow("Scale", p.Scale, r.Scale)},
	}
	for _, pl := range placements {
		attr := pl.attr
		btn := k.button("Set All", func() {
			k.report("set all "+attr.String(), p.SetAll(attr))
		})
		pl.row.AddChild(btn)
		pp.setAll = append(pp.setAll, btn)
		content.AddChild(pl.row)
	}
	content.AddChild(
		k.numberRow("MaxForce", p.MaxForce, r.MaxForce),
		k.numberRow("MaxSpeed", p.MaxSpeed, r.MaxSpeed),
		k.numberRow("Player", p.Player, r.Player),
	)

	pp.presets = k.presetRow(s.Presets, presets.Behaviors, s.ApplyBehaviorPreset)
	content.AddChild(pp.presets.Container)

	for _, kind := range steering.Kinds() {
		content.AddChild(pp.behaviorSection(k, kind))
	}

	pp.Container = k.scrollPanel(content, 380)
	return pp
}

func (pp *propertiesPanel) behaviorSection(k *uiKit, kind steering.Kind) *widget.Container {
	p := pp.form
	section := widget.NewContainer(vertical(2))
	section.AddChild(k.checkRow(kind.String(), p.Behaviors[kind], func(control int, on bool) error {
		return p.ToggleBehavior(kind, control, on)
	}))
	for _, prop := range steering.Properties(kind) {
		if steering.IsVector(kind, prop) {
			row := k.row(k.fixedLabel("  "+prop, 150))
			for _, f := range []string{steering.FieldX, steering.FieldY, steering.FieldZ} {
				key := editor.AttrKey{Kind: kind, Path: steering.At(prop).Sub(f)}
				row.AddChild(k.numberInput(kind.String()+"."+key.Path.String(), p.Numbers[key]))
			}
			section.AddChild(row)
			continue
		}
		key := editor.AttrKey{Kind: kind, Path: steering.At(prop)}
		if fl, ok := p.Flags[key]; ok {
			section.AddChild(k.row(k.fixedLabel("", 16), k.checkRow(prop, fl, nil)))
			continue
		}
		section.AddChild(k.row(k.fixedLabel("  "+prop, 150), k.numberInput(kind.String()+"."+prop, p.Numbers[key])))
	}
	return section
}

// sync updates the parts of the panel that are not bound to a field.
func (pp *propertiesPanel) sync() {
	switch {
	case pp.form.CanSetAll():
		_, model, _ := pp.session.SelectedInstance()
		pp.title.Label = "Instance of " + model
	case pp.session.HasSelection():
		it, _, _ := pp.session.SelectedItem()
		pp.title.Label = "Item " + it.Name
	default:
		pp.title.Label = "Nothing selected"
	}
	pp.nameError.Label = pp.form.NameError
	for _, b := range pp.setAll {
		b.GetWidget().Disabled = !pp.form.CanSetAll()
	}
}

// controlText shows a string field in a text box.
func controlText(in *widget.TextInput) form.ControlFunc[string] {
	return func(v string) { in.SetText(v) }
}
