package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ebitenui/ebitenui/widget"

	"github.com/milk9111/worldeditor/editor"
	"github.com/milk9111/worldeditor/form"
	"github.com/milk9111/worldeditor/material"
	"github.com/milk9111/worldeditor/presets"
	"github.com/milk9111/worldeditor/water"
)

var channelNames = [4]string{"R", "G", "B", "A"}

// toolsPanel is the right panel: water and the selected model's material.
type toolsPanel struct {
	Container *widget.Container

	water    *editor.WaterForm
	material *editor.MaterialForm
	part     *widget.Label
	presets  *presetRow
}

func buildToolsPanel(k *uiKit, s *editor.Session, wf *editor.WaterForm, mf *editor.MaterialForm) *toolsPanel {
	tp := &toolsPanel{water: wf, material: mf}
	content := widget.NewContainer(vertical(4))

	content.AddChild(k.label("Water"))
	for _, p := range water.AllParams() {
		content.AddChild(k.numberRow(p.String(), wf.Params[p], p.Range()))
	}
	unit := form.Range{Min: 0, Max: 1}
	for _, c := range []water.Color{water.ColorSun, water.ColorWater} {
		for ch := 0; ch < 4; ch++ {
			name := fmt.Sprintf("%s %s", c, channelNames[ch])
			content.AddChild(k.numberRow(name, wf.Colors[editor.ColorKey{Color: c, Channel: ch}], unit))
		}
	}
	tp.presets = k.presetRow(s.Presets, presets.Water, wf.ApplyPreset)
	content.AddChild(tp.presets.Container)

	content.AddChild(k.label("Material"))
	tp.part = k.label("")
	partInput := k.textInput(64, func(v string) {
		part, err := parsePart(v)
		if err == nil {
			err = mf.SelectPart(part)
		}
		k.report("select part", err)
	})
	content.AddChild(k.row(k.fixedLabel("Part", 90), partInput, tp.part))
	for _, kind := range material.Kinds() {
		if !kind.IsColor() {
			content.AddChild(k.numberInputRow(kind.String(), mf.Floats[kind]))
			continue
		}
		for ch := 0; ch < 4; ch++ {
			name := fmt.Sprintf("%s %s", kind, channelNames[ch])
			content.AddChild(k.numberRow(name, mf.Colors[editor.MaterialColorKey{Kind: kind, Channel: ch}], unit))
		}
	}

	tp.Container = k.scrollPanel(content, 380)
	return tp
}

func (k *uiKit) numberInputRow(name string, fl *form.Field[float64]) *widget.Container {
	return k.row(k.fixedLabel(name, 120), k.numberInput(name, fl))
}

// parsePart reads a part index; "all" or an empty string selects every part.
func parsePart(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return material.AllParts, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: part %q", material.ErrBadPart, s)
	}
	return n, nil
}

func (tp *toolsPanel) sync() {
	if tp.material.Part == material.AllParts {
		tp.part.Label = "all parts"
		return
	}
	tp.part.Label = "part " + strconv.Itoa(tp.material.Part)
}
