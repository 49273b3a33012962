package main

import (
	"image"
	"image/color"
	"sync"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"

	"github.com/milk9111/worldeditor/form"
	"github.com/milk9111/worldeditor/terrain"
)

// paintWindow is the terrain paint tool's floating window. The paint tool
// closes it from another goroutine, so close requests are queued and carried
// out by poll on the UI loop.
type paintWindow struct {
	ui     *ebitenui.UI
	win    *widget.Window
	remove widget.RemoveWindowFunc
	form   *form.Form

	mu      sync.Mutex
	pending func()
	force   bool
}

func newPaintWindow(k *uiKit, ui *ebitenui.UI, tool *terrain.PaintTool, layers int, onClose func()) *paintWindow {
	pw := &paintWindow{ui: ui, form: form.New(nil)}

	content := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(solidNineSlice(panelColor)),
		vertical(4),
	)

	content.AddChild(k.toggleGroup([]string{"Fill", "Unfill"}, int(tool.Mode), func(i int) {
		tool.Mode = terrain.Mode(i)
	}))
	content.AddChild(k.toggleGroup([]string{"Alpha", "Path"}, int(tool.SubMode), func(i int) {
		tool.SubMode = terrain.SubMode(i)
	}))

	radius := form.BindRange(pw.form, form.Range{Min: 0.5, Max: 64},
		func() (float64, bool) { return float64(tool.Brush.Radius), true },
		func(v float64) error { tool.Brush.Radius = float32(v); return nil })
	strength := form.BindRange(pw.form, form.Range{Min: 0, Max: 1},
		func() (float64, bool) { return float64(tool.Brush.Strength), true },
		func(v float64) error { tool.Brush.Strength = float32(v); return nil })
	layerRange := form.Range{Min: 0, Max: float64(layers - 1)}
	layer := form.BindRange(pw.form, layerRange,
		func() (float64, bool) { return float64(tool.Layer), true },
		func(v float64) error { tool.Layer = int(v); return nil })
	falloff := form.Bind(pw.form,
		func() (bool, bool) { return tool.Brush.Falloff, true },
		func(on bool) error { tool.Brush.Falloff = on; return nil })

	content.AddChild(
		k.numberRow("Radius", radius, form.Range{Min: 0.5, Max: 64}),
		k.numberRow("Strength", strength, form.Range{Min: 0, Max: 1}),
		k.numberRow("Layer", layer.Normalize(func(v float64) float64 {
			return float64(int(layerRange.Clamp(v) + 0.5))
		}), layerRange),
		k.checkRow("Falloff", falloff, nil),
		k.button("Close", onClose),
	)

	title := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(solidNineSlice(color.RGBA{70, 70, 90, 255})),
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	title.AddChild(k.label("Paint terrain"))

	pw.win = widget.NewWindow(
		widget.WindowOpts.Contents(content),
		widget.WindowOpts.TitleBar(title, 24),
		widget.WindowOpts.Draggable(),
		widget.WindowOpts.MinSize(380, 200),
		widget.WindowOpts.Location(image.Rect(420, 60, 800, 300)),
	)
	return pw
}

// toggleGroup is a row of toggle buttons of which exactly one is pressed.
func (k *uiKit) toggleGroup(names []string, initial int, onSelect func(int)) *widget.Container {
	row := widget.NewContainer(horizontal(6))
	var buttons []*widget.Button
	for _, name := range names {
		btn := widget.NewButton(
			widget.ButtonOpts.Image(k.theme.ButtonTheme.Image),
			widget.ButtonOpts.Text(name, k.face, &widget.ButtonTextColor{
				Idle:    color.Black,
				Hover:   color.Black,
				Pressed: color.RGBA{0, 0, 200, 255},
			}),
			widget.ButtonOpts.ToggleMode(),
			widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(64, 24)),
		)
		buttons = append(buttons, btn)
		row.AddChild(btn)
	}
	elements := make([]widget.RadioGroupElement, 0, len(buttons))
	for _, b := range buttons {
		elements = append(elements, b)
	}
	group := widget.NewRadioGroup(
		widget.RadioGroupOpts.Elements(elements...),
		widget.RadioGroupOpts.ChangedHandler(func(args *widget.RadioGroupChangedEventArgs) {
			for i, b := range buttons {
				if args.Active == b {
					onSelect(i)
					return
				}
			}
		}),
	)
	if initial >= 0 && initial < len(buttons) {
		group.SetActive(buttons[initial])
	}
	return row
}

func (pw *paintWindow) show() {
	if pw.remove != nil {
		return
	}
	pw.remove = pw.ui.AddWindow(pw.win)
	pw.form.Refresh()
}

func (pw *paintWindow) isOpen() bool {
	return pw.remove != nil
}

// contains reports whether a screen point lies on the open window.
func (pw *paintWindow) contains(x, y int) bool {
	if !pw.isOpen() {
		return false
	}
	return image.Pt(x, y).In(pw.win.GetContainer().GetWidget().Rect)
}

// RequestClose asks the UI loop to close the window and run closed after.
func (pw *paintWindow) RequestClose(closed func()) {
	pw.mu.Lock()
	pw.pending = closed
	pw.mu.Unlock()
}

// ForceClose tears the window down without confirming.
func (pw *paintWindow) ForceClose() {
	pw.mu.Lock()
	pw.force = true
	pw.pending = nil
	pw.mu.Unlock()
}

// poll carries out queued close requests. It runs on the UI loop.
func (pw *paintWindow) poll() {
	pw.mu.Lock()
	closed, force := pw.pending, pw.force
	pw.pending, pw.force = nil, false
	pw.mu.Unlock()

	if closed == nil && !force {
		return
	}
	if pw.remove != nil {
		pw.remove()
		pw.remove = nil
	}
	if closed != nil {
		closed()
	}
}

var _ terrain.Window = (*paintWindow)(nil)
