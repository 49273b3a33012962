package main

import (
	"image/color"
	"log/slog"
	"math"

	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/milk9111/worldeditor/form"
	"github.com/milk9111/worldeditor/presets"
)

const sliderSteps = 1000

// uiKit builds themed widgets.
type uiKit struct {
	theme *widget.Theme
	face  *text.Face
	log   *slog.Logger
}

// report logs a failed edit. Edits never stop the UI loop.
func (k *uiKit) report(what string, err error) {
	if err != nil {
		k.log.Warn(what, "err", err)
	}
}

func (k *uiKit) label(s string) *widget.Label {
	return widget.NewLabel(widget.LabelOpts.Text(s, k.face, labelColor))
}

func (k *uiKit) fixedLabel(s string, width int) *widget.Label {
	return widget.NewLabel(
		widget.LabelOpts.TextOpts(widget.TextOpts.WidgetOpts(widget.WidgetOpts.MinSize(width, 20))),
		widget.LabelOpts.Text(s, k.face, labelColor),
	)
}

func (k *uiKit) button(s string, onClick func()) *widget.Button {
	return widget.NewButton(
		widget.ButtonOpts.Image(k.theme.ButtonTheme.Image),
		widget.ButtonOpts.Text(s, k.face, k.theme.ButtonTheme.TextColor),
		widget.ButtonOpts.TextPadding(&widget.Insets{Left: 6, Right: 6, Top: 2, Bottom: 2}),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			onClick()
		}),
	)
}

func (k *uiKit) textInput(width int, onSubmit func(string)) *widget.TextInput {
	return widget.NewTextInput(
		widget.TextInputOpts.WidgetOpts(widget.WidgetOpts.MinSize(width, 22)),
		widget.TextInputOpts.Image(textInputImage()),
		widget.TextInputOpts.Color(textInputColor()),
		widget.TextInputOpts.Padding(widget.NewInsetsSimple(3)),
		widget.TextInputOpts.Face(k.face),
		widget.TextInputOpts.SubmitOnEnter(true),
		widget.TextInputOpts.SubmitHandler(func(args *widget.TextInputChangedEventArgs) {
			onSubmit(args.InputText)
		}),
	)
}

func (k *uiKit) row(children ...widget.PreferredSizeLocateableWidget) *widget.Container {
	c := widget.NewContainer(horizontal(6))
	c.AddChild(children...)
	return c
}

// sliderControl shows a field on a slider. The slider works in integer
// steps, so the exact value last shown is kept to report it back unchanged.
type sliderControl struct {
	slider *widget.Slider
	r      form.Range
	shown  float64
	pos    int
	has    bool
}

func (c *sliderControl) toPos(v float64) int {
	if c.r.Max <= c.r.Min {
		return 0
	}
	return int(math.Round((c.r.Clamp(v) - c.r.Min) / (c.r.Max - c.r.Min) * sliderSteps))
}

func (c *sliderControl) value(pos int) float64 {
	if c.has && pos == c.pos {
		return c.shown
	}
	return c.r.Min + float64(pos)/sliderSteps*(c.r.Max-c.r.Min)
}

func (c *sliderControl) Set(v float64) {
	c.shown, c.pos, c.has = v, c.toPos(v), true
	c.slider.Current = c.pos
}

// numberRow is a label, a slider and a text box linked to one field.
func (k *uiKit) numberRow(name string, fl *form.Field[float64], r form.Range) *widget.Container {
	sc := &sliderControl{r: r}
	sliderIdx := -1
	sc.slider = widget.NewSlider(
		widget.SliderOpts.Direction(widget.DirectionHorizontal),
		widget.SliderOpts.MinMax(0, sliderSteps),
		widget.SliderOpts.WidgetOpts(widget.WidgetOpts.MinSize(120, 14)),
		widget.SliderOpts.Images(k.theme.SliderTheme.TrackImage, k.theme.SliderTheme.HandleImage),
		widget.SliderOpts.FixedHandleSize(8),
		widget.SliderOpts.ChangedHandler(func(args *widget.SliderChangedEventArgs) {
			k.report("edit "+name, fl.Edited(sliderIdx, sc.value(args.Current)))
		}),
	)
	sliderIdx = fl.Attach(sc)

	input := k.numberInput(name, fl)
	return k.row(k.fixedLabel(name, 90), sc.slider, input)
}

// numberInput is a text box bound to a numeric field. It accepts arithmetic
// such as "90/2".
func (k *uiKit) numberInput(name string, fl *form.Field[float64]) *widget.TextInput {
	idx := -1
	var input *widget.TextInput
	input = k.textInput(64, func(s string) {
		v, err := form.ParseNumber(s)
		if err != nil {
			k.report("edit "+name, err)
			input.SetText(form.FormatNumber(fl.Value()))
			return
		}
		k.report("edit "+name, fl.Edited(idx, v))
	})
	idx = fl.AttachQuiet(form.ControlFunc[float64](func(v float64) {
		input.SetText(form.FormatNumber(v))
	}))
	return input
}

// checkRow is a check box bound to a boolean field. onToggle, when set,
// replaces the plain field edit.
func (k *uiKit) checkRow(name string, fl *form.Field[bool], onToggle func(control int, on bool) error) *widget.Checkbox {
	idx := -1
	cb := widget.NewCheckbox(
		widget.CheckboxOpts.Image(checkboxImage()),
		widget.CheckboxOpts.Text(name, k.face, labelColor),
		widget.CheckboxOpts.Spacing(6),
		widget.CheckboxOpts.StateChangedHandler(func(args *widget.CheckboxChangedEventArgs) {
			on := args.State == widget.WidgetChecked
			if onToggle != nil {
				k.report("toggle "+name, onToggle(idx, on))
				return
			}
			k.report("toggle "+name, fl.Edited(idx, on))
		}),
	)
	idx = fl.Attach(form.ControlFunc[bool](func(on bool) {
		state := widget.WidgetUnchecked
		if on {
			state = widget.WidgetChecked
		}
		cb.SetState(state)
	}))
	return cb
}

// scrollPanel wraps content in a scroll container with a vertical slider.
func (k *uiKit) scrollPanel(content *widget.Container, width int) *widget.Container {
	outer := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(widget.WidgetOpts.MinSize(width, 100)),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(panelColor)),
		widget.ContainerOpts.Layout(widget.NewGridLayout(
			widget.GridLayoutOpts.Columns(2),
			widget.GridLayoutOpts.Stretch([]bool{true, false}, []bool{true}),
			widget.GridLayoutOpts.Spacing(2, 0),
		)),
	)
	sc := widget.NewScrollContainer(
		widget.ScrollContainerOpts.Content(content),
		widget.ScrollContainerOpts.StretchContentWidth(),
		widget.ScrollContainerOpts.Image(&widget.ScrollContainerImage{
			Idle: solidNineSlice(panelColor),
			Mask: solidNineSlice(panelColor),
		}),
	)
	pageSize := func() int {
		h := content.GetWidget().Rect.Dy()
		if h == 0 {
			return sliderSteps
		}
		return int(math.Round(float64(sc.ViewRect().Dy()) / float64(h) * sliderSteps))
	}
	bar := widget.NewSlider(
		widget.SliderOpts.Direction(widget.DirectionVertical),
		widget.SliderOpts.MinMax(0, sliderSteps),
		widget.SliderOpts.PageSizeFunc(pageSize),
		widget.SliderOpts.Images(
			&widget.SliderTrackImage{Idle: solidNineSlice(color.RGBA{60, 60, 60, 255})},
			k.theme.SliderTheme.HandleImage,
		),
		widget.SliderOpts.ChangedHandler(func(args *widget.SliderChangedEventArgs) {
			sc.ScrollTop = float64(args.Current) / sliderSteps
		}),
	)
	sc.GetWidget().ScrolledEvent.AddHandler(func(args interface{}) {
		a, ok := args.(*widget.WidgetScrolledEventArgs)
		if !ok {
			return
		}
		step := pageSize() / 3
		if step < 1 {
			step = 1
		}
		bar.Current -= int(math.Round(a.Y * float64(step)))
	})
	outer.AddChild(sc, bar)
	return outer
}

// presetRow holds one button per preset in a category. fill rebuilds it
// after the category changes on disk.
type presetRow struct {
	*widget.Container

	k     *uiKit
	lib   *presets.Library
	cat   presets.Category
	apply func(name string) error
}

func (k *uiKit) presetRow(lib *presets.Library, cat presets.Category, apply func(name string) error) *presetRow {
	r := &presetRow{Container: widget.NewContainer(horizontal(6)), k: k, lib: lib, cat: cat, apply: apply}
	r.fill()
	return r
}

func (r *presetRow) fill() {
	r.RemoveChildren()
	r.AddChild(r.k.fixedLabel("Preset", 90))
	names, err := r.lib.List(r.cat)
	if err != nil {
		r.k.report("list "+string(r.cat)+" presets", err)
		return
	}
	for _, name := range names {
		r.AddChild(r.k.button(name, func() {
			r.k.report(string(r.cat)+" preset "+name, r.apply(name))
		}))
	}
}
