package main

import (
	"errors"
	"image/color"

	"github.com/ebitenui/ebitenui/widget"

	"github.com/milk9111/worldeditor/editor"
	"github.com/milk9111/worldeditor/maps"
)

// mapsDialog saves, loads and deletes maps in the session's store.
type mapsDialog struct {
	Overlay *widget.Container

	session   *editor.Session
	list      *widget.List
	name      *widget.TextInput
	overwrite *widget.Checkbox
	message   *widget.Label
	onChanged func()
}

func newMapsDialog(k *uiKit, s *editor.Session, onChanged func()) *mapsDialog {
	d := &mapsDialog{session: s, onChanged: onChanged}

	d.Overlay = widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
				VerticalPosition:   widget.AnchorLayoutPositionCenter,
				StretchHorizontal:  true,
				StretchVertical:    true,
			}),
			widget.WidgetOpts.MinSize(1, 1),
		),
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(color.RGBA{0, 0, 0, 160})),
	)
	d.Overlay.GetWidget().Visibility = widget.Visibility_Hide

	dialog := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(360, 320),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
				VerticalPosition:   widget.AnchorLayoutPositionCenter,
			}),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(color.RGBA{60, 60, 60, 255})),
		vertical(8),
	)

	d.list = widget.NewList(
		widget.ListOpts.ContainerOpts(widget.ContainerOpts.WidgetOpts(widget.WidgetOpts.MinSize(340, 160))),
		widget.ListOpts.EntryFontFace(k.face),
		widget.ListOpts.SliderParams(k.theme.SliderTheme),
		widget.ListOpts.EntryLabelFunc(func(e any) string {
			name, _ := e.(string)
			return name
		}),
		widget.ListOpts.EntrySelectedHandler(func(args *widget.ListEntrySelectedEventArgs) {
			if name, ok := args.Entry.(string); ok {
				d.name.SetText(name)
			}
		}),
	)
	d.name = k.textInput(240, func(string) { d.save() })
	d.overwrite = widget.NewCheckbox(
		widget.CheckboxOpts.Image(checkboxImage()),
		widget.CheckboxOpts.Text("Overwrite", k.face, labelColor),
		widget.CheckboxOpts.Spacing(6),
	)
	d.message = widget.NewLabel(widget.LabelOpts.Text("", k.face, errorColor))

	dialog.AddChild(
		k.label("Maps"),
		d.list,
		k.row(k.fixedLabel("Name", 60), d.name),
		d.overwrite,
		d.message,
		k.row(
			k.button("Save", d.save),
			k.button("Load", d.load),
			k.button("Delete", d.remove),
			k.button("New", d.newMap),
			k.button("Close", d.hide),
		),
	)
	d.Overlay.AddChild(dialog)
	return d
}

func (d *mapsDialog) open() {
	d.refresh()
	d.name.SetText(d.session.MapName)
	d.message.Label = ""
	d.Overlay.GetWidget().Visibility = widget.Visibility_Show
	d.name.Focus(true)
}

func (d *mapsDialog) hide() {
	d.name.Focus(false)
	d.Overlay.GetWidget().Visibility = widget.Visibility_Hide
}

func (d *mapsDialog) isOpen() bool {
	return d.Overlay.GetWidget().Visibility == widget.Visibility_Show
}

func (d *mapsDialog) refresh() {
	names, err := d.session.Store.List()
	if err != nil {
		d.message.Label = err.Error()
		return
	}
	entries := make([]any, len(names))
	for i, n := range names {
		entries[i] = n
	}
	d.list.SetEntries(entries)
}

func (d *mapsDialog) save() {
	err := d.session.SaveMap(d.name.GetText(), d.overwrite.State() == widget.WidgetChecked)
	if d.fail(err) {
		return
	}
	d.refresh()
	d.hide()
}

func (d *mapsDialog) load() {
	if d.fail(d.session.LoadMap(d.name.GetText())) {
		return
	}
	d.onChanged()
	d.hide()
}

func (d *mapsDialog) remove() {
	if d.fail(d.session.Store.Delete(d.name.GetText())) {
		return
	}
	d.name.SetText("")
	d.refresh()
}

func (d *mapsDialog) newMap() {
	if d.fail(d.session.NewMap()) {
		return
	}
	d.onChanged()
	d.hide()
}

// fail shows err inline and reports whether there was one.
func (d *mapsDialog) fail(err error) bool {
	if err == nil {
		d.message.Label = ""
		return false
	}
	switch {
	case errors.Is(err, maps.ErrEmptyName):
		d.message.Label = "Enter a map name."
	case errors.Is(err, maps.ErrDuplicateName):
		d.message.Label = "A map with this name exists. Tick Overwrite to replace it."
	case errors.Is(err, maps.ErrBadName):
		d.message.Label = "Map name has invalid characters."
	case errors.Is(err, maps.ErrNotFound):
		d.message.Label = "No map with this name."
	default:
		d.message.Label = err.Error()
	}
	d.session.Logger().Warn("maps dialog", "err", err)
	return true
}
