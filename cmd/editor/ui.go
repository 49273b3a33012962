package main

import (
	"log/slog"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"

	"github.com/milk9111/worldeditor/console"
	"github.com/milk9111/worldeditor/editor"
)

// editorUI is every widget around the map view.
type editorUI struct {
	ui *ebitenui.UI

	props   *propertiesPanel
	tools   *toolsPanel
	console *consolePanel
	maps    *mapsDialog
	paint   *paintWindow
	status  *widget.Label

	propsForm    *editor.PropertiesForm
	waterForm    *editor.WaterForm
	materialForm *editor.MaterialForm
}

// toolbarActions are the toolbar buttons' handlers, owned by the game.
type toolbarActions struct {
	openMaps   func()
	openPaint  func()
	simulate   func()
	copy       func()
	paste      func()
	closePaint func()
}

func newEditorUI(s *editor.Session, log *slog.Logger, actions toolbarActions) (*editorUI, error) {
	face, err := loadFontFace(14)
	if err != nil {
		return nil, err
	}
	k := &uiKit{theme: newEditorTheme(&face), face: &face, log: log}

	e := &editorUI{
		propsForm:    editor.NewPropertiesForm(s),
		waterForm:    editor.NewWaterForm(s),
		materialForm: editor.NewMaterialForm(s),
	}

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	e.ui = &ebitenui.UI{Container: root}

	e.props = buildPropertiesPanel(k, s, e.propsForm)
	anchor(e.props.Container, widget.AnchorLayoutPositionStart, widget.AnchorLayoutPositionStart, true)
	e.props.Container.GetWidget().MinHeight = 400

	e.tools = buildToolsPanel(k, s, e.waterForm, e.materialForm)
	anchor(e.tools.Container, widget.AnchorLayoutPositionEnd, widget.AnchorLayoutPositionStart, true)

	con := console.New(s.Binder, s, s.Presets, log)
	e.console = newConsolePanel(k, con, e.reload)
	anchor(e.console.Container, widget.AnchorLayoutPositionCenter, widget.AnchorLayoutPositionEnd, false)

	e.status = k.label("")
	toolbar := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(solidNineSlice(panelColor)),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(6),
			widget.RowLayoutOpts.Padding(widget.NewInsetsSimple(4)),
		)),
	)
	toolbar.AddChild(
		k.button("Maps", actions.openMaps),
		k.button("Paint", actions.openPaint),
		k.button("Simulate", actions.simulate),
		k.button("Copy", actions.copy),
		k.button("Paste", actions.paste),
		e.status,
	)
	anchor(toolbar, widget.AnchorLayoutPositionCenter, widget.AnchorLayoutPositionStart, false)

	e.maps = newMapsDialog(k, s, e.reload)
	e.paint = newPaintWindow(k, e.ui, s.Paint, s.World.Terrain.Alpha.Layers, actions.closePaint)

	root.AddChild(e.props.Container, e.tools.Container, e.console.Container, toolbar, e.maps.Overlay)
	e.reload()
	return e, nil
}

func anchor(c *widget.Container, h, v widget.AnchorLayoutPosition, stretchV bool) {
	c.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: h,
		VerticalPosition:   v,
		StretchVertical:    stretchV,
	}
}

// reload shows the session's state in every form, as after a map load or a
// script run.
func (e *editorUI) reload() {
	e.propsForm.Refresh()
	e.waterForm.Form.Refresh()
	e.materialForm.Form.Refresh()
	e.sync()
}

// typing reports whether keyboard input belongs to a text box.
func (e *editorUI) typing() bool {
	_, ok := e.ui.GetFocusedWidget().(*widget.TextInput)
	return ok
}

func (e *editorUI) sync() {
	e.props.sync()
	e.tools.sync()
}
