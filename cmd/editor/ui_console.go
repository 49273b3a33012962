package main

import (
	"context"
	"image/color"
	"strings"

	"github.com/ebitenui/ebitenui/widget"

	"github.com/milk9111/worldeditor/console"
)

const consoleLines = 200

// consolePanel is the bottom strip: a script line and its output.
type consolePanel struct {
	Container *widget.Container

	console *console.Console
	output  *widget.TextArea
	input   *widget.TextInput
	ran     func()
}

// newConsolePanel builds the console. ran is called after every script so
// the forms can reload what the script changed.
func newConsolePanel(k *uiKit, c *console.Console, ran func()) *consolePanel {
	cp := &consolePanel{console: c, ran: ran}
	cp.Container = widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(widget.WidgetOpts.MinSize(600, 150)),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(panelColor)),
		widget.ContainerOpts.Layout(widget.NewGridLayout(
			widget.GridLayoutOpts.Columns(1),
			widget.GridLayoutOpts.Stretch([]bool{true}, []bool{true, false}),
			widget.GridLayoutOpts.Spacing(0, 4),
			widget.GridLayoutOpts.Padding(widget.NewInsetsSimple(4)),
		)),
	)
	cp.output = widget.NewTextArea(
		widget.TextAreaOpts.ContainerOpts(widget.ContainerOpts.WidgetOpts(widget.WidgetOpts.MinSize(600, 110))),
		widget.TextAreaOpts.FontFace(k.face),
		widget.TextAreaOpts.FontColor(color.White),
		widget.TextAreaOpts.ShowVerticalScrollbar(),
		widget.TextAreaOpts.VerticalScrollMode(widget.PositionAtEnd),
		widget.TextAreaOpts.ScrollContainerImage(&widget.ScrollContainerImage{
			Idle: solidNineSlice(color.RGBA{25, 25, 25, 255}),
			Mask: solidNineSlice(color.RGBA{25, 25, 25, 255}),
		}),
		widget.TextAreaOpts.SliderParams(k.theme.SliderTheme),
		widget.TextAreaOpts.TextPadding(widget.Insets{Left: 4, Right: 4}),
	)
	cp.input = k.textInput(600, cp.submit)
	cp.Container.AddChild(cp.output, cp.input)
	return cp
}

// submit runs a line of script, or a named script as "run <name>".
func (cp *consolePanel) submit(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	cp.console.ClearOutput()
	var err error
	if name, ok := strings.CutPrefix(line, "run "); ok {
		err = cp.console.RunScript(context.Background(), strings.TrimSpace(name))
	} else {
		err = cp.console.Run(context.Background(), line)
	}

	lines := append([]string{"> " + line}, cp.console.Output()...)
	if err != nil {
		lines = append(lines, "error: "+err.Error())
	}
	cp.append(lines)
	cp.input.SetText("")
	cp.ran()
}

func (cp *consolePanel) append(lines []string) {
	all := strings.Split(cp.output.GetText(), "\n")
	all = append(all, lines...)
	if len(all) > consoleLines {
		all = all[len(all)-consoleLines:]
	}
	cp.output.SetText(strings.TrimLeft(strings.Join(all, "\n"), "\n"))
}
