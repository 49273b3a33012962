package main

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	labelColor = &widget.LabelColor{Idle: color.White, Disabled: color.Gray{Y: 140}}
	errorColor = &widget.LabelColor{Idle: color.RGBA{255, 110, 110, 255}, Disabled: color.Gray{Y: 140}}
	panelColor = color.RGBA{40, 40, 40, 235}
)

// solidNineSlice returns a solid color *image.NineSlice for widget backgrounds.
func solidNineSlice(c color.Color) *image.NineSlice {
	return image.NewNineSliceColor(c)
}

func loadFontFace(size float64) (text.Face, error) {
	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	return &text.GoTextFace{Source: s, Size: size}, nil
}

func newEditorTheme(fontFace *text.Face) *widget.Theme {
	return &widget.Theme{
		ListTheme: &widget.ListParams{
			EntryFace: fontFace,
			EntryColor: &widget.ListEntryColor{
				Unselected:          color.Black,
				Selected:            color.RGBA{0, 0, 128, 255},
				DisabledUnselected:  color.Gray{Y: 128},
				DisabledSelected:    color.Gray{Y: 64},
				SelectingBackground: color.RGBA{200, 220, 255, 255},
				SelectedBackground:  color.RGBA{180, 200, 255, 255},
			},
			ScrollContainerImage: &widget.ScrollContainerImage{
				Idle: solidNineSlice(color.RGBA{220, 220, 220, 255}),
				Mask: solidNineSlice(color.RGBA{220, 220, 220, 255}),
			},
		},
		PanelTheme: &widget.PanelParams{
			BackgroundImage: solidNineSlice(panelColor),
		},
		ButtonTheme: &widget.ButtonParams{
			Image: &widget.ButtonImage{
				Idle:     solidNineSlice(color.RGBA{180, 180, 180, 255}),
				Hover:    solidNineSlice(color.RGBA{200, 200, 200, 255}),
				Pressed:  solidNineSlice(color.RGBA{160, 160, 160, 255}),
				Disabled: solidNineSlice(color.RGBA{110, 110, 110, 255}),
			},
			TextFace: fontFace,
			TextColor: &widget.ButtonTextColor{
				Idle:     color.Black,
				Disabled: color.Gray{Y: 60},
			},
		},
		SliderTheme: &widget.SliderParams{
			TrackImage: &widget.SliderTrackImage{
				Idle:  solidNineSlice(color.RGBA{180, 180, 180, 255}),
				Hover: solidNineSlice(color.RGBA{200, 200, 200, 255}),
			},
			HandleImage: &widget.ButtonImage{
				Idle:    solidNineSlice(color.RGBA{120, 120, 120, 255}),
				Hover:   solidNineSlice(color.RGBA{160, 160, 160, 255}),
				Pressed: solidNineSlice(color.RGBA{100, 100, 100, 255}),
			},
		},
	}
}

func textInputImage() *widget.TextInputImage {
	return &widget.TextInputImage{
		Idle:     solidNineSlice(color.RGBA{245, 245, 245, 255}),
		Disabled: solidNineSlice(color.RGBA{200, 200, 200, 255}),
	}
}

func textInputColor() *widget.TextInputColor {
	return &widget.TextInputColor{
		Idle:     color.Black,
		Disabled: color.Gray{Y: 120},
		Caret:    color.Black,
	}
}

func checkboxImage() *widget.CheckboxImage {
	return &widget.CheckboxImage{
		Unchecked:        solidNineSlice(color.RGBA{200, 200, 200, 255}),
		UncheckedHovered: solidNineSlice(color.RGBA{220, 220, 220, 255}),
		Checked:          solidNineSlice(color.RGBA{90, 160, 90, 255}),
		CheckedHovered:   solidNineSlice(color.RGBA{110, 180, 110, 255}),
	}
}

func vertical(spacing int) widget.ContainerOpt {
	return widget.ContainerOpts.Layout(widget.NewRowLayout(
		widget.RowLayoutOpts.Direction(widget.DirectionVertical),
		widget.RowLayoutOpts.Spacing(spacing),
		widget.RowLayoutOpts.Padding(widget.NewInsetsSimple(6)),
	))
}

func horizontal(spacing int) widget.ContainerOpt {
	return widget.ContainerOpts.Layout(widget.NewRowLayout(
		widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
		widget.RowLayoutOpts.Spacing(spacing),
	))
}
