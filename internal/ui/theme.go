package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/keycalc/internal/config"
)

// pressedBlend is how far a pressed button moves toward the text colour.
const pressedBlend = 0.35

// Theme holds the keypad colours.
type Theme struct {
	Background colorful.Color
	Display    colorful.Color
	Digit      colorful.Color
	Operator   colorful.Color
	Function   colorful.Color
	Text       colorful.Color
	Error      colorful.Color
}

// ParseTheme converts hex colour settings into a Theme.
func ParseTheme(s config.ThemeSettings) (Theme, error) {
	var t Theme
	fields := []struct {
		name string
		hex  string
		dst  *colorful.Color
	}{
		{"background", s.Background, &t.Background},
		{"display", s.Display, &t.Display},
		{"digit", s.Digit, &t.Digit},
		{"operator", s.Operator, &t.Operator},
		{"function", s.Function, &t.Function},
		{"text", s.Text, &t.Text},
		{"error", s.Error, &t.Error},
	}
	for _, f := range fields {
		c, err := colorful.Hex(f.hex)
		if err != nil {
			return Theme{}, fmt.Errorf("theme.%s: %w", f.name, err)
		}
		*f.dst = c
	}
	return t, nil
}

// DefaultTheme returns the built-in dark theme.
func DefaultTheme() Theme {
	t, err := ParseTheme(config.ThemeSettings{
		Background: "#1e1e2e",
		Display:    "#313244",
		Digit:      "#45475a",
		Operator:   "#fab387",
		Function:   "#89b4fa",
		Text:       "#cdd6f4",
		Error:      "#f38ba8",
	})
	if err != nil {
		panic(err)
	}
	return t
}

// fill returns the button face colour for kind.
func (t Theme) fill(kind Kind) colorful.Color {
	switch kind {
	case KindDigit:
		return t.Digit
	case KindOperator:
		return t.Operator
	default:
		return t.Function
	}
}

// ButtonStyle returns the style of a button of kind. A pressed button is
// blended toward the text colour.
func (t Theme) ButtonStyle(kind Kind, pressed bool) tcell.Style {
	bg := t.fill(kind)
	if pressed {
		bg = bg.BlendLab(t.Text, pressedBlend).Clamped()
	}

	fg := t.Text
	if kind != KindDigit {
		// Light faces take dark text.
		fg = t.Background
	}
	return tcell.StyleDefault.Background(toTcell(bg)).Foreground(toTcell(fg))
}

// DisplayStyle returns the style of the display row.
func (t Theme) DisplayStyle(erroring bool) tcell.Style {
	fg := t.Text
	if erroring {
		fg = t.Error
	}
	return tcell.StyleDefault.Background(toTcell(t.Display)).Foreground(toTcell(fg)).Bold(true)
}

// BackgroundStyle returns the style of empty screen cells.
func (t Theme) BackgroundStyle() tcell.Style {
	return tcell.StyleDefault.Background(toTcell(t.Background)).Foreground(toTcell(t.Text))
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
