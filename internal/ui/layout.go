package ui

// Kind selects a button's colour.
type Kind int

const (
	KindDigit Kind = iota
	KindOperator
	KindFunction
	KindControl
)

// Button is one key of the keypad grid.
type Button struct {
	Label string
	Kind  Kind
	Row   int
	Col   int
	// Span is the number of columns the button covers; zero means one.
	Span int
}

// Rect is a screen rectangle in cells.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Placed is a button with its position on screen.
type Placed struct {
	Button
	Rect Rect
}

// Placement is the result of laying out the keypad for one screen size.
type Placement struct {
	Display Rect
	Buttons []Placed
}

// Hit returns the label of the button under (x, y).
func (p Placement) Hit(x, y int) (string, bool) {
	for _, b := range p.Buttons {
		if b.Rect.Contains(x, y) {
			return b.Label, true
		}
	}
	return "", false
}

const (
	basicColumns  = 4
	displayHeight = 3
	menuColumn    = basicColumns
)

// scientificLabels fill the menu column from the top.
var scientificLabels = []string{"√", "x²", "ln", "π", "e"}

// Layout describes the keypad grid.
type Layout struct {
	basic []Button
	menu  []Button
	rows  int
}

// NewLayout builds the keypad. sep is the decimal separator shown on the
// decimal key; extra labels, such as plugin buttons, are appended to the
// menu column.
func NewLayout(sep string, extra ...string) *Layout {
	if sep == "" {
		sep = ","
	}

	grid := [][]string{
		{"C", "CE", "▷", "≡"},
		{"(", ")", "↶", "↷"},
		{"7", "8", "9", "/"},
		{"4", "5", "6", "*"},
		{"1", "2", "3", "-"},
		{"0", "00", sep, "+"},
	}

	l := &Layout{}
	for row, labels := range grid {
		for col, label := range labels {
			l.basic = append(l.basic, Button{Label: label, Kind: kindOf(label, sep), Row: row, Col: col})
		}
	}
	l.basic = append(l.basic, Button{Label: "=", Kind: KindOperator, Row: len(grid), Col: 0, Span: basicColumns})

	menu := append(append([]string{}, scientificLabels...), extra...)
	for row, label := range menu {
		l.menu = append(l.menu, Button{Label: label, Kind: KindFunction, Row: row, Col: menuColumn})
	}

	l.rows = len(grid) + 1
	if len(menu) > l.rows {
		l.rows = len(menu)
	}
	return l
}

func kindOf(label, sep string) Kind {
	switch label {
	case "+", "-", "*", "/", "=":
		return KindOperator
	case "C", "CE", "▷", "≡", "↶", "↷":
		return KindControl
	case "(", ")":
		return KindFunction
	case sep:
		return KindDigit
	}
	if label[0] >= '0' && label[0] <= '9' {
		return KindDigit
	}
	return KindFunction
}

// Rows returns the number of grid rows.
func (l *Layout) Rows() int {
	return l.rows
}

// Columns returns the number of visible grid columns.
func (l *Layout) Columns(menuOpen bool) int {
	if menuOpen {
		return basicColumns + 1
	}
	return basicColumns
}

// Buttons returns the visible buttons.
func (l *Layout) Buttons(menuOpen bool) []Button {
	out := make([]Button, 0, len(l.basic)+len(l.menu))
	out = append(out, l.basic...)
	if menuOpen {
		out = append(out, l.menu...)
	}
	return out
}

// Place assigns screen rectangles for a w×h screen. The display takes the
// top rows; the grid divides the rest evenly, with any remainder going to
// the right and bottom edges.
func (l *Layout) Place(w, h int, menuOpen bool) Placement {
	p := Placement{Display: Rect{X: 0, Y: 0, W: w, H: min(displayHeight, h)}}

	cols := l.Columns(menuOpen)
	gridH := h - displayHeight
	cellW := w / cols
	cellH := gridH / l.rows
	if cellW < 1 || cellH < 1 {
		return p
	}

	for _, b := range l.Buttons(menuOpen) {
		span := max(b.Span, 1)
		r := Rect{
			X: b.Col * cellW,
			Y: displayHeight + b.Row*cellH,
			W: span * cellW,
			H: cellH,
		}
		if b.Col+span == cols {
			r.W = w - r.X
		}
		if b.Row == l.rows-1 {
			r.H = h - r.Y
		}
		p.Buttons = append(p.Buttons, Placed{Button: b, Rect: r})
	}
	return p
}
