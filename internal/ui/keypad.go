package ui

import (
	"context"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/keycalc/internal/dispatcher/handler"
)

// Dispatcher runs the command bound to a label.
type Dispatcher interface {
	Dispatch(label string) handler.Result
}

// Source is the display being shown.
type Source interface {
	Text() string
	Erroring() bool
}

// quitSignal is posted as interrupt data to stop Run.
type quitSignal struct{}

// Keypad is the terminal calculator view.
type Keypad struct {
	screen     tcell.Screen
	dispatcher Dispatcher
	source     Source

	mu     sync.Mutex
	theme  Theme
	layout *Layout

	// Owned by the event loop.
	menuOpen  bool
	pressed   string
	mouseDown bool
	placement Placement

	logf func(format string, args ...any)
}

// Option configures a Keypad.
type Option func(*Keypad)

// WithTheme sets the colours.
func WithTheme(t Theme) Option {
	return func(k *Keypad) {
		k.theme = t
	}
}

// WithLayout sets the button grid.
func WithLayout(l *Layout) Option {
	return func(k *Keypad) {
		k.layout = l
	}
}

// WithLogger sets a debug log function.
func WithLogger(logf func(format string, args ...any)) Option {
	return func(k *Keypad) {
		k.logf = logf
	}
}

// New creates a keypad drawing to screen. The screen is initialised by Run.
func New(screen tcell.Screen, d Dispatcher, src Source, opts ...Option) *Keypad {
	k := &Keypad{
		screen:     screen,
		dispatcher: d,
		source:     src,
		theme:      DefaultTheme(),
		layout:     NewLayout(","),
		logf:       func(string, ...any) {},
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Run initialises the screen and processes events until a quit key is
// pressed or ctx is cancelled.
func (k *Keypad) Run(ctx context.Context) error {
	if err := k.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer k.screen.Fini()

	k.screen.EnableMouse()
	k.screen.HideCursor()
	k.Draw()

	stop := context.AfterFunc(ctx, func() {
		_ = k.screen.PostEvent(tcell.NewEventInterrupt(quitSignal{}))
	})
	defer stop()

	for {
		ev := k.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if k.HandleEvent(ev) {
			return nil
		}
	}
}

// Refresh asks the event loop to redraw. Safe to call from any goroutine.
func (k *Keypad) Refresh() {
	// A full queue already holds a pending redraw or input.
	_ = k.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// SetTheme replaces the colours and redraws.
func (k *Keypad) SetTheme(t Theme) {
	k.mu.Lock()
	k.theme = t
	k.mu.Unlock()
	k.Refresh()
}

// SetLayout replaces the button grid and redraws.
func (k *Keypad) SetLayout(l *Layout) {
	k.mu.Lock()
	k.layout = l
	k.mu.Unlock()
	k.Refresh()
}

// MenuOpen reports whether the scientific column is shown.
func (k *Keypad) MenuOpen() bool {
	return k.menuOpen
}

// HandleEvent processes one event and reports whether the keypad should quit.
func (k *Keypad) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		k.screen.Sync()
		k.Draw()

	case *tcell.EventKey:
		label, quit := KeyLabel(ev)
		if quit {
			return true
		}
		if label != "" {
			k.Press(label)
		}

	case *tcell.EventMouse:
		down := ev.Buttons()&tcell.Button1 != 0
		if down && !k.mouseDown {
			x, y := ev.Position()
			if label, ok := k.placement.Hit(x, y); ok {
				k.Press(label)
			}
		}
		k.mouseDown = down

	case *tcell.EventInterrupt:
		if _, ok := ev.Data().(quitSignal); ok {
			return true
		}
		k.Draw()
	}
	return false
}

// Press dispatches label and redraws.
func (k *Keypad) Press(label string) handler.Result {
	result := k.dispatcher.Dispatch(label)
	if result.ViewUpdate.ToggleMenu {
		k.menuOpen = !k.menuOpen
	}
	if result.IsError() {
		k.logf("press %q: %v", label, result.Error)
	}
	k.pressed = label
	k.Draw()
	return result
}

// Draw renders the whole keypad.
func (k *Keypad) Draw() {
	k.mu.Lock()
	theme := k.theme
	layout := k.layout
	k.mu.Unlock()

	w, h := k.screen.Size()
	k.placement = layout.Place(w, h, k.menuOpen)

	k.screen.Fill(' ', theme.BackgroundStyle())
	k.drawDisplay(theme)
	for _, b := range k.placement.Buttons {
		style := theme.ButtonStyle(b.Kind, b.Label == k.pressed)
		fillRect(k.screen, b.Rect, style)
		drawCentered(k.screen, b.Rect, b.Label, style)
	}
	k.screen.Show()
}

// drawDisplay renders the display text right-aligned, keeping the end of
// text that does not fit.
func (k *Keypad) drawDisplay(theme Theme) {
	r := k.placement.Display
	if r.H == 0 {
		return
	}
	style := theme.DisplayStyle(k.source.Erroring())
	fillRect(k.screen, r, style)

	avail := r.W - 2
	if avail < 1 {
		return
	}
	text := k.source.Text()
	if runewidth.StringWidth(text) > avail {
		text = runewidth.TruncateLeft(text, runewidth.StringWidth(text)-avail+1, "…")
	}
	x := r.X + r.W - 1 - runewidth.StringWidth(text)
	drawString(k.screen, x, r.Y+r.H/2, text, style)
}

func fillRect(s tcell.Screen, r Rect, style tcell.Style) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			s.SetContent(x, y, ' ', nil, style)
		}
	}
}

func drawCentered(s tcell.Screen, r Rect, text string, style tcell.Style) {
	x := r.X + (r.W-runewidth.StringWidth(text))/2
	drawString(s, max(x, r.X), r.Y+r.H/2, text, style)
}

func drawString(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, ch := range text {
		s.SetContent(x, y, ch, nil, style)
		x += runewidth.RuneWidth(ch)
	}
}
