package ui

import "github.com/gdamore/tcell/v2"

// KeyLabel maps a key press to a label for the dispatcher. Printable keys
// map to themselves and are translated to button labels by the
// dispatcher's alias table. quit is true for the keys that leave the
// keypad.
func KeyLabel(ev *tcell.EventKey) (label string, quit bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC, tcell.KeyCtrlQ:
		return "", true
	case tcell.KeyEnter:
		return "=", false
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return "⌫", false
	case tcell.KeyDelete:
		return "C", false
	case tcell.KeyCtrlZ:
		return "↶", false
	case tcell.KeyCtrlY:
		return "↷", false
	case tcell.KeyRune:
		if ev.Modifiers()&tcell.ModCtrl != 0 {
			return ctrlLabel(ev.Rune())
		}
		return string(ev.Rune()), false
	default:
		return "", false
	}
}

// ctrlLabel handles control chords reported as a rune plus ModCtrl.
func ctrlLabel(r rune) (string, bool) {
	switch r {
	case 'c', 'q':
		return "", true
	case 'z':
		return "↶", false
	case 'y':
		return "↷", false
	default:
		return "", false
	}
}
