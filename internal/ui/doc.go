// Package ui draws the calculator keypad in a terminal with tcell.
//
// The screen is a display row above a grid of buttons: four basic columns,
// and a fifth column of scientific functions and plugin buttons that the
// "≡" button shows or hides. Mouse clicks and key presses are turned into
// button labels and handed to a Dispatcher; the keypad itself holds no
// calculator state beyond whether the menu column is open.
//
// Redraws happen on the event loop goroutine. Code running elsewhere, such
// as the error display timer, calls Refresh to post a redraw.
package ui
