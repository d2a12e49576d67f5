// Package editor provides the commands that edit the display text directly:
// appending button input, backspace, clear, undo, redo and the menu toggle.
//
// Append is the dispatcher's fallback: any label without a dedicated command
// (digits, operator glyphs, the decimal separator) is appended subject to
// a few input rules that keep the expression well formed.
package editor
