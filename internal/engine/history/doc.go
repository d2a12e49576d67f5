// Package history provides the undo and redo stacks of the calculator display.
//
// The calculator keeps whole display snapshots rather than edit operations:
// every mutating command pushes the text it is about to replace, Undo pops
// from the history stack and Redo pops from the redo stack.
//
// # Stacks
//
// A Stack is a bounded LIFO of snapshots:
//
//	undo := history.NewStack(1000) // Max 1000 snapshots
//
//	undo.Push("12+")
//	text := undo.Pop() // "12+"
//	text = undo.Pop()  // "" (empty stack is not an error)
//
// When the limit is exceeded the oldest snapshots are discarded.
package history
