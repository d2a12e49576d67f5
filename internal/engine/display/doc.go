// Package display implements the calculator's display buffer.
//
// A Display owns the text shown to the user together with its undo and redo
// stacks. Commands read the text, then either replace it through Commit
// (which records history) or report a failure through Fail, which shows the
// error marker for a fixed duration before resetting to an empty expression.
//
// The error reset runs on a timer goroutine, so Display is safe for
// concurrent use. Every new command should call Acknowledge first: it cancels
// a pending reset, which removes the race between the timer and new input.
package display
