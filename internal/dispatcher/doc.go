// Package dispatcher maps button labels to calculator commands.
//
// The dispatcher is the single entry point from a shell (terminal keypad,
// batch runner) into the calculator core. A shell hands it the label of the
// activated button; the dispatcher looks the label up and runs the bound
// command against the display.
//
// # Lookup
//
// Lookup is an exact map access on the label. Labels without a bound command
// fall through to the fallback command, which appends the label to the
// display. There is no other routing logic.
//
// # Execution
//
// When a label is dispatched:
//
//  1. A pending error reset is cancelled and the error marker cleared
//     (or, with BlockWhileError, the dispatch is cancelled instead)
//  2. Pre-dispatch hooks run (they may rewrite the label or cancel)
//  3. The command executes (with optional panic recovery)
//  4. An error result puts the display into the error state
//  5. Post-dispatch hooks run
//  6. Metrics are recorded (if enabled)
//
// Errors never escape the dispatcher as Go errors: the shell only sees the
// display text and the Result status.
//
// # Usage
//
//	d := dispatcher.NewWithDefaults()
//	d.SetDisplay(display.New())
//	d.SetNumbers(numfmt.Default())
//	d.SetFallback(editor.NewAppendCommand())
//	editor.Commands().RegisterAll(d)
//	scientific.Commands().RegisterAll(d)
//
//	d.Dispatch("2")
//	d.Dispatch("+")
//	d.Dispatch("2")
//	result := d.Dispatch("=") // result.Text == "4"
package dispatcher
