package editor

import "github.com/dshills/keycalc/internal/dispatcher/handler"

// Commands returns the editing commands bound to their labels.
// Append is not included; it is installed as the dispatcher fallback.
func Commands() *handler.Group {
	g := handler.NewGroup("editor")
	g.Add(&ClearCommand{}, LabelClear)
	g.Add(&UndoCommand{}, LabelUndo, LabelUndoAlt)
	g.Add(&RedoCommand{}, LabelRedo)
	g.Add(NewBackspaceCommand(), LabelBackspace, LabelBackAlt)
	g.Add(&MenuCommand{}, LabelMenu)
	return g
}
