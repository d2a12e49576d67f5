package editor

import (
	"errors"
	"testing"

	"github.com/dshills/keycalc/internal/dispatcher/execctx"
	"github.com/dshills/keycalc/internal/dispatcher/handler"
	"github.com/dshills/keycalc/internal/engine/display"
	"github.com/dshills/keycalc/internal/numfmt"
)

func newContext(text string) *execctx.ExecutionContext {
	return execctx.New().
		WithDisplay(display.New(display.WithText(text))).
		WithNumbers(numfmt.Default())
}

func TestAppended(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		label string
		want  string
		ok    bool
	}{
		{"digit on empty", "", "7", "7", true},
		{"digit replaces zero", "0", "7", "7", true},
		{"digit after minus zero", "-0", "7", "-07", true},
		{"zero on empty", "", "0", "0", true},
		{"zero on zero", "0", "0", "0", false},
		{"zero on minus zero", "-0", "0", "-0", false},
		{"zero after operand", "10", "0", "100", true},
		{"double zero on empty", "", "00", "", false},
		{"double zero on minus", "-", "00", "-", false},
		{"double zero after digit", "5", "00", "500", true},
		{"separator on empty", "", ",", "", false},
		{"separator after digit", "1", ",", "1,", true},
		{"second separator", "1,5", ",", "1,5", false},
		{"separator after operator", "1,5+", ",", "1,5+", false},
		{"separator in new operand", "1,5+2", ",", "1,5+2,", true},
		{"separator after exponent", "1E+21", ",", "1E+21", false},
		{"separator after exponent and decimals", "1,5E-7", ",", "1,5E-7", false},
		{"separator in operand after exponent", "1E+21*3", ",", "1E+21*3,", true},
		{"dot key uses locale separator", "3", ".", "3,", true},
		{"plus on empty", "", "+", "", false},
		{"plus after digit", "2", "+", "2+", true},
		{"plus after operator", "2*", "+", "2*", false},
		{"minus on empty", "", "-", "-", true},
		{"minus after multiply", "2*", "-", "2*-", true},
		{"minus after plus", "2+", "-", "2+-", true},
		{"minus after minus", "2-", "-", "2-", false},
		{"glyph operator after glyph", "2×", "÷", "2×", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Appended(tt.text, tt.label, ",")
			if ok != tt.ok {
				t.Errorf("expected ok=%v, got %v", tt.ok, ok)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestAppendCommandRecordsHistory(t *testing.T) {
	ctx := newContext("1")
	ctx.Label = "2"

	result := NewAppendCommand().Execute(ctx)
	if result.Status != handler.StatusOK {
		t.Errorf("expected StatusOK, got %v", result.Status)
	}
	if ctx.Text() != "12" {
		t.Errorf("expected '12', got %q", ctx.Text())
	}
	if ctx.Display.HistoryLen() != 1 {
		t.Errorf("expected one history entry, got %d", ctx.Display.HistoryLen())
	}
}

func TestAppendCommandRejectedLeavesHistory(t *testing.T) {
	ctx := newContext("0")
	ctx.Label = "0"

	result := NewAppendCommand().Execute(ctx)
	if result.Status != handler.StatusNoOp {
		t.Errorf("expected StatusNoOp, got %v", result.Status)
	}
	if ctx.Display.HistoryLen() != 0 {
		t.Errorf("expected no history entry, got %d", ctx.Display.HistoryLen())
	}
}

func TestBackspace(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"123", "12"},
		{"1,5", "1,"},
		{"2×", "2"},
		{"7", ""},
	}

	for _, tt := range tests {
		ctx := newContext(tt.text)
		NewBackspaceCommand().Execute(ctx)
		if ctx.Text() != tt.want {
			t.Errorf("backspace %q: expected %q, got %q", tt.text, tt.want, ctx.Text())
		}
		if ctx.Display.HistoryLen() != 1 {
			t.Errorf("backspace %q: expected history entry", tt.text)
		}
	}
}

func TestBackspaceEmpty(t *testing.T) {
	ctx := newContext("")

	result := NewBackspaceCommand().Execute(ctx)
	if result.Status != handler.StatusNoOp {
		t.Errorf("expected StatusNoOp, got %v", result.Status)
	}
	if ctx.Display.HistoryLen() != 0 {
		t.Error("expected no history entry for empty backspace")
	}
}

func TestTrimLastGrapheme(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"a", ""},
		{"ab", "a"},
		{"1−", "1"},
		{"é", ""},
	}

	for _, tt := range tests {
		if got := TrimLastGrapheme(tt.in); got != tt.want {
			t.Errorf("TrimLastGrapheme(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUndoRedo(t *testing.T) {
	ctx := newContext("")
	ctx.Display.Commit("1")
	ctx.Display.Commit("12")

	if result := (&UndoCommand{}).Execute(ctx); result.Status != handler.StatusOK {
		t.Errorf("expected StatusOK, got %v", result.Status)
	}
	if ctx.Text() != "1" {
		t.Errorf("expected '1', got %q", ctx.Text())
	}

	if result := (&RedoCommand{}).Execute(ctx); result.Status != handler.StatusOK {
		t.Errorf("expected StatusOK, got %v", result.Status)
	}
	if ctx.Text() != "12" {
		t.Errorf("expected '12', got %q", ctx.Text())
	}
}

func TestUndoEmptyIsNoOp(t *testing.T) {
	ctx := newContext("5")

	result := (&UndoCommand{}).Execute(ctx)
	if result.Status != handler.StatusNoOp {
		t.Errorf("expected StatusNoOp, got %v", result.Status)
	}
	if ctx.Text() != "5" {
		t.Errorf("expected text unchanged, got %q", ctx.Text())
	}
}

func TestRedoEmptyIsInvalid(t *testing.T) {
	ctx := newContext("5")

	result := (&RedoCommand{}).Execute(ctx)
	if !errors.Is(result.Error, handler.ErrInvalidOperation) {
		t.Errorf("expected ErrInvalidOperation, got %v", result.Error)
	}
	if !errors.Is(result.Error, ErrNothingToRedo) {
		t.Errorf("expected ErrNothingToRedo in chain, got %v", result.Error)
	}
}

func TestClear(t *testing.T) {
	ctx := newContext("")
	ctx.Display.Commit("1")
	ctx.Display.Commit("1+")
	ctx.Display.Undo()

	(&ClearCommand{}).Execute(ctx)

	if ctx.Text() != "" || ctx.Display.HistoryLen() != 0 || ctx.Display.RedoLen() != 0 {
		t.Errorf("expected empty display and stacks, got %q %d %d",
			ctx.Text(), ctx.Display.HistoryLen(), ctx.Display.RedoLen())
	}
}

func TestCommandsRequireDisplay(t *testing.T) {
	commands := []handler.Command{
		NewAppendCommand(),
		NewBackspaceCommand(),
		&ClearCommand{},
		&UndoCommand{},
		&RedoCommand{},
	}

	for _, c := range commands {
		result := c.Execute(execctx.New().WithLabel("1"))
		if !errors.Is(result.Error, execctx.ErrMissingDisplay) {
			t.Errorf("%s: expected ErrMissingDisplay, got %v", c.Name(), result.Error)
		}
	}
}

func TestCommandsGroup(t *testing.T) {
	g := Commands()

	for _, label := range []string{LabelClear, LabelUndo, LabelUndoAlt, LabelRedo, LabelBackspace, LabelBackAlt, LabelMenu} {
		if _, ok := g.Get(label); !ok {
			t.Errorf("expected command for %q", label)
		}
	}
	if _, ok := g.Get("7"); ok {
		t.Error("digits must fall through to append")
	}
}

func TestLastSegment(t *testing.T) {
	tests := map[string]string{
		"":       "",
		"12":     "12",
		"1+23":   "23",
		"1,5×2,": "2,",
		"4−":     "",
		"1E+21":  "1E+21",
		"2-1e-5": "1e-5",
		"1E+21+": "",
		"E+2":    "2",
	}

	for in, want := range tests {
		if got := LastSegment(in); got != want {
			t.Errorf("LastSegment(%q) = %q, want %q", in, got, want)
		}
	}
}
