package lua

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	glua "github.com/yuin/gopher-lua"
)

func TestNewState(t *testing.T) {
	s := NewState()
	defer s.Close()

	if s.L == nil {
		t.Fatal("L should not be nil")
	}
	if s.IsClosed() {
		t.Error("new state should not be closed")
	}
}

func TestStateDoString(t *testing.T) {
	s := NewState()
	defer s.Close()

	if err := s.DoString("x = 1 + 2"); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	if v := s.GetGlobal("x"); v != glua.LNumber(3) {
		t.Errorf("x = %v, want 3", v)
	}
}

func TestStateDoStringSyntaxError(t *testing.T) {
	s := NewState()
	defer s.Close()

	if err := s.DoString("x = "); err == nil {
		t.Error("expected syntax error")
	}
}

func TestStateCall(t *testing.T) {
	s := NewState()
	defer s.Close()

	if err := s.DoString("function pair(a) return a * 2, 'ok' end"); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	fn, ok := s.GetGlobal("pair").(*glua.LFunction)
	if !ok {
		t.Fatal("pair is not a function")
	}

	results, err := s.Call(fn, glua.LNumber(21))
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0] != glua.LNumber(42) || results[1] != glua.LString("ok") {
		t.Errorf("results = %v", results)
	}

	// The stack is balanced between calls.
	if top := s.L.GetTop(); top != 0 {
		t.Errorf("stack top = %d after call", top)
	}
}

func TestStateCallNoResults(t *testing.T) {
	s := NewState()
	defer s.Close()

	if err := s.DoString("function noop() end"); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	results, err := s.Call(s.GetGlobal("noop").(*glua.LFunction))
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("results = %#v, want empty slice", results)
	}
}

func TestStateCallRuntimeError(t *testing.T) {
	s := NewState()
	defer s.Close()

	if err := s.DoString("function boom() error('bad input') end"); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	_, err := s.Call(s.GetGlobal("boom").(*glua.LFunction))
	if err == nil || !strings.Contains(err.Error(), "bad input") {
		t.Errorf("err = %v, want runtime error", err)
	}
}

func TestStateTimeout(t *testing.T) {
	s := NewState(WithExecutionTimeout(50 * time.Millisecond))
	defer s.Close()

	start := time.Now()
	err := s.DoString("while true do end")
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Fatalf("err = %v, want ErrExecutionTimeout", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("timeout took %v", elapsed)
	}

	// The state stays usable after a timeout.
	if err := s.DoString("y = 2"); err != nil {
		t.Errorf("DoString after timeout: %v", err)
	}
}

func TestStateClosed(t *testing.T) {
	s := NewState()
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	if err := s.DoString("x = 1"); !errors.Is(err, ErrStateClosed) {
		t.Errorf("DoString err = %v, want ErrStateClosed", err)
	}
	if v := s.GetGlobal("x"); v != glua.LNil {
		t.Errorf("GetGlobal on closed state = %v", v)
	}
}

func TestSandboxRemovesLoaders(t *testing.T) {
	s := NewState()
	defer s.Close()

	for _, name := range removedGlobals {
		if v := s.GetGlobal(name); v != glua.LNil {
			t.Errorf("%s should be nil, got %v", name, v.Type())
		}
	}
	for _, lib := range []string{"io", "os", "debug", "package"} {
		if v := s.GetGlobal(lib); v != glua.LNil {
			t.Errorf("library %s should not be open", lib)
		}
	}
	for _, lib := range []string{"string", "math", "table"} {
		if v := s.GetGlobal(lib); v == glua.LNil {
			t.Errorf("library %s should be open", lib)
		}
	}
}

func TestSandboxPrint(t *testing.T) {
	var lines []string
	s := NewState(WithPrint(func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}))
	defer s.Close()

	if err := s.DoString(`print("a", 1, true)`); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	if len(lines) != 1 || lines[0] != "lua: a\t1\ttrue" {
		t.Errorf("lines = %q", lines)
	}
}

func TestSandboxPrintWithoutLogger(t *testing.T) {
	s := NewState()
	defer s.Close()

	if err := s.DoString(`print("ignored")`); err != nil {
		t.Errorf("print without logger: %v", err)
	}
}

func TestScriptError(t *testing.T) {
	err := &ScriptError{Label: "½", Err: ErrExecutionTimeout}
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Error("ScriptError should unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "½") {
		t.Errorf("Error() = %q", err.Error())
	}

	msg := &ScriptError{Label: "f", Message: "not a number"}
	if msg.Error() != `lua "f": not a number` {
		t.Errorf("Error() = %q", msg.Error())
	}
}
