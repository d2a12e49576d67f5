package handler_test

import (
	"testing"

	"github.com/dshills/keycalc/internal/dispatcher/execctx"
	"github.com/dshills/keycalc/internal/dispatcher/handler"
)

func TestFunc(t *testing.T) {
	called := false
	fn := handler.NewFunc("test", func(ctx *execctx.ExecutionContext) handler.Result {
		called = true
		return handler.Success()
	})

	result := fn.Execute(execctx.New())

	if !called {
		t.Error("expected command func to be called")
	}
	if result.Status != handler.StatusOK {
		t.Errorf("expected StatusOK, got %v", result.Status)
	}
	if fn.Name() != "test" {
		t.Errorf("Name() = %q, want \"test\"", fn.Name())
	}
}

func TestFuncNil(t *testing.T) {
	fn := handler.NewFunc("empty", nil)
	result := fn.Execute(execctx.New())

	if result.Status != handler.StatusError {
		t.Errorf("expected StatusError for nil func, got %v", result.Status)
	}
}

func TestFuncPriority(t *testing.T) {
	fn := handler.NewFuncWithPriority("p", func(ctx *execctx.ExecutionContext) handler.Result {
		return handler.Success()
	}, 42)

	if fn.Priority() != 42 {
		t.Errorf("Priority() = %d, want 42", fn.Priority())
	}
	if handler.NewFunc("q", nil).Priority() != 0 {
		t.Error("default priority should be 0")
	}
}

type recordingRegistrar struct {
	labels []string
}

func (r *recordingRegistrar) RegisterCommand(label string, c handler.Command) {
	r.labels = append(r.labels, label)
}

func TestGroup(t *testing.T) {
	noop := handler.NewFunc("noop", func(ctx *execctx.ExecutionContext) handler.Result {
		return handler.NoOp()
	})
	g := handler.NewGroup("editor")
	g.Add(noop, "⌫", "▷")
	g.Add(noop, "C")

	if g.Name() != "editor" {
		t.Errorf("Name() = %q", g.Name())
	}
	if _, ok := g.Get("▷"); !ok {
		t.Error("alias should be bound")
	}
	if _, ok := g.Get("x"); ok {
		t.Error("unbound label should not resolve")
	}

	r := &recordingRegistrar{}
	g.RegisterAll(r)
	want := []string{"⌫", "▷", "C"}
	if len(r.labels) != len(want) {
		t.Fatalf("registered %v, want %v", r.labels, want)
	}
	for i := range want {
		if r.labels[i] != want[i] {
			t.Errorf("label %d = %q, want %q", i, r.labels[i], want[i])
		}
	}
}
