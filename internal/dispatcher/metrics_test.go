package dispatcher_test

import (
	"testing"
	"time"

	"github.com/dshills/keycalc/internal/dispatcher"
	"github.com/dshills/keycalc/internal/dispatcher/handler"
)

func TestMetricsStats(t *testing.T) {
	m := dispatcher.NewMetrics()

	m.RecordDispatch("1", "append", 10*time.Millisecond, handler.StatusOK)
	m.RecordDispatch("1", "append", 30*time.Millisecond, handler.StatusOK)
	m.RecordDispatch("=", "evaluate", 20*time.Millisecond, handler.StatusError)
	m.RecordPanic()

	s := m.Stats()
	if s.Presses != 3 || s.Errors != 1 || s.Panics != 1 {
		t.Errorf("unexpected totals: %+v", s)
	}
	if s.Average() != 20*time.Millisecond {
		t.Errorf("expected 20ms average, got %v", s.Average())
	}

	if len(s.Labels) != 2 {
		t.Fatalf("expected 2 labels, got %d", len(s.Labels))
	}
	one := s.Labels[0]
	if one.Label != "1" || one.Presses != 2 || one.Average() != 20*time.Millisecond {
		t.Errorf("unexpected stats for '1': %+v", one)
	}
	if eq := s.Labels[1]; eq.Command != "evaluate" || eq.Errors != 1 {
		t.Errorf("unexpected stats for '=': %+v", eq)
	}
}

func TestMetricsTop(t *testing.T) {
	m := dispatcher.NewMetrics()
	for _, label := range []string{"+", "2", "2", "1", "2", "1"} {
		m.RecordDispatch(label, "append", time.Millisecond, handler.StatusOK)
	}

	tests := []struct {
		n    int
		want []string
	}{
		{0, nil},
		{1, []string{"2"}},
		{2, []string{"2", "1"}},
		{10, []string{"2", "1", "+"}},
	}

	s := m.Stats()
	for _, tt := range tests {
		top := s.Top(tt.n)
		if len(top) != len(tt.want) {
			t.Errorf("Top(%d) returned %d labels", tt.n, len(top))
			continue
		}
		for i, ls := range top {
			if ls.Label != tt.want[i] {
				t.Errorf("Top(%d)[%d] = %q, want %q", tt.n, i, ls.Label, tt.want[i])
			}
		}
	}
}

func TestMetricsStatsIsCopy(t *testing.T) {
	m := dispatcher.NewMetrics()
	m.RecordDispatch("C", "clear", time.Millisecond, handler.StatusOK)

	s := m.Stats()
	s.Labels[0].Presses = 99

	if m.Stats().Labels[0].Presses != 1 {
		t.Error("expected Stats to return a copy")
	}
	if (dispatcher.Stats{}).Average() != 0 || (dispatcher.LabelStats{}).Average() != 0 {
		t.Error("expected zero average without presses")
	}
}
