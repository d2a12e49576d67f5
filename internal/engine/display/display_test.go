package display

import (
	"sync"
	"testing"
	"time"
)

// fakeTimer records a scheduled callback that tests fire by hand.
type fakeTimer struct {
	mu       sync.Mutex
	duration time.Duration
	fn       func()
	stopped  bool
	fired    bool
}

func (t *fakeTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	wasPending := !t.stopped && !t.fired
	t.stopped = true
	return wasPending
}

// fire runs the callback even if stopped, the way a timer that already
// started running would.
func (t *fakeTimer) fire() {
	t.mu.Lock()
	t.fired = true
	fn := t.fn
	t.mu.Unlock()
	fn()
}

type fakeScheduler struct {
	timers []*fakeTimer
}

func (s *fakeScheduler) schedule(d time.Duration, fn func()) Timer {
	t := &fakeTimer{duration: d, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) last() *fakeTimer {
	return s.timers[len(s.timers)-1]
}

func newTestDisplay() (*Display, *fakeScheduler) {
	sched := &fakeScheduler{}
	return New(WithScheduler(sched.schedule)), sched
}

func TestCommitRecordsHistory(t *testing.T) {
	d, _ := newTestDisplay()

	if !d.Commit("1") {
		t.Fatal("Commit should report a change")
	}
	d.Commit("12")

	if d.Text() != "12" {
		t.Errorf("Text() = %q, want \"12\"", d.Text())
	}
	hist := d.History()
	if len(hist) != 2 || hist[0] != "" || hist[1] != "1" {
		t.Errorf("History() = %q, want [\"\" \"1\"]", hist)
	}
}

func TestCommitSameTextIsNoop(t *testing.T) {
	d, _ := newTestDisplay()
	d.Commit("5")
	if d.Commit("5") {
		t.Error("Commit of the shown text should report no change")
	}
	if d.HistoryLen() != 1 {
		t.Errorf("HistoryLen() = %d, want 1", d.HistoryLen())
	}
}

func TestCommitClearsRedo(t *testing.T) {
	d, _ := newTestDisplay()
	d.Commit("1")
	d.Commit("12")
	d.Undo()
	if d.RedoLen() != 1 {
		t.Fatalf("RedoLen() = %d, want 1", d.RedoLen())
	}
	d.Commit("13")
	if d.RedoLen() != 0 {
		t.Errorf("RedoLen() = %d after new edit, want 0", d.RedoLen())
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	d, _ := newTestDisplay()
	for _, text := range []string{"2", "2+", "2+2", "4"} {
		d.Commit(text)
	}

	if !d.Undo() || d.Text() != "2+2" {
		t.Fatalf("after Undo Text() = %q, want \"2+2\"", d.Text())
	}
	if !d.Redo() || d.Text() != "4" {
		t.Fatalf("after Redo Text() = %q, want \"4\"", d.Text())
	}
	if d.RedoLen() != 0 {
		t.Errorf("RedoLen() = %d, want 0", d.RedoLen())
	}
}

func TestUndoEmptyHistoryIsNoop(t *testing.T) {
	d, _ := newTestDisplay()
	d.SetText("7")
	if d.Undo() {
		t.Error("Undo with empty history should report false")
	}
	if d.Text() != "7" || d.RedoLen() != 0 {
		t.Errorf("Undo on empty history changed state: text %q redo %d", d.Text(), d.RedoLen())
	}
}

func TestRedoEmpty(t *testing.T) {
	d, _ := newTestDisplay()
	if d.Redo() {
		t.Error("Redo with empty stack should report false")
	}
}

func TestStacksNeverHoldShownText(t *testing.T) {
	d, _ := newTestDisplay()
	steps := []func(){
		func() { d.Commit("1") },
		func() { d.Commit("1") },
		func() { d.Commit("1+") },
		func() { d.Undo() },
		func() { d.Undo() },
		func() { d.Redo() },
		func() { d.Commit("9") },
	}
	for i, step := range steps {
		step()
		text := d.Text()
		if hist := d.History(); len(hist) > 0 && hist[len(hist)-1] == text {
			t.Errorf("step %d: history top equals shown text %q", i, text)
		}
		if stack := d.RedoStack(); len(stack) > 0 && stack[len(stack)-1] == text {
			t.Errorf("step %d: redo top equals shown text %q", i, text)
		}
	}
}

func TestReset(t *testing.T) {
	d, _ := newTestDisplay()
	d.Commit("1")
	d.Commit("2")
	d.Undo()
	d.Reset()
	if d.Text() != "" || d.HistoryLen() != 0 || d.RedoLen() != 0 {
		t.Errorf("Reset left text %q history %d redo %d", d.Text(), d.HistoryLen(), d.RedoLen())
	}
}

func TestPrimitiveStackAccess(t *testing.T) {
	d, _ := newTestDisplay()
	d.PushHistory("a")
	d.PushRedo("b")
	if got := d.PopHistory(); got != "a" {
		t.Errorf("PopHistory() = %q", got)
	}
	if got := d.PopHistory(); got != "" {
		t.Errorf("PopHistory() on empty = %q, want \"\"", got)
	}
	if got := d.PopRedo(); got != "b" {
		t.Errorf("PopRedo() = %q", got)
	}
	if got := d.PopRedo(); got != "" {
		t.Errorf("PopRedo() on empty = %q, want \"\"", got)
	}
}

func TestFailShowsMarkerThenClears(t *testing.T) {
	d, sched := newTestDisplay()
	d.SetText("5/0")

	changed := 0
	d.OnChange(func() { changed++ })

	d.Fail(2 * time.Second)
	if d.Text() != ErrorMarker || !d.Erroring() {
		t.Fatalf("Text() = %q, Erroring() = %v", d.Text(), d.Erroring())
	}
	if sched.last().duration != 2*time.Second {
		t.Errorf("scheduled %v, want 2s", sched.last().duration)
	}

	sched.last().fire()
	if d.Text() != "" || d.Erroring() {
		t.Errorf("after expiry Text() = %q, Erroring() = %v", d.Text(), d.Erroring())
	}
	if changed != 1 {
		t.Errorf("OnChange called %d times, want 1", changed)
	}
}

func TestOnChangeUnsubscribe(t *testing.T) {
	d, sched := newTestDisplay()

	var first, second int
	stopFirst := d.OnChange(func() { first++ })
	d.OnChange(func() { second++ })

	d.Fail(time.Second)
	sched.last().fire()

	stopFirst()
	stopFirst()

	d.Fail(time.Second)
	sched.last().fire()

	if first != 1 {
		t.Errorf("removed listener called %d times, want 1", first)
	}
	if second != 2 {
		t.Errorf("remaining listener called %d times, want 2", second)
	}
}

func TestFailDefaultDuration(t *testing.T) {
	d, sched := newTestDisplay()
	d.Fail(0)
	if sched.last().duration != DefaultErrorDuration {
		t.Errorf("scheduled %v, want %v", sched.last().duration, DefaultErrorDuration)
	}
}

func TestAcknowledgeCancelsReset(t *testing.T) {
	d, sched := newTestDisplay()
	d.Fail(time.Second)
	timer := sched.last()

	if !d.Acknowledge() {
		t.Fatal("Acknowledge should report the error state")
	}
	if !timer.stopped {
		t.Error("pending timer should be stopped")
	}

	// New input arrives, then the stale timer fires anyway.
	d.Commit("42")
	timer.fire()

	if d.Text() != "42" {
		t.Errorf("stale timer cleared new input: Text() = %q", d.Text())
	}
}

func TestAcknowledgeWithoutError(t *testing.T) {
	d, _ := newTestDisplay()
	d.SetText("3")
	if d.Acknowledge() {
		t.Error("Acknowledge without error should return false")
	}
	if d.Text() != "3" {
		t.Errorf("Text() = %q, want \"3\"", d.Text())
	}
}

func TestFailRestartsTimer(t *testing.T) {
	d, sched := newTestDisplay()
	d.Fail(time.Second)
	first := sched.last()
	d.Fail(time.Second)
	second := sched.last()

	first.fire()
	if !d.Erroring() {
		t.Error("superseded timer should not clear the marker")
	}
	second.fire()
	if d.Erroring() {
		t.Error("current timer should clear the marker")
	}
}

func TestFailWithRealTimer(t *testing.T) {
	d := New()
	done := make(chan struct{})
	d.OnChange(func() { close(done) })

	d.Fail(10 * time.Millisecond)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("error marker was not cleared")
	}
	if d.Text() != "" {
		t.Errorf("Text() = %q, want empty", d.Text())
	}
}

func TestWithHistoryLimit(t *testing.T) {
	d := New(WithHistoryLimit(2))
	for _, text := range []string{"1", "2", "3", "4"} {
		d.Commit(text)
	}
	if d.HistoryLen() != 2 {
		t.Errorf("HistoryLen() = %d, want 2", d.HistoryLen())
	}
}
