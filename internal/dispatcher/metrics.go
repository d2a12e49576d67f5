package dispatcher

import (
	"sort"
	"sync"
	"time"

	"github.com/dshills/keycalc/internal/dispatcher/handler"
)

// Metrics counts button presses per label.
type Metrics struct {
	mu sync.Mutex

	labels map[string]*LabelStats

	presses uint64
	errors  uint64
	panics  uint64
	elapsed time.Duration
}

// LabelStats holds the counters for one button label.
type LabelStats struct {
	Label   string
	Command string
	Presses uint64
	Errors  uint64
	Elapsed time.Duration
}

// Average returns the mean dispatch time for the label.
func (s LabelStats) Average() time.Duration {
	if s.Presses == 0 {
		return 0
	}
	return s.Elapsed / time.Duration(s.Presses)
}

// Stats is a point-in-time copy of the counters.
type Stats struct {
	Presses uint64
	Errors  uint64
	Panics  uint64
	Elapsed time.Duration

	// Labels is ordered by presses, most pressed first.
	Labels []LabelStats
}

// Average returns the mean dispatch time over all presses.
func (s Stats) Average() time.Duration {
	if s.Presses == 0 {
		return 0
	}
	return s.Elapsed / time.Duration(s.Presses)
}

// Top returns at most n of the most pressed labels.
func (s Stats) Top(n int) []LabelStats {
	if n > len(s.Labels) {
		n = len(s.Labels)
	}
	return s.Labels[:n]
}

// NewMetrics creates an empty collector.
func NewMetrics() *Metrics {
	return &Metrics{labels: make(map[string]*LabelStats)}
}

// RecordDispatch counts one press of label, handled by command.
func (m *Metrics) RecordDispatch(label, command string, elapsed time.Duration, status handler.ResultStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ls := m.labels[label]
	if ls == nil {
		ls = &LabelStats{Label: label}
		m.labels[label] = ls
	}
	ls.Command = command
	ls.Presses++
	ls.Elapsed += elapsed

	m.presses++
	m.elapsed += elapsed

	if status == handler.StatusError {
		ls.Errors++
		m.errors++
	}
}

// RecordPanic counts a recovered panic. The press itself is recorded
// afterwards as an error.
func (m *Metrics) RecordPanic() {
	m.mu.Lock()
	m.panics++
	m.mu.Unlock()
}

// Stats returns a copy of the current counters.
func (m *Metrics) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Stats{
		Presses: m.presses,
		Errors:  m.errors,
		Panics:  m.panics,
		Elapsed: m.elapsed,
		Labels:  make([]LabelStats, 0, len(m.labels)),
	}
	for _, ls := range m.labels {
		s.Labels = append(s.Labels, *ls)
	}

	sort.Slice(s.Labels, func(i, j int) bool {
		if s.Labels[i].Presses != s.Labels[j].Presses {
			return s.Labels[i].Presses > s.Labels[j].Presses
		}
		return s.Labels[i].Label < s.Labels[j].Label
	})
	return s
}
