package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/sjson"

	"github.com/dshills/keycalc/internal/dispatcher"
)

// statsJSON encodes press statistics, most pressed label first.
// Durations are reported in microseconds.
func statsJSON(s dispatcher.Stats) ([]byte, error) {
	doc := []byte(`{"labels":[]}`)
	totals := []struct {
		path  string
		value any
	}{
		{"presses", s.Presses},
		{"errors", s.Errors},
		{"panics", s.Panics},
		{"average_us", s.Average().Microseconds()},
	}
	for _, f := range totals {
		var err error
		if doc, err = sjson.SetBytes(doc, f.path, f.value); err != nil {
			return nil, fmt.Errorf("stats %s: %w", f.path, err)
		}
	}

	for _, ls := range s.Labels {
		rec, err := labelStatsJSON(ls)
		if err != nil {
			return nil, err
		}
		if doc, err = sjson.SetRawBytes(doc, "labels.-1", rec); err != nil {
			return nil, fmt.Errorf("stats label %q: %w", ls.Label, err)
		}
	}
	return doc, nil
}

func labelStatsJSON(ls dispatcher.LabelStats) ([]byte, error) {
	rec := []byte(`{}`)
	fields := []struct {
		path  string
		value any
	}{
		{"label", ls.Label},
		{"command", ls.Command},
		{"presses", ls.Presses},
		{"errors", ls.Errors},
		{"average_us", ls.Average().Microseconds()},
	}
	for _, f := range fields {
		var err error
		if rec, err = sjson.SetBytes(rec, f.path, f.value); err != nil {
			return nil, fmt.Errorf("stats label %q %s: %w", ls.Label, f.path, err)
		}
	}
	return rec, nil
}

// logStats writes a one-line press summary when metrics are on.
func (app *Application) logStats() {
	if app.dispatcher == nil {
		return
	}
	m := app.dispatcher.Metrics()
	if m == nil {
		return
	}
	s := m.Stats()
	if s.Presses == 0 {
		return
	}

	top := make([]string, 0, 3)
	for _, ls := range s.Top(3) {
		top = append(top, fmt.Sprintf("%s=%d", ls.Label, ls.Presses))
	}
	app.logger.Info("session: %d presses, %d errors, average %v, top %s",
		s.Presses, s.Errors, s.Average().Round(time.Microsecond), strings.Join(top, " "))
}
