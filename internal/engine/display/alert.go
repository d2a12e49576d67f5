package display

import "time"

// Fail shows the error marker and schedules a reset to an empty expression
// after duration. A non-positive duration uses DefaultErrorDuration.
// Calling Fail while already failing restarts the timer.
func (d *Display) Fail(duration time.Duration) {
	if duration <= 0 {
		duration = DefaultErrorDuration
	}

	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.generation++
	gen := d.generation
	d.text = ErrorMarker
	d.erroring = true
	d.timer = d.schedule(duration, func() { d.expire(gen) })
	d.mu.Unlock()
}

// expire clears the marker if no newer input has superseded this timer.
func (d *Display) expire(gen uint64) {
	d.mu.Lock()
	if gen != d.generation || !d.erroring {
		d.mu.Unlock()
		return
	}
	d.text = ""
	d.erroring = false
	d.timer = nil
	d.mu.Unlock()

	d.notify()
}

// Acknowledge cancels a pending error reset and clears the marker now.
// Returns true if the display was in the error state.
func (d *Display) Acknowledge() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.erroring {
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.generation++
	d.text = ""
	d.erroring = false
	return true
}

// Erroring returns true while the error marker is shown.
func (d *Display) Erroring() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.erroring
}

// Close stops any pending timer.
func (d *Display) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.generation++
}
