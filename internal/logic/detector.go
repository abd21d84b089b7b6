package logic

import (
	"time"

	"github.com/pkg/errors"
)

// ErrInvalidBaseline is returned when a calibration produced a baseline the
// detector cannot divide by. A zero baseline is a wiring/lighting fault, not
// something the detector can recover from at runtime.
var ErrInvalidBaseline = errors.New("logic: baseline must be positive")

// Detector tracks the beam state and detects confirmed block transitions.
//
// The confirmation counter is a tick-counted debounce: it increments while
// the smoothed reading sits at least DetectionThreshold percent below the
// baseline and decrements toward zero otherwise, saturating at
// ConfirmationCount. A Clear detector commits to Blocked only when the
// counter first reaches ConfirmationCount; a Blocked detector commits to
// Clear only when the counter returns to exactly zero.
type Detector struct {
	baseline   int
	state      State
	confirm    int
	blockStart time.Time
	stats      Stats
	lastChange float64
}

// NewDetector creates a detector in the Clear state for the given baseline.
func NewDetector(baseline int) (*Detector, error) {
	if baseline <= 0 {
		return nil, ErrInvalidBaseline
	}
	return &Detector{
		baseline: baseline,
		state:    StateClear,
	}, nil
}

// Process takes the current smoothed reading and returns any events that
// should be emitted. At most one transition can fire per tick.
func (d *Detector) Process(average int, now time.Time) []Event {
	change := float64(d.baseline-average) / float64(d.baseline) * 100
	d.lastChange = change

	if change >= DetectionThreshold {
		if d.confirm < ConfirmationCount {
			d.confirm++
		}
		if d.confirm == ConfirmationCount && d.state == StateClear {
			d.state = StateBlocked
			d.blockStart = now
			d.stats.BlockCount++
			return []Event{{
				Timestamp:  now,
				Type:       EventBlockStart,
				Average:    average,
				Baseline:   d.baseline,
				BlockCount: d.stats.BlockCount,
			}}
		}
		return nil
	}

	if d.confirm > 0 {
		d.confirm--
	}
	if d.confirm == 0 && d.state == StateBlocked {
		d.state = StateClear
		duration := now.Sub(d.blockStart)
		d.stats.TotalBlocked += duration
		return []Event{{
			Timestamp:  now,
			Type:       EventBlockEnd,
			Average:    average,
			Baseline:   d.baseline,
			BlockCount: d.stats.BlockCount,
			Duration:   &duration,
		}}
	}

	return nil
}

// SetBaseline installs a freshly calibrated baseline. The state machine is
// reset to Clear with the confirmation counter zeroed: the baseline that
// defined any in-progress block is gone, so no block_end is emitted for it.
// Cumulative statistics are preserved.
func (d *Detector) SetBaseline(baseline int) error {
	if baseline <= 0 {
		return ErrInvalidBaseline
	}
	d.baseline = baseline
	d.state = StateClear
	d.confirm = 0
	return nil
}

// State returns the current beam state.
func (d *Detector) State() State {
	return d.state
}

// Baseline returns the calibrated reference reading.
func (d *Detector) Baseline() int {
	return d.baseline
}

// ChangePercent returns the drop percentage computed on the last Process call.
func (d *Detector) ChangePercent() float64 {
	return d.lastChange
}

// Stats returns the cumulative block statistics.
func (d *Detector) Stats() Stats {
	return d.stats
}
