// Package status provides a thread-safe status tracker for the tripwire
// node. It is read by the HTTP handlers and formatted into the periodic
// diagnostic status line.
package status

import (
	"fmt"
	"sync"
	"time"

	"github.com/qut-iot/tripwire-node/internal/logic"
)

// Config contains node configuration for display.
type Config struct {
	TickMs   int64
	StatusMs int64
	Broker   string
	HTTPAddr string
	DeviceID string
}

// Snapshot is a point-in-time view of node state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	State         logic.State
	Raw           int
	Average       int
	Baseline      int
	ChangePercent float64
	Stats         logic.Stats
	Calibrated    bool
	StartTime     time.Time
	Now           time.Time
	LinkConnected bool
	Config        Config
}

// Uptime returns the duration since the node started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Line renders the human-readable diagnostic status line. It is not
// machine-parsed by any collaborator.
func (s Snapshot) Line() string {
	return fmt.Sprintf("raw=%d avg=%d baseline=%d change=%.1f%% state=%s blocks=%d blocked_total=%s uptime=%s",
		s.Raw, s.Average, s.Baseline, s.ChangePercent, s.State,
		s.Stats.BlockCount, s.Stats.TotalBlocked.Truncate(time.Millisecond),
		s.Uptime().Truncate(time.Second))
}

// Tracker holds mutable node state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			State:     logic.StateClear,
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets the detection view. Called from the control loop every tick.
func (t *Tracker) Update(state logic.State, raw, average, baseline int, changePercent float64, stats logic.Stats) {
	t.mu.Lock()
	t.snap.State = state
	t.snap.Raw = raw
	t.snap.Average = average
	t.snap.Baseline = baseline
	t.snap.ChangePercent = changePercent
	t.snap.Stats = stats
	t.mu.Unlock()
}

// SetCalibrated marks whether a valid baseline is installed.
func (t *Tracker) SetCalibrated(calibrated bool) {
	t.mu.Lock()
	t.snap.Calibrated = calibrated
	t.mu.Unlock()
}

// SetLinkConnected sets the uplink connection status.
func (t *Tracker) SetLinkConnected(connected bool) {
	t.mu.Lock()
	t.snap.LinkConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the node state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}

// SnapshotAt is Snapshot with an injected clock, for the control loop and tests.
func (t *Tracker) SnapshotAt(now time.Time) Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = now
	return s
}
