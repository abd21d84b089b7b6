// Package logic contains pure detection logic for the tripwire node.
// This package has NO external dependencies (no ADC, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// Detection constants. The threshold is a percentage drop of the smoothed
// reading relative to the calibrated baseline; the confirmation count is the
// number of consecutive ticks the signal must hold before a transition
// commits in either direction.
const (
	WindowSize         = 5
	DetectionThreshold = 25.0
	ConfirmationCount  = 3

	BlinkInterval = 100 * time.Millisecond
	AlarmInterval = 1000 * time.Millisecond
)

// State represents the beam state seen by the detector.
type State string

const (
	StateClear   State = "CLEAR"
	StateBlocked State = "BLOCKED"
)

// EventType represents a state transition event.
type EventType string

const (
	EventBlockStart EventType = "block_start"
	EventBlockEnd   EventType = "block_end"
)

// Event represents a state transition to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	// Average is the smoothed reading at the transition tick.
	Average  int
	Baseline int
	// BlockCount is the monotonic block counter after the transition.
	BlockCount int
	// Duration is set only for block_end events.
	Duration *time.Duration
}

// Stats holds cumulative block statistics since startup. Both fields only
// ever increase; they survive recalibration and reset only on restart.
type Stats struct {
	BlockCount   int
	TotalBlocked time.Duration
}

// LEDAction tells the actuator what to do with the indicator LED this tick.
type LEDAction int

const (
	LEDNone LEDAction = iota
	LEDOn
	LEDToggle
)

// Action is the indicator output for one tick.
type Action struct {
	LED   LEDAction
	Alarm bool
}
