package logic

import "time"

// Indicator maps the beam state to LED/alarm actions, re-evaluated every
// tick. While Blocked the LED toggles every BlinkInterval and the alarm
// fires every AlarmInterval; while Clear the LED is held steady on.
//
// The phase timers persist across state transitions: blink and alarm cadence
// is continuous, not restarted at block onset.
type Indicator struct {
	lastBlink time.Time
	lastAlarm time.Time
}

// NewIndicator creates an indicator with both phase timers at start.
func NewIndicator(start time.Time) *Indicator {
	return &Indicator{
		lastBlink: start,
		lastAlarm: start,
	}
}

// Evaluate returns the actions due this tick for the given state.
func (i *Indicator) Evaluate(state State, now time.Time) Action {
	if state != StateBlocked {
		return Action{LED: LEDOn}
	}

	var a Action
	if now.Sub(i.lastBlink) >= BlinkInterval {
		a.LED = LEDToggle
		i.lastBlink = now
	}
	if now.Sub(i.lastAlarm) >= AlarmInterval {
		a.Alarm = true
		i.lastAlarm = now
	}
	return a
}
