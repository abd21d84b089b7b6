package actuator

import "time"

// ToneCall records one Tone invocation.
type ToneCall struct {
	Freq     int
	Duration time.Duration
}

// FakeOutputs records actuator calls for test assertions.
type FakeOutputs struct {
	// LEDOn is the current LED level.
	LEDOn bool

	// LEDHistory records every level the LED was driven to.
	LEDHistory []bool

	// Tones records every Tone call.
	Tones []ToneCall

	// Closed tracks if Close was called.
	Closed bool

	// Err, if set, is returned by every mutating call.
	Err error
}

// NewFakeOutputs creates a FakeOutputs for testing.
func NewFakeOutputs() *FakeOutputs {
	return &FakeOutputs{}
}

// SetLED records the new LED level.
func (f *FakeOutputs) SetLED(on bool) error {
	if f.Err != nil {
		return f.Err
	}
	f.LEDOn = on
	f.LEDHistory = append(f.LEDHistory, on)
	return nil
}

// ToggleLED inverts and records the LED level.
func (f *FakeOutputs) ToggleLED() error {
	return f.SetLED(!f.LEDOn)
}

// Tone records the call without blocking.
func (f *FakeOutputs) Tone(freq int, duration time.Duration) error {
	if f.Err != nil {
		return f.Err
	}
	f.Tones = append(f.Tones, ToneCall{Freq: freq, Duration: duration})
	return nil
}

// Close marks the outputs as closed.
func (f *FakeOutputs) Close() error {
	f.Closed = true
	return nil
}

// Reset clears recorded calls.
func (f *FakeOutputs) Reset() {
	f.LEDOn = false
	f.LEDHistory = nil
	f.Tones = nil
	f.Closed = false
	f.Err = nil
}
