// Package actuator drives the indicator LED and piezo buzzer with hardware
// abstraction. The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package actuator

import "time"

// Outputs drives the local actuators.
//
// Tone is synchronous: it returns only after the tone has finished
// sounding, blocking the caller for the full duration.
type Outputs interface {
	// SetLED drives the LED to the given level.
	SetLED(on bool) error

	// ToggleLED inverts the current LED level.
	ToggleLED() error

	// Tone emits a square wave at freq Hz for the given duration. Blocking.
	Tone(freq int, duration time.Duration) error

	// Close releases GPIO resources.
	Close() error
}

// Pin defaults (BCM numbering)
const (
	DefaultPinLED    = 17
	DefaultPinBuzzer = 27
)
