//go:build !linux

package actuator

import (
	"time"

	"github.com/pkg/errors"
)

// RealOutputs is not available on non-Linux platforms.
type RealOutputs struct{}

// NewRealOutputs returns an error on non-Linux platforms.
func NewRealOutputs(pinLED, pinBuzzer int) (*RealOutputs, error) {
	return nil, errors.New("actuator: not supported on this platform (requires Linux)")
}

// SetLED is not implemented on non-Linux platforms.
func (o *RealOutputs) SetLED(on bool) error {
	return errors.New("actuator: not supported")
}

// ToggleLED is not implemented on non-Linux platforms.
func (o *RealOutputs) ToggleLED() error {
	return errors.New("actuator: not supported")
}

// Tone is not implemented on non-Linux platforms.
func (o *RealOutputs) Tone(freq int, duration time.Duration) error {
	return errors.New("actuator: not supported")
}

// Close is not implemented on non-Linux platforms.
func (o *RealOutputs) Close() error {
	return nil
}
