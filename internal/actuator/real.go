//go:build linux

package actuator

import (
	"time"

	"github.com/pkg/errors"
	"github.com/warthog618/go-gpiocdev"
)

// RealOutputs drives actual hardware through the Linux GPIO character device.
type RealOutputs struct {
	chip   *gpiocdev.Chip
	led    *gpiocdev.Line
	buzzer *gpiocdev.Line
	ledOn  bool
}

// NewRealOutputs requests the LED and buzzer lines as outputs, both low.
func NewRealOutputs(pinLED, pinBuzzer int) (*RealOutputs, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, errors.Wrap(err, "open gpio chip")
	}

	ledLine, err := chip.RequestLine(pinLED, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, errors.Wrapf(err, "request LED pin %d", pinLED)
	}

	buzzerLine, err := chip.RequestLine(pinBuzzer, gpiocdev.AsOutput(0))
	if err != nil {
		ledLine.Close()
		chip.Close()
		return nil, errors.Wrapf(err, "request buzzer pin %d", pinBuzzer)
	}

	return &RealOutputs{
		chip:   chip,
		led:    ledLine,
		buzzer: buzzerLine,
	}, nil
}

// SetLED drives the LED line.
func (o *RealOutputs) SetLED(on bool) error {
	v := 0
	if on {
		v = 1
	}
	if err := o.led.SetValue(v); err != nil {
		return errors.Wrap(err, "set LED")
	}
	o.ledOn = on
	return nil
}

// ToggleLED inverts the LED line.
func (o *RealOutputs) ToggleLED() error {
	return o.SetLED(!o.ledOn)
}

// Tone bit-bangs a square wave on the buzzer line. It blocks for the full
// duration; timing precision is bounded by the scheduler, which is plenty
// for an audible alarm.
func (o *RealOutputs) Tone(freq int, duration time.Duration) error {
	if freq <= 0 || duration <= 0 {
		return errors.Errorf("invalid tone %dHz/%v", freq, duration)
	}

	half := time.Second / time.Duration(2*freq)
	deadline := time.Now().Add(duration)
	level := 0
	for time.Now().Before(deadline) {
		level ^= 1
		if err := o.buzzer.SetValue(level); err != nil {
			return errors.Wrap(err, "drive buzzer")
		}
		time.Sleep(half)
	}
	if err := o.buzzer.SetValue(0); err != nil {
		return errors.Wrap(err, "silence buzzer")
	}
	return nil
}

// Close drives both lines low and releases GPIO resources.
func (o *RealOutputs) Close() error {
	var errs []error

	if o.led != nil {
		if err := o.led.SetValue(0); err != nil {
			errs = append(errs, errors.Wrap(err, "clear LED"))
		}
		if err := o.led.Close(); err != nil {
			errs = append(errs, errors.Wrap(err, "close LED line"))
		}
	}
	if o.buzzer != nil {
		if err := o.buzzer.SetValue(0); err != nil {
			errs = append(errs, errors.Wrap(err, "clear buzzer"))
		}
		if err := o.buzzer.Close(); err != nil {
			errs = append(errs, errors.Wrap(err, "close buzzer line"))
		}
	}
	if o.chip != nil {
		if err := o.chip.Close(); err != nil {
			errs = append(errs, errors.Wrap(err, "close chip"))
		}
	}

	if len(errs) > 0 {
		return errors.Errorf("close errors: %v", errs)
	}
	return nil
}
