// Package calib validates sensor wiring and computes the baseline reading.
// Both operations block: the node is not usable without a valid baseline, so
// calibration deliberately stalls everything else, and a disconnected sensor
// holds the node in a retry+alert loop until an operator fixes the wiring.
package calib

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/qut-iot/tripwire-node/internal/actuator"
	"github.com/qut-iot/tripwire-node/internal/adc"
)

const (
	// Connectivity gate: a healthy wired LDR under steady light shows a
	// small but nonzero spread over a short burst of samples. A spread
	// above the limit means a floating pin; an exactly flat run means a
	// short or a saturated/dead channel.
	ConnectivitySamples     = 10
	ConnectivityMaxSpread   = 200
	ConnectivitySampleDelay = 50 * time.Millisecond

	CalibrationSamples     = 50
	CalibrationSampleDelay = 50 * time.Millisecond
	CountdownSeconds       = 3
	RetryDelay             = 1 * time.Second

	alertFreq       = 400
	alertDuration   = 100 * time.Millisecond
	confirmFreq     = 1500
	confirmDuration = 200 * time.Millisecond
)

// ErrZeroBaseline means calibration ran in darkness or against a dead
// channel; the detector cannot divide by it.
var ErrZeroBaseline = errors.New("calib: calibration produced a zero baseline")

// Calibrator measures the beam-present reference level.
type Calibrator struct {
	reader  adc.Reader
	outputs actuator.Outputs
	log     *logrus.Entry

	// Sleep is injectable so tests run instantly.
	Sleep func(time.Duration)
}

// New creates a Calibrator using real time.Sleep.
func New(reader adc.Reader, outputs actuator.Outputs, log *logrus.Entry) *Calibrator {
	return &Calibrator{
		reader:  reader,
		outputs: outputs,
		log:     log,
		Sleep:   time.Sleep,
	}
}

// CheckConnectivity samples the channel a few times and reports whether the
// sensor looks wired up. Read failures count as disconnected.
func (c *Calibrator) CheckConnectivity() bool {
	min, max := 0, 0
	for i := 0; i < ConnectivitySamples; i++ {
		v, err := c.reader.Read()
		if err != nil {
			c.log.WithError(err).Warn("connectivity sample failed")
			return false
		}
		if i == 0 {
			min, max = v, v
		} else {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		c.Sleep(ConnectivitySampleDelay)
	}

	if max-min > ConnectivityMaxSpread {
		c.log.WithFields(logrus.Fields{"min": min, "max": max}).Warn("sensor signal too noisy, looks floating")
		return false
	}
	if max == min {
		c.log.WithField("value", max).Warn("sensor signal flat, looks shorted or dead")
		return false
	}
	return true
}

// Calibrate runs the full procedure: connectivity gate with an indefinite
// retry+alert loop, an operator countdown, then a fixed sample burst whose
// truncated mean becomes the baseline. A confirmation tone marks completion.
func (c *Calibrator) Calibrate() (int, error) {
	for !c.CheckConnectivity() {
		c.log.Warn("LDR disconnected, check wiring")
		c.alert()
		c.Sleep(RetryDelay)
	}

	for i := CountdownSeconds; i > 0; i-- {
		c.log.WithField("seconds", i).Info("calibrating, keep the beam on the sensor")
		c.Sleep(time.Second)
	}

	sum := 0
	for i := 0; i < CalibrationSamples; i++ {
		v, err := c.reader.Read()
		if err != nil {
			return 0, errors.Wrap(err, "calibration sample")
		}
		sum += v
		c.Sleep(CalibrationSampleDelay)
	}

	baseline := sum / CalibrationSamples
	if baseline <= 0 {
		return 0, ErrZeroBaseline
	}

	if err := c.outputs.Tone(confirmFreq, confirmDuration); err != nil {
		c.log.WithError(err).Error("confirmation tone")
	}
	c.log.WithField("baseline", baseline).Info("calibration complete")
	return baseline, nil
}

// alert plays the distinct disconnected pattern: two short low beeps and an
// LED toggle per retry cycle.
func (c *Calibrator) alert() {
	for i := 0; i < 2; i++ {
		if err := c.outputs.Tone(alertFreq, alertDuration); err != nil {
			c.log.WithError(err).Error("alert tone")
		}
		c.Sleep(alertDuration)
	}
	if err := c.outputs.ToggleLED(); err != nil {
		c.log.WithError(err).Error("alert LED")
	}
}
