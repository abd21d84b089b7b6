// Package gateway translates detector transitions into outbound wire records
// and inbound command payloads into calls on the actuators and calibrator.
package gateway

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/qut-iot/tripwire-node/internal/actuator"
	"github.com/qut-iot/tripwire-node/internal/link"
	"github.com/qut-iot/tripwire-node/internal/logic"
)

// Tones used by inbound buzzer commands.
const (
	BeepFreq     = 1000
	BeepDuration = 100 * time.Millisecond
	TestFreq     = 2000
	TestDuration = 300 * time.Millisecond
)

// Gateway is the boundary adapter between the detector core and the link.
type Gateway struct {
	link     link.Link
	outputs  actuator.Outputs
	deviceID string
	start    time.Time

	// recalibrate re-runs the full calibration procedure, including the
	// connectivity gate. It blocks the control loop for its duration.
	recalibrate func() error

	log *logrus.Entry
}

// New creates a Gateway.
func New(l link.Link, outputs actuator.Outputs, deviceID string, start time.Time, recalibrate func() error, log *logrus.Entry) *Gateway {
	return &Gateway{
		link:        l,
		outputs:     outputs,
		deviceID:    deviceID,
		start:       start,
		recalibrate: recalibrate,
		log:         log,
	}
}

// EmitEvent sends a detector transition to the peer. With no connected peer
// the event is dropped: fire and forget, no queue, no retry.
func (g *Gateway) EmitEvent(e logic.Event) {
	if !g.link.IsConnected() {
		g.log.WithField("event", e.Type).Debug("no peer connected, dropping event")
		return
	}

	payload, err := EncodeEvent(e, g.deviceID, e.Timestamp.Sub(g.start).Milliseconds())
	if err != nil {
		g.log.WithError(err).Error("encode event")
		return
	}
	if err := g.link.Notify(payload); err != nil {
		g.log.WithError(err).Error("notify event")
	}
}

// DispatchPending drains at most one inbound command and dispatches its
// fields independently. Decode failures are logged and discarded with no
// side effects.
func (g *Gateway) DispatchPending() {
	payload, ok := g.link.NextCommand()
	if !ok {
		return
	}

	cmd, err := DecodeCommand(payload)
	if err != nil {
		g.log.WithError(err).Warn("malformed command payload, discarding")
		return
	}
	for _, field := range cmd.Skipped {
		g.log.WithField("field", field).Warn("command field has wrong type, skipping")
	}

	g.dispatch(cmd)
}

func (g *Gateway) dispatch(cmd Command) {
	switch cmd.LED {
	case "":
	case "on":
		g.applyLED(true)
	case "off":
		g.applyLED(false)
	case "toggle":
		if err := g.outputs.ToggleLED(); err != nil {
			g.log.WithError(err).Error("toggle LED")
		}
	default:
		g.log.WithField("led", cmd.LED).Warn("unknown led action, ignoring")
	}

	switch cmd.Buzzer {
	case "":
	case "beep":
		g.tone(BeepFreq, BeepDuration)
	case "test":
		g.tone(TestFreq, TestDuration)
	default:
		g.log.WithField("buzzer", cmd.Buzzer).Warn("unknown buzzer action, ignoring")
	}

	if cmd.Calibrate {
		g.log.Info("recalibration requested")
		if err := g.recalibrate(); err != nil {
			g.log.WithError(err).Error("recalibration failed")
		}
	}
}

func (g *Gateway) applyLED(on bool) {
	if err := g.outputs.SetLED(on); err != nil {
		g.log.WithError(err).Error("set LED")
	}
}

func (g *Gateway) tone(freq int, d time.Duration) {
	if err := g.outputs.Tone(freq, d); err != nil {
		g.log.WithError(err).Error("tone")
	}
}
