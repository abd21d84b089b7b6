// Command tripwire-node samples a laser-lit LDR, detects beam interruptions
// and reports them to a gateway over MQTT, while accepting remote actuator
// and recalibration commands.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/qut-iot/tripwire-node/internal/actuator"
	"github.com/qut-iot/tripwire-node/internal/adc"
	"github.com/qut-iot/tripwire-node/internal/calib"
	"github.com/qut-iot/tripwire-node/internal/config"
	"github.com/qut-iot/tripwire-node/internal/gateway"
	"github.com/qut-iot/tripwire-node/internal/link"
	"github.com/qut-iot/tripwire-node/internal/logic"
	"github.com/qut-iot/tripwire-node/internal/status"
	"github.com/qut-iot/tripwire-node/internal/web"
)

// Alarm tone played while the beam is blocked. Tone generation blocks the
// loop for its duration; at 100ms that is two skipped ticks, which the
// confirmation counter absorbs.
const (
	alarmToneFreq     = 2000
	alarmToneDuration = 100 * time.Millisecond
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config (empty for defaults)")
	broker := flag.String("broker", "", "MQTT broker address (overrides config)")
	httpAddr := flag.String("http", "", `HTTP status address (overrides config, "off" disables)`)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logrus.WithError(err).Fatal("load config")
		}
		cfg = loaded
	}
	if *broker != "" {
		cfg.Broker = *broker
	}
	switch *httpAddr {
	case "":
	case "off":
		cfg.HTTPAddr = ""
	default:
		cfg.HTTPAddr = *httpAddr
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	log := logger.WithField("device", cfg.DeviceID)

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("fatal")
	}
}

func run(cfg config.Config, log *logrus.Entry) error {
	reader, err := adc.NewIIOReader(cfg.ADCPath)
	if err != nil {
		return err
	}
	defer reader.Close()

	outputs, err := actuator.NewRealOutputs(cfg.PinLED, cfg.PinBuzzer)
	if err != nil {
		return err
	}
	defer outputs.Close()

	lnk, err := link.NewRealLink(cfg.Broker, cfg.DeviceID, log)
	if err != nil {
		return err
	}
	defer lnk.Close()

	// Startup calibration blocks everything else; the node is not usable
	// without a valid baseline.
	calibrator := calib.New(reader, outputs, log)
	baseline, err := calibrator.Calibrate()
	if err != nil {
		return err
	}
	detector, err := logic.NewDetector(baseline)
	if err != nil {
		return err
	}

	startTime := time.Now()
	tracker := status.NewTracker(startTime, status.Config{
		TickMs:   cfg.TickInterval.Milliseconds(),
		StatusMs: cfg.StatusInterval.Milliseconds(),
		Broker:   cfg.Broker,
		HTTPAddr: cfg.HTTPAddr,
		DeviceID: cfg.DeviceID,
	})
	tracker.SetCalibrated(true)
	tracker.SetLinkConnected(lnk.IsConnected())

	window := logic.NewWindow()

	// Recalibration re-runs the full procedure, connectivity gate included,
	// blocking the loop for its duration. Statistics are preserved; the
	// sample window re-enters warm-up against the new baseline.
	recalibrate := func() error {
		tracker.SetCalibrated(false)
		b, err := calibrator.Calibrate()
		if err != nil {
			return err
		}
		if err := detector.SetBaseline(b); err != nil {
			return err
		}
		window.Reset()
		tracker.SetCalibrated(true)
		return nil
	}
	gw := gateway.New(lnk, outputs, cfg.DeviceID, startTime, recalibrate, log)

	startup := status.FormatStatusEvent(tracker.Snapshot(), "STARTUP", "")
	if err := lnk.NotifySystem(startup, true); err != nil {
		log.WithError(err).Error("publish startup event")
	} else {
		log.Info("published startup event")
	}

	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.WithError(err).Error("http server")
			}
		}()
		defer srv.Shutdown(context.Background())
		log.WithField("addr", cfg.HTTPAddr).Info("http status server listening")
	}

	log.WithFields(logrus.Fields{
		"tick":     cfg.TickInterval,
		"baseline": baseline,
		"broker":   cfg.Broker,
	}).Info("started")

	ticker := time.NewTicker(cfg.TickInterval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	n := &node{
		reader:         reader,
		outputs:        outputs,
		link:           lnk,
		gateway:        gw,
		detector:       detector,
		window:         window,
		indicator:      logic.NewIndicator(startTime),
		tracker:        tracker,
		statusInterval: cfg.StatusInterval,
		log:            log,
	}
	return n.runLoop(time.Now, ticker.C, sigCh)
}

// node bundles the control-loop collaborators.
type node struct {
	reader         adc.Reader
	outputs        actuator.Outputs
	link           link.Link
	gateway        *gateway.Gateway
	detector       *logic.Detector
	window         *logic.Window
	indicator      *logic.Indicator
	tracker        *status.Tracker
	statusInterval time.Duration
	log            *logrus.Entry
}

// runLoop is the single-threaded control loop. Within one tick the pipeline
// order is fixed: sample → detect → indicators → status → drain one command.
func (n *node) runLoop(now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	lastStatus := now()

	for {
		select {
		case s := <-sig:
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			n.log.WithField("signal", signalName).Info("shutting down")

			payload := status.FormatStatusEvent(n.tracker.SnapshotAt(now()), "SHUTDOWN", signalName)
			if err := n.link.NotifySystem(payload, true); err != nil {
				n.log.WithError(err).Error("publish shutdown event")
			} else {
				n.log.Info("published shutdown event")
			}
			return nil

		case <-tick:
			t := now()

			raw, err := n.reader.Read()
			if err != nil {
				n.log.WithError(err).Error("adc read error")
				continue
			}
			n.window.Ingest(raw)
			average := n.window.Average()

			// Detection waits for the window to turn over once; the
			// zero-filled warm-up average would read as a block.
			if n.window.Warm() {
				for _, event := range n.detector.Process(average, t) {
					fields := logrus.Fields{
						"event":       event.Type,
						"block_count": event.BlockCount,
						"average":     event.Average,
					}
					if event.Duration != nil {
						fields["duration"] = *event.Duration
					}
					n.log.WithFields(fields).Info("beam transition")
					n.gateway.EmitEvent(event)
				}
			}

			n.applyIndicator(n.indicator.Evaluate(n.detector.State(), t))

			n.tracker.Update(n.detector.State(), raw, average, n.detector.Baseline(),
				n.detector.ChangePercent(), n.detector.Stats())
			n.tracker.SetLinkConnected(n.link.IsConnected())
			if t.Sub(lastStatus) >= n.statusInterval {
				lastStatus = t
				n.log.Info(n.tracker.SnapshotAt(t).Line())
			}

			n.gateway.DispatchPending()
		}
	}
}

func (n *node) applyIndicator(a logic.Action) {
	switch a.LED {
	case logic.LEDOn:
		if err := n.outputs.SetLED(true); err != nil {
			n.log.WithError(err).Error("set LED")
		}
	case logic.LEDToggle:
		if err := n.outputs.ToggleLED(); err != nil {
			n.log.WithError(err).Error("toggle LED")
		}
	}
	if a.Alarm {
		// Blocks for the tone duration.
		if err := n.outputs.Tone(alarmToneFreq, alarmToneDuration); err != nil {
			n.log.WithError(err).Error("alarm tone")
		}
	}
}
