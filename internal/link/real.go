package link

import (
	"time"

	"github.com/cenkalti/backoff"
	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// commandQueueSize bounds pending inbound commands. The loop drains one per
// tick (every 50ms), so anything beyond a small burst means the sender is
// misbehaving and older commands are dropped.
const commandQueueSize = 8

// RealLink talks to an actual MQTT broker.
type RealLink struct {
	client   paho.Client
	topics   Topics
	commands chan []byte
	log      *logrus.Entry
}

// NewRealLink connects to the broker, retrying with exponential backoff, and
// subscribes to the command topic. Reconnection after the initial connect is
// handled by the paho client; the command subscription is re-established in
// the OnConnect hook.
func NewRealLink(broker, deviceID string, log *logrus.Entry) (*RealLink, error) {
	l := &RealLink{
		topics:   TopicsFor(deviceID),
		commands: make(chan []byte, commandQueueSize),
		log:      log,
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("tripwire-" + deviceID).
		SetAutoReconnect(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(l.onConnect).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			l.log.WithError(err).Warn("link lost")
		})

	l.client = paho.NewClient(opts)

	connect := func() error {
		token := l.client.Connect()
		if !token.WaitTimeout(10 * time.Second) {
			return errors.New("connection timeout")
		}
		return token.Error()
	}
	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 4)
	if err := backoff.Retry(connect, policy); err != nil {
		return nil, errors.Wrapf(err, "connect to broker %s", broker)
	}

	return l, nil
}

func (l *RealLink) onConnect(client paho.Client) {
	l.log.Info("link connected")
	token := client.Subscribe(l.topics.Commands, 1, l.onCommand)
	if !token.WaitTimeout(5 * time.Second) {
		l.log.Error("command subscribe timeout")
		return
	}
	if err := token.Error(); err != nil {
		l.log.WithError(err).Error("command subscribe failed")
	}
}

func (l *RealLink) onCommand(_ paho.Client, msg paho.Message) {
	payload := make([]byte, len(msg.Payload()))
	copy(payload, msg.Payload())
	select {
	case l.commands <- payload:
	default:
		l.log.Warn("command queue full, dropping")
	}
}

// IsConnected reports the broker connection state.
func (l *RealLink) IsConnected() bool {
	return l.client.IsConnectionOpen()
}

// Notify publishes an event payload. QoS 0, not retained: a live stream,
// not a durable log.
func (l *RealLink) Notify(payload []byte) error {
	token := l.client.Publish(l.topics.Events, 0, false, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return errors.New("notify timeout")
	}
	return errors.Wrap(token.Error(), "notify")
}

// NotifySystem publishes a lifecycle payload. QoS 1 so startup/shutdown
// markers survive a flaky link.
func (l *RealLink) NotifySystem(payload []byte, retained bool) error {
	token := l.client.Publish(l.topics.System, 1, retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return errors.New("notify system timeout")
	}
	return errors.Wrap(token.Error(), "notify system")
}

// NextCommand pops one pending inbound payload without blocking.
func (l *RealLink) NextCommand() ([]byte, bool) {
	select {
	case payload := <-l.commands:
		return payload, true
	default:
		return nil, false
	}
}

// Close disconnects from the broker.
func (l *RealLink) Close() error {
	l.client.Disconnect(1000) // 1 second timeout
	return nil
}
