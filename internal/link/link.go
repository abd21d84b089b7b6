// Package link provides the wireless uplink to the gateway with abstraction
// for testing. The real implementation speaks MQTT; the core only ever uses
// the three operations below, so the broker protocol stays out of the rest
// of the node.
package link

import "fmt"

// Link is the transport boundary.
type Link interface {
	// IsConnected reports whether a peer is currently reachable.
	IsConnected() bool

	// Notify sends an event payload to the events channel.
	// Returns error if sending fails (should not crash the process).
	Notify(payload []byte) error

	// NotifySystem sends a lifecycle payload to the system channel,
	// optionally retained by the broker.
	NotifySystem(payload []byte, retained bool) error

	// NextCommand returns one pending inbound command payload, if any.
	// Non-blocking; the control loop drains at most one per tick.
	NextCommand() ([]byte, bool)

	// Close disconnects from the broker.
	Close() error
}

// Topics holds the per-device topic names.
type Topics struct {
	Events   string
	System   string
	Commands string
}

// TopicsFor returns the topic layout for a device id.
func TopicsFor(deviceID string) Topics {
	return Topics{
		Events:   fmt.Sprintf("tripwire/%s/events", deviceID),
		System:   fmt.Sprintf("tripwire/%s/system", deviceID),
		Commands: fmt.Sprintf("tripwire/%s/commands", deviceID),
	}
}
