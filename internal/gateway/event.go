package gateway

import (
	"encoding/json"

	"github.com/qut-iot/tripwire-node/internal/logic"
)

// OutboundEvent is the wire record for a detector transition.
// Timestamp is device uptime in milliseconds. DurationMS is a pointer so it
// is omitted entirely (not sent as zero) on block_start events.
type OutboundEvent struct {
	EventType  string `json:"event_type"`
	Timestamp  int64  `json:"timestamp"`
	DeviceID   string `json:"device_id"`
	BlockCount int    `json:"block_count"`
	LDRValue   int    `json:"ldr_value"`
	Baseline   int    `json:"baseline"`
	DurationMS *int64 `json:"duration_ms,omitempty"`
}

// EncodeEvent converts a detector event into its JSON wire form. startTime
// is the process start used as the uptime epoch.
func EncodeEvent(e logic.Event, deviceID string, uptimeMS int64) ([]byte, error) {
	out := OutboundEvent{
		EventType:  string(e.Type),
		Timestamp:  uptimeMS,
		DeviceID:   deviceID,
		BlockCount: e.BlockCount,
		LDRValue:   e.Average,
		Baseline:   e.Baseline,
	}
	if e.Duration != nil {
		ms := e.Duration.Milliseconds()
		out.DurationMS = &ms
	}
	return json.Marshal(out)
}
