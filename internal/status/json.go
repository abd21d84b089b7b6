package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event          string     `json:"event,omitempty"`
	Reason         string     `json:"reason,omitempty"`
	State          string     `json:"state"`
	Calibrated     bool       `json:"calibrated"`
	Raw            int        `json:"raw"`
	Average        int        `json:"average"`
	Baseline       int        `json:"baseline"`
	ChangePercent  float64    `json:"change_percent"`
	BlockCount     int        `json:"block_count"`
	TotalBlockedMs int64      `json:"total_blocked_ms"`
	UptimeSeconds  int64      `json:"uptime_seconds"`
	StartTime      string     `json:"start_time"`
	Timestamp      string     `json:"timestamp"`
	Link           LinkStatus `json:"link"`
	Config         ConfigJSON `json:"config"`
}

// LinkStatus reports uplink connection state.
type LinkStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// ConfigJSON is the JSON representation of node config.
type ConfigJSON struct {
	TickMs   int64  `json:"tick_ms"`
	StatusMs int64  `json:"status_ms"`
	Broker   string `json:"broker"`
	HTTPAddr string `json:"http_addr,omitempty"`
	DeviceID string `json:"device_id"`
}

func toInner(s Snapshot, event, reason string) StatusInner {
	return StatusInner{
		Event:          event,
		Reason:         reason,
		State:          string(s.State),
		Calibrated:     s.Calibrated,
		Raw:            s.Raw,
		Average:        s.Average,
		Baseline:       s.Baseline,
		ChangePercent:  s.ChangePercent,
		BlockCount:     s.Stats.BlockCount,
		TotalBlockedMs: s.Stats.TotalBlocked.Milliseconds(),
		UptimeSeconds:  int64(s.Uptime().Seconds()),
		StartTime:      s.StartTime.UTC().Format(time.RFC3339),
		Timestamp:      s.Now.UTC().Format(time.RFC3339),
		Link: LinkStatus{
			Connected: s.LinkConnected,
			Broker:    s.Config.Broker,
		},
		Config: ConfigJSON{
			TickMs:   s.Config.TickMs,
			StatusMs: s.Config.StatusMs,
			Broker:   s.Config.Broker,
			HTTPAddr: s.Config.HTTPAddr,
			DeviceID: s.Config.DeviceID,
		},
	}
}

// FormatJSON renders a snapshot for the HTTP status endpoint.
func FormatJSON(s Snapshot) []byte {
	out, err := json.Marshal(StatusJSON{Status: toInner(s, "", "")})
	if err != nil {
		// Snapshot contains only plain values; this cannot fail.
		return []byte(`{"status":{}}`)
	}
	return out
}

// FormatStatusEvent renders a snapshot as a system lifecycle payload
// (STARTUP, SHUTDOWN) with the event name and optional reason attached.
func FormatStatusEvent(s Snapshot, event, reason string) []byte {
	out, err := json.Marshal(StatusJSON{Status: toInner(s, event, reason)})
	if err != nil {
		return []byte(`{"status":{}}`)
	}
	return out
}
