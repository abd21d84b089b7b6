package gateway

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Command is a decoded inbound payload. Every field is optional; any subset
// may be present in one payload and each present field dispatches
// independently.
type Command struct {
	LED       string // "on" | "off" | "toggle"
	Buzzer    string // "beep" | "test"
	Calibrate bool

	// Skipped lists present fields whose JSON type did not match; they are
	// dropped without failing the rest of the payload.
	Skipped []string
}

// DecodeCommand parses an inbound payload. A payload that is not a JSON
// object is rejected; unknown fields are ignored; a known field of the wrong
// type is skipped and reported in Skipped.
func DecodeCommand(payload []byte) (Command, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return Command{}, errors.Wrap(err, "decode command")
	}

	var cmd Command
	if raw, ok := fields["led"]; ok {
		if err := json.Unmarshal(raw, &cmd.LED); err != nil {
			cmd.Skipped = append(cmd.Skipped, "led")
		}
	}
	if raw, ok := fields["buzzer"]; ok {
		if err := json.Unmarshal(raw, &cmd.Buzzer); err != nil {
			cmd.Skipped = append(cmd.Skipped, "buzzer")
		}
	}
	if raw, ok := fields["calibrate"]; ok {
		if err := json.Unmarshal(raw, &cmd.Calibrate); err != nil {
			cmd.Skipped = append(cmd.Skipped, "calibrate")
		}
	}
	return cmd, nil
}
