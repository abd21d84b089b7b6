package link

// SystemNotify records one NotifySystem call.
type SystemNotify struct {
	Payload  []byte
	Retained bool
}

// FakeLink records outbound payloads and serves scripted inbound commands.
type FakeLink struct {
	// Connected controls IsConnected.
	Connected bool

	// Notified contains all event payloads passed to Notify.
	Notified [][]byte

	// SystemNotified contains all NotifySystem calls.
	SystemNotified []SystemNotify

	// Commands is the scripted inbound queue consumed by NextCommand.
	Commands [][]byte

	// NotifyError, if set, is returned by Notify and NotifySystem.
	NotifyError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeLink creates a connected FakeLink.
func NewFakeLink() *FakeLink {
	return &FakeLink{Connected: true}
}

// IsConnected reports the scripted connection state.
func (f *FakeLink) IsConnected() bool {
	return f.Connected
}

// Notify records the payload.
func (f *FakeLink) Notify(payload []byte) error {
	if f.NotifyError != nil {
		return f.NotifyError
	}
	f.Notified = append(f.Notified, payload)
	return nil
}

// NotifySystem records the payload.
func (f *FakeLink) NotifySystem(payload []byte, retained bool) error {
	if f.NotifyError != nil {
		return f.NotifyError
	}
	f.SystemNotified = append(f.SystemNotified, SystemNotify{Payload: payload, Retained: retained})
	return nil
}

// PushCommand queues an inbound command payload.
func (f *FakeLink) PushCommand(payload []byte) {
	f.Commands = append(f.Commands, payload)
}

// NextCommand pops the oldest queued command.
func (f *FakeLink) NextCommand() ([]byte, bool) {
	if len(f.Commands) == 0 {
		return nil, false
	}
	payload := f.Commands[0]
	f.Commands = f.Commands[1:]
	return payload, true
}

// Close marks the link as closed.
func (f *FakeLink) Close() error {
	f.Closed = true
	return nil
}

// Reset clears recorded and queued payloads.
func (f *FakeLink) Reset() {
	f.Connected = true
	f.Notified = nil
	f.SystemNotified = nil
	f.Commands = nil
	f.NotifyError = nil
	f.Closed = false
}
