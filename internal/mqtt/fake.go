package mqtt

import (
	"time"

	"github.com/sweeney/heater-controller/internal/logic"
)

// FakePublisher records published notifications for test assertions.
type FakePublisher struct {
	// States contains every state that was reported, in order.
	States []logic.State

	// StatePayloads contains the JSON payloads for state changes.
	StatePayloads [][]byte

	// SystemEvents contains all system events that were published.
	SystemEvents []SystemEvent

	// SystemPayloads contains the JSON payloads for system events.
	SystemPayloads [][]byte

	// ReportError, if set, will be returned by ReportStateChange.
	ReportError error

	// PublishSystemError, if set, will be returned by PublishSystem.
	PublishSystemError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool

	// Now stamps state payloads; defaults to time.Now.
	Now func() time.Time
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{Now: time.Now}
}

// ReportStateChange records the state.
func (f *FakePublisher) ReportStateChange(state logic.State) error {
	if f.ReportError != nil {
		return f.ReportError
	}

	f.States = append(f.States, state)

	payload, err := FormatStatePayload(f.Now(), state)
	if err != nil {
		return err
	}
	f.StatePayloads = append(f.StatePayloads, payload)

	return nil
}

// PublishSystem records the system event.
func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}

	f.SystemEvents = append(f.SystemEvents, event)

	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemPayloads = append(f.SystemPayloads, payload)

	return nil
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

// IsConnected reports whether the fake publisher is "connected".
func (f *FakePublisher) IsConnected() bool {
	return f.Connected
}

// Reset clears recorded notifications.
func (f *FakePublisher) Reset() {
	f.States = nil
	f.StatePayloads = nil
	f.SystemEvents = nil
	f.SystemPayloads = nil
	f.Closed = false
	f.ReportError = nil
	f.PublishSystemError = nil
	f.Connected = false
}
