package mqtt

// FakePublisher records published events for test assertions.
type FakePublisher struct {
	// LevelEvents contains all level events that were published.
	LevelEvents []LevelEvent

	// LevelPayloads contains the JSON payloads for level events.
	LevelPayloads [][]byte

	// SystemEvents contains all lifecycle events that were published.
	SystemEvents []SystemEvent

	// SystemPayloads contains the JSON payloads for lifecycle events.
	SystemPayloads [][]byte

	// PublishError, if set, is returned by PublishLevels.
	PublishError error

	// PublishSystemError, if set, is returned by PublishSystem.
	PublishSystemError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// PublishLevels records the level event.
func (f *FakePublisher) PublishLevels(event LevelEvent) error {
	if f.PublishError != nil {
		return f.PublishError
	}

	f.LevelEvents = append(f.LevelEvents, event)

	payload, err := FormatLevelPayload(event)
	if err != nil {
		return err
	}
	f.LevelPayloads = append(f.LevelPayloads, payload)

	return nil
}

// PublishSystem records the lifecycle event.
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

// Reset clears recorded events.
func (f *FakePublisher) Reset() {
	f.LevelEvents = nil
	f.LevelPayloads = nil
	f.SystemEvents = nil
	f.SystemPayloads = nil
	f.Closed = false
	f.PublishError = nil
	f.PublishSystemError = nil
	f.Connected = false
}
