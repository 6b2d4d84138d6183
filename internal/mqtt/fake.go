package mqtt

import "sync"

// FakePublisher records published updates for test assertions.
type FakePublisher struct {
	mu sync.Mutex

	// Updates contains every update that was published.
	Updates []VisualUpdate

	// Payloads contains the JSON payloads that were published.
	Payloads [][]byte

	// PublishError, if set, is returned by PublishVisual.
	PublishError error

	Closed    bool
	Connected bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// PublishVisual records the update.
func (f *FakePublisher) PublishVisual(u VisualUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishError != nil {
		return f.PublishError
	}
	payload, err := FormatPayload(u)
	if err != nil {
		return err
	}
	f.Updates = append(f.Updates, u)
	f.Payloads = append(f.Payloads, payload)
	return nil
}

// Snapshot returns a copy of the recorded updates.
func (f *FakePublisher) Snapshot() []VisualUpdate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]VisualUpdate(nil), f.Updates...)
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}

// IsConnected reports whether the fake publisher is "connected".
func (f *FakePublisher) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Connected
}
