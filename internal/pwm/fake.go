package pwm

// Write records one Set call as seen by the hardware (after clamping).
type Write struct {
	A uint8
	B uint8
}

// FakeOutput is a test double that records applied levels.
type FakeOutput struct {
	// Writes contains every Set call in order.
	Writes []Write

	// SetError, if set, is returned by Set.
	SetError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeOutput creates a FakeOutput.
func NewFakeOutput() *FakeOutput {
	return &FakeOutput{}
}

// Set records the clamped levels.
func (f *FakeOutput) Set(a, b uint8) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.Writes = append(f.Writes, Write{A: Clamp(a), B: Clamp(b)})
	return nil
}

// Close marks the output as closed.
func (f *FakeOutput) Close() error {
	f.Closed = true
	return nil
}

// Last returns the most recent write, or a zero Write if none happened.
func (f *FakeOutput) Last() Write {
	if len(f.Writes) == 0 {
		return Write{}
	}
	return f.Writes[len(f.Writes)-1]
}
