package gpio

import "fmt"

// FakePins is a test double that remembers the level of each line.
type FakePins struct {
	// Levels holds the current level per pin.
	Levels map[int]bool

	// Writes counts Write calls per pin.
	Writes map[int]int

	// Closed tracks if Close was called.
	Closed bool

	// WriteError, if set, will be returned by Write() without changing the level.
	WriteError error

	// ReadError, if set, will be returned by Read().
	ReadError error

	known map[int]bool
}

// NewFakePins creates FakePins with the given lines configured low.
func NewFakePins(pins ...int) *FakePins {
	f := &FakePins{
		Levels: make(map[int]bool),
		Writes: make(map[int]int),
		known:  make(map[int]bool),
	}
	for _, p := range pins {
		f.known[p] = true
		f.Levels[p] = false
	}
	return f
}

// Write records the new level.
func (f *FakePins) Write(pin int, value bool) error {
	if !f.known[pin] {
		return fmt.Errorf("pin %d not configured", pin)
	}
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Levels[pin] = value
	f.Writes[pin]++
	return nil
}

// Read returns the recorded level.
func (f *FakePins) Read(pin int) (bool, error) {
	if !f.known[pin] {
		return false, fmt.Errorf("pin %d not configured", pin)
	}
	if f.ReadError != nil {
		return false, f.ReadError
	}
	return f.Levels[pin], nil
}

// Close drives all lines low and marks the fake closed.
func (f *FakePins) Close() error {
	for p := range f.known {
		f.Levels[p] = false
	}
	f.Closed = true
	return nil
}

// FakeTone records tone commands.
type FakeTone struct {
	// Playing maps pin to the active frequency; absent means silent.
	Playing map[int]int

	// Starts and Stops count calls.
	Starts int
	Stops  int

	// StartError, if set, will be returned by StartTone.
	StartError error
}

// NewFakeTone creates a silent FakeTone.
func NewFakeTone() *FakeTone {
	return &FakeTone{Playing: make(map[int]int)}
}

// StartTone records a tone.
func (f *FakeTone) StartTone(pin int, frequencyHz int) error {
	if f.StartError != nil {
		return f.StartError
	}
	f.Playing[pin] = frequencyHz
	f.Starts++
	return nil
}

// StopTone records silence.
func (f *FakeTone) StopTone(pin int) error {
	delete(f.Playing, pin)
	f.Stops++
	return nil
}
