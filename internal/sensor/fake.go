package sensor

import (
	"errors"
	"fmt"
)

// FakeSensor is a test double that returns scripted temperatures.
type FakeSensor struct {
	// Samples contains scripted readings. DisconnectedC produces ErrDisconnected.
	// Each call to Read() consumes the next sample.
	Samples []float64

	// index tracks current position in Samples
	index int

	// Resolution records the last SetResolution argument.
	Resolution int

	// Begun tracks if Begin was called.
	Begun bool

	// Reads counts Read calls.
	Reads int

	// ReadError, if set, will be returned by Read().
	ReadError error

	// SetResolutionError, if set, is returned by SetResolution for valid bits.
	SetResolutionError error
}

// NewFakeSensor creates a FakeSensor with the given samples.
func NewFakeSensor(samples ...float64) *FakeSensor {
	return &FakeSensor{Samples: samples}
}

// Begin marks the sensor as started.
func (f *FakeSensor) Begin() error {
	f.Begun = true
	return nil
}

// SetResolution records the resolution.
func (f *FakeSensor) SetResolution(bits int) error {
	if !ValidResolution(bits) {
		return fmt.Errorf("invalid resolution %d", bits)
	}
	if f.SetResolutionError != nil {
		return f.SetResolutionError
	}
	f.Resolution = bits
	return nil
}

// Read returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeSensor) Read() (float64, error) {
	f.Reads++
	if f.ReadError != nil {
		return 0, f.ReadError
	}
	if len(f.Samples) == 0 {
		return 0, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	if sample == DisconnectedC {
		return 0, ErrDisconnected
	}
	return sample, nil
}
