// Package clock provides the monotonic millisecond counter that paces the
// controller. The real implementation is backed by Go's monotonic clock; the
// fake one is advanced by hand in tests.
package clock

import "time"

// Clock returns a monotonic millisecond count.
type Clock interface {
	NowMs() uint64
}

// Monotonic counts milliseconds since it was created.
type Monotonic struct {
	start time.Time
}

// NewMonotonic starts a counter at zero.
func NewMonotonic() *Monotonic {
	return &Monotonic{start: time.Now()}
}

// NowMs returns milliseconds elapsed since NewMonotonic.
// time.Since uses the monotonic reading, so wall-clock steps do not move it.
func (m *Monotonic) NowMs() uint64 {
	return uint64(time.Since(m.start).Milliseconds())
}

// Fake is a manually driven clock for tests. Not safe for concurrent use.
type Fake struct {
	Ms uint64
}

// NewFake creates a Fake starting at ms.
func NewFake(ms uint64) *Fake {
	return &Fake{Ms: ms}
}

// NowMs returns the current fake time.
func (f *Fake) NowMs() uint64 {
	return f.Ms
}

// Advance moves the fake clock forward; uint64 overflow wraps.
func (f *Fake) Advance(ms uint64) {
	f.Ms += ms
}
