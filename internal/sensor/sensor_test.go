package sensor

import (
	"errors"
	"testing"
)

func TestFakeSensorRead(t *testing.T) {
	f := NewFakeSensor(21.5, 22.0)

	got, err := f.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 21.5 {
		t.Errorf("sample 0: got %v, want 21.5", got)
	}

	got, _ = f.Read()
	if got != 22.0 {
		t.Errorf("sample 1: got %v, want 22.0", got)
	}

	// Exhausted samples repeat the last one
	got, _ = f.Read()
	if got != 22.0 {
		t.Errorf("sample 2 (repeat): got %v, want 22.0", got)
	}
	if f.Reads != 3 {
		t.Errorf("Reads: got %d, want 3", f.Reads)
	}
}

func TestFakeSensorDisconnectSentinel(t *testing.T) {
	f := NewFakeSensor(DisconnectedC, 25.0)

	_, err := f.Read()
	if !errors.Is(err, ErrDisconnected) {
		t.Errorf("expected ErrDisconnected, got %v", err)
	}

	got, err := f.Read()
	if err != nil || got != 25.0 {
		t.Errorf("after reconnect: got (%v, %v), want (25, nil)", got, err)
	}
}

func TestFakeSensorNoSamples(t *testing.T) {
	if _, err := NewFakeSensor().Read(); err == nil {
		t.Error("expected error with no samples")
	}
}

func TestFakeSensorResolution(t *testing.T) {
	f := NewFakeSensor(20)
	if err := f.SetResolution(10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Resolution != 10 {
		t.Errorf("Resolution: got %d, want 10", f.Resolution)
	}
	if err := f.SetResolution(8); err == nil {
		t.Error("expected error for 8-bit resolution")
	}
}

func TestValidResolution(t *testing.T) {
	for bits := 0; bits <= 16; bits++ {
		want := bits >= 9 && bits <= 12
		if ValidResolution(bits) != want {
			t.Errorf("ValidResolution(%d): got %v, want %v", bits, !want, want)
		}
	}
}
