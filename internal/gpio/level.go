package gpio

// LevelTone drives an active buzzer (one with its own oscillator) from a
// plain output line. The requested frequency is ignored.
type LevelTone struct {
	Pins Pins
}

// StartTone drives the line high.
func (l LevelTone) StartTone(pin int, frequencyHz int) error {
	return l.Pins.Write(pin, true)
}

// StopTone drives the line low.
func (l LevelTone) StopTone(pin int) error {
	return l.Pins.Write(pin, false)
}
