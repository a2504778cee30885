// Package gpio provides digital and tone outputs with hardware abstraction.
// The real pin implementation uses the Linux GPIO character device and the
// real tone implementation uses the PWM sysfs interface.
// The fake implementations allow testing without hardware.
package gpio

// Pins drives digital output lines addressed by BCM number.
type Pins interface {
	// Write sets the line high (true) or low (false).
	Write(pin int, value bool) error

	// Read returns the level last driven on the line.
	Read(pin int) (bool, error)

	// Close drives every line low and releases it.
	Close() error
}

// Tone generates a square wave on a buzzer line.
type Tone interface {
	// StartTone plays frequencyHz continuously until StopTone.
	StartTone(pin int, frequencyHz int) error

	// StopTone silences the line.
	StopTone(pin int) error
}

// Default pin definitions (BCM numbering).
const (
	DefaultPinHeater = 4
	DefaultPinLED    = 15
	DefaultPinBuzzer = 2
)

// DefaultChip is the GPIO character device used on a Raspberry Pi.
const DefaultChip = "gpiochip0"
