// Package sensor provides temperature reading with hardware abstraction.
// The real implementation reads a DS18B20 through the Linux 1-Wire sysfs bus.
// The fake implementation allows testing without hardware.
package sensor

import "errors"

// DisconnectedC is the reading a DS18B20 driver reports when the sensor is gone.
const DisconnectedC = -127.0

// ErrDisconnected is returned by Read when the sensor did not answer.
var ErrDisconnected = errors.New("sensor disconnected")

// DefaultResolution is the conversion resolution applied at startup.
const DefaultResolution = 10

// Sensor reads a single temperature sensor.
type Sensor interface {
	// Begin locates the sensor and prepares it for reads.
	Begin() error

	// SetResolution selects 9, 10, 11 or 12 bit conversions.
	SetResolution(bits int) error

	// Read returns the temperature in Celsius, or an error wrapping
	// ErrDisconnected when the sensor returned the disconnect sentinel.
	Read() (float64, error)
}

// ValidResolution reports whether bits is a resolution the DS18B20 supports.
func ValidResolution(bits int) bool {
	return bits >= 9 && bits <= 12
}
