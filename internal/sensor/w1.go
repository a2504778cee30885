package sensor

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// DefaultW1Root is where the w1_therm driver exposes devices.
const DefaultW1Root = "/sys/bus/w1/devices"

// ds18b20Family is the 1-Wire family code prefix for DS18B20 devices.
const ds18b20Family = "28-"

// DS18B20 reads a sensor through the w1_therm sysfs attributes.
type DS18B20 struct {
	root       string
	id         string
	resolution int
	applied    bool // resolution written to the current sensor
}

// NewDS18B20 creates a reader for sensor id under root.
// An empty id selects the first DS18B20 found by Begin.
func NewDS18B20(root, id string) *DS18B20 {
	return &DS18B20{root: root, id: id}
}

// ID returns the sensor id in use, empty until one is found.
func (d *DS18B20) ID() string {
	return d.id
}

// Begin locates the sensor. A missing sensor is reported as ErrDisconnected;
// Read keeps looking for it on later calls.
func (d *DS18B20) Begin() error {
	if d.id != "" {
		if _, err := os.Stat(d.dir()); err != nil {
			return fmt.Errorf("%w: sensor %s: %v", ErrDisconnected, d.id, err)
		}
		return nil
	}

	matches, err := filepath.Glob(filepath.Join(d.root, ds18b20Family+"*"))
	if err != nil {
		return fmt.Errorf("scan %s: %w", d.root, err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("%w: no DS18B20 under %s", ErrDisconnected, d.root)
	}
	sort.Strings(matches)
	d.id = filepath.Base(matches[0])
	return nil
}

// SetResolution writes the conversion resolution. If the sensor is not present
// yet it is written once Read finds it. A failed write is logged and the
// sensor keeps converting at its current resolution.
func (d *DS18B20) SetResolution(bits int) error {
	if !ValidResolution(bits) {
		return fmt.Errorf("invalid resolution %d (want 9-12)", bits)
	}
	d.resolution = bits
	d.applied = false
	return d.applyResolution()
}

func (d *DS18B20) applyResolution() error {
	if d.applied || d.resolution == 0 || d.id == "" {
		return nil
	}
	if _, err := os.Stat(d.dir()); err != nil {
		return nil
	}
	d.applied = true
	path := filepath.Join(d.dir(), "resolution")
	if err := os.WriteFile(path, []byte(strconv.Itoa(d.resolution)), 0o644); err != nil {
		log.Printf("sensor: set resolution on %s: %v", d.id, err)
	}
	return nil
}

// Read triggers a conversion and returns the temperature in Celsius.
func (d *DS18B20) Read() (float64, error) {
	if d.id == "" {
		if err := d.Begin(); err != nil {
			return 0, err
		}
	}
	if err := d.applyResolution(); err != nil {
		return 0, err
	}

	data, err := os.ReadFile(filepath.Join(d.dir(), "w1_slave"))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDisconnected, err)
	}
	return parseW1Slave(string(data))
}

func (d *DS18B20) dir() string {
	return filepath.Join(d.root, d.id)
}

// parseW1Slave decodes the two-line w1_slave format:
//
//	72 01 4b 46 7f ff 0e 10 57 : crc=57 YES
//	72 01 4b 46 7f ff 0e 10 57 t=23125
func parseW1Slave(s string) (float64, error) {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) < 2 {
		return 0, fmt.Errorf("%w: short w1_slave output", ErrDisconnected)
	}
	if !strings.HasSuffix(strings.TrimSpace(lines[0]), "YES") {
		return 0, fmt.Errorf("%w: crc check failed", ErrDisconnected)
	}

	i := strings.LastIndex(lines[1], "t=")
	if i < 0 {
		return 0, fmt.Errorf("malformed w1_slave output: %q", lines[1])
	}
	milli, err := strconv.Atoi(strings.TrimSpace(lines[1][i+2:]))
	if err != nil {
		return 0, fmt.Errorf("parse temperature: %w", err)
	}

	c := float64(milli) / 1000
	if c == DisconnectedC {
		return 0, ErrDisconnected
	}
	return c, nil
}
