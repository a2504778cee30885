//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// consumer labels the requested lines in gpioinfo output.
const consumer = "heater-controller"

// RealPins drives output lines on actual hardware using the Linux GPIO character device.
type RealPins struct {
	chip  *gpiocdev.Chip
	lines map[int]*gpiocdev.Line
	order []int
}

// NewRealPins requests each pin as an output, initially low.
func NewRealPins(chipName string, pins ...int) (*RealPins, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	p := &RealPins{
		chip:  chip,
		lines: make(map[int]*gpiocdev.Line, len(pins)),
	}
	for _, pin := range pins {
		if _, dup := p.lines[pin]; dup {
			continue
		}
		line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0), gpiocdev.WithConsumer(consumer))
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("request pin %d: %w", pin, err)
		}
		p.lines[pin] = line
		p.order = append(p.order, pin)
	}
	return p, nil
}

// Write drives the line high or low.
func (p *RealPins) Write(pin int, value bool) error {
	line, ok := p.lines[pin]
	if !ok {
		return fmt.Errorf("pin %d not requested", pin)
	}
	v := 0
	if value {
		v = 1
	}
	if err := line.SetValue(v); err != nil {
		return fmt.Errorf("write pin %d: %w", pin, err)
	}
	return nil
}

// Read returns the level currently driven on the line.
func (p *RealPins) Read(pin int) (bool, error) {
	line, ok := p.lines[pin]
	if !ok {
		return false, fmt.Errorf("pin %d not requested", pin)
	}
	v, err := line.Value()
	if err != nil {
		return false, fmt.Errorf("read pin %d: %w", pin, err)
	}
	return v == 1, nil
}

// Close releases GPIO resources.
// Drives every line low, then reconfigures it to input with pull-down
// (matching Pi boot defaults) so the heater cannot be left energized.
func (p *RealPins) Close() error {
	var errs []error

	for _, pin := range p.order {
		line := p.lines[pin]
		if err := line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("drive pin %d low: %w", pin, err))
		}
		if err := line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure pin %d: %w", pin, err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pin %d: %w", pin, err))
		}
	}
	p.lines = nil
	p.order = nil

	if p.chip != nil {
		if err := p.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
		p.chip = nil
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
