package gpio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// DefaultPWMRoot is where the kernel exposes PWM controllers.
const DefaultPWMRoot = "/sys/class/pwm"

// PWMTone plays tones through a PWM channel routed to the buzzer pin.
type PWMTone struct {
	pin     int
	chipDir string
	chanDir string
	channel int
	// playingHz is the frequency the channel is enabled at, 0 when stopped.
	playingHz int
}

// NewPWMTone binds pin to channel of pwmchip<chip> under root, exporting the
// channel if the kernel has not already done so.
func NewPWMTone(root string, chip, channel, pin int) (*PWMTone, error) {
	chipDir := filepath.Join(root, "pwmchip"+strconv.Itoa(chip))
	if _, err := os.Stat(chipDir); err != nil {
		return nil, fmt.Errorf("pwm chip %d: %w", chip, err)
	}

	t := &PWMTone{
		pin:     pin,
		chipDir: chipDir,
		chanDir: filepath.Join(chipDir, "pwm"+strconv.Itoa(channel)),
		channel: channel,
	}
	if _, err := os.Stat(t.chanDir); errors.Is(err, os.ErrNotExist) {
		if err := writeAttr(filepath.Join(chipDir, "export"), strconv.Itoa(channel)); err != nil {
			return nil, fmt.Errorf("export pwm channel %d: %w", channel, err)
		}
	}
	return t, nil
}

// StartTone sets a 50% duty square wave at frequencyHz and enables the channel.
// It writes nothing when the channel already plays frequencyHz.
func (t *PWMTone) StartTone(pin int, frequencyHz int) error {
	if pin != t.pin {
		return fmt.Errorf("pwm tone bound to pin %d, not %d", t.pin, pin)
	}
	if frequencyHz <= 0 {
		return fmt.Errorf("invalid tone frequency %d", frequencyHz)
	}
	if t.playingHz == frequencyHz {
		return nil
	}
	t.playingHz = 0

	period := int64(1_000_000_000) / int64(frequencyHz)
	// duty_cycle must never exceed period, so clear it before changing period.
	if err := t.set("duty_cycle", 0); err != nil {
		return err
	}
	if err := t.set("period", period); err != nil {
		return err
	}
	if err := t.set("duty_cycle", period/2); err != nil {
		return err
	}
	if err := t.set("enable", 1); err != nil {
		return err
	}
	t.playingHz = frequencyHz
	return nil
}

// StopTone zeroes the duty cycle, so the pin idles low, and disables the channel.
func (t *PWMTone) StopTone(pin int) error {
	if pin != t.pin {
		return fmt.Errorf("pwm tone bound to pin %d, not %d", t.pin, pin)
	}
	t.playingHz = 0
	if err := t.set("duty_cycle", 0); err != nil {
		return err
	}
	return t.set("enable", 0)
}

// Close disables and unexports the channel.
func (t *PWMTone) Close() error {
	t.playingHz = 0
	if err := t.set("enable", 0); err != nil {
		return err
	}
	return writeAttr(filepath.Join(t.chipDir, "unexport"), strconv.Itoa(t.channel))
}

func (t *PWMTone) set(attr string, v int64) error {
	if err := writeAttr(filepath.Join(t.chanDir, attr), strconv.FormatInt(v, 10)); err != nil {
		return fmt.Errorf("pwm %s: %w", attr, err)
	}
	return nil
}

func writeAttr(path, value string) error {
	return os.WriteFile(path, []byte(value), 0o644)
}
