// Package config loads the controller configuration from an optional YAML
// file, an optional .env file and HEATER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sweeney/heater-controller/internal/controller"
	"github.com/sweeney/heater-controller/internal/gpio"
	"github.com/sweeney/heater-controller/internal/logic"
	"github.com/sweeney/heater-controller/internal/sensor"
)

const (
	defaultPollInterval = controller.DefaultPollIntervalMs * time.Millisecond
	defaultTick         = 10 * time.Millisecond
)

// Buzzer drive modes.
const (
	BuzzerGPIO = "gpio"
	BuzzerPWM  = "pwm"
)

// Config holds runtime configuration for the controller daemon.
type Config struct {
	Thresholds   logic.Thresholds `yaml:"thresholds"`
	PollInterval time.Duration    `yaml:"poll_interval"`
	Tick         time.Duration    `yaml:"tick"`
	Pins         Pins             `yaml:"pins"`
	Sensor       Sensor           `yaml:"sensor"`
	Buzzer       Buzzer           `yaml:"buzzer"`
	MQTT         MQTT             `yaml:"mqtt"`
}

// Pins selects the GPIO chip and BCM line offsets.
type Pins struct {
	Chip   string `yaml:"chip"`
	Heater int    `yaml:"heater"`
	LED    int    `yaml:"led"`
	Buzzer int    `yaml:"buzzer"`
}

// Sensor configures the 1-Wire sensor. An empty ID picks the first sensor found.
type Sensor struct {
	Root       string `yaml:"root"`
	ID         string `yaml:"id"`
	Resolution int    `yaml:"resolution"`
}

// Buzzer selects how the overheat tone is produced.
type Buzzer struct {
	// Mode is "gpio" for an active buzzer on a digital line or "pwm" for a
	// passive buzzer on a hardware PWM channel.
	Mode       string `yaml:"mode"`
	PWMRoot    string `yaml:"pwm_root"`
	PWMChip    int    `yaml:"pwm_chip"`
	PWMChannel int    `yaml:"pwm_channel"`
}

// MQTT configures the optional state-change notifier. Empty Broker disables it.
type MQTT struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
}

// Default returns the factory configuration.
func Default() Config {
	return Config{
		Thresholds:   logic.DefaultThresholds(),
		PollInterval: defaultPollInterval,
		Tick:         defaultTick,
		Pins: Pins{
			Chip:   gpio.DefaultChip,
			Heater: gpio.DefaultPinHeater,
			LED:    gpio.DefaultPinLED,
			Buzzer: gpio.DefaultPinBuzzer,
		},
		Sensor: Sensor{
			Root:       sensor.DefaultW1Root,
			Resolution: sensor.DefaultResolution,
		},
		Buzzer: Buzzer{
			Mode:    BuzzerGPIO,
			PWMRoot: gpio.DefaultPWMRoot,
		},
	}
}

// LoadEnvFile loads KEY=VALUE pairs from path into the environment.
// Variables already set win. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// Load starts from Default, merges the YAML file at path (if path is not
// empty), applies HEATER_* overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	floats := []struct {
		name string
		dst  *float64
	}{
		{"HEATER_TARGET_TEMP", &cfg.Thresholds.TargetTemp},
		{"HEATER_HEATING_LOW", &cfg.Thresholds.HeatingLow},
		{"HEATER_HEATING_HIGH", &cfg.Thresholds.HeatingHigh},
		{"HEATER_OVERHEAT", &cfg.Thresholds.Overheat},
	}
	for _, f := range floats {
		if v := env(f.name); v != "" {
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", f.name, err)
			}
			*f.dst = n
		}
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"HEATER_PIN_HEATER", &cfg.Pins.Heater},
		{"HEATER_PIN_LED", &cfg.Pins.LED},
		{"HEATER_PIN_BUZZER", &cfg.Pins.Buzzer},
		{"HEATER_SENSOR_RESOLUTION", &cfg.Sensor.Resolution},
	}
	for _, i := range ints {
		if v := env(i.name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", i.name, err)
			}
			*i.dst = n
		}
	}

	durations := []struct {
		name string
		dst  *time.Duration
	}{
		{"HEATER_POLL_INTERVAL", &cfg.PollInterval},
		{"HEATER_TICK", &cfg.Tick},
	}
	for _, d := range durations {
		if v := env(d.name); v != "" {
			n, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", d.name, err)
			}
			*d.dst = n
		}
	}

	if v := env("HEATER_GPIO_CHIP"); v != "" {
		cfg.Pins.Chip = v
	}
	if v := env("HEATER_SENSOR_ID"); v != "" {
		cfg.Sensor.ID = v
	}
	if v := env("HEATER_BUZZER_MODE"); v != "" {
		cfg.Buzzer.Mode = strings.ToLower(v)
	}
	if v := env("HEATER_MQTT_BROKER"); v != "" {
		cfg.MQTT.Broker = v
	}
	return nil
}

func env(name string) string {
	return strings.TrimSpace(os.Getenv(name))
}

// Validate checks the threshold ordering, sensor resolution, intervals and
// pin assignment.
func (c Config) Validate() error {
	if err := c.Thresholds.Validate(); err != nil {
		return fmt.Errorf("thresholds: %w", err)
	}
	if !sensor.ValidResolution(c.Sensor.Resolution) {
		return fmt.Errorf("sensor resolution %d: must be 9, 10, 11 or 12", c.Sensor.Resolution)
	}
	if c.PollInterval < time.Millisecond {
		return fmt.Errorf("poll_interval %v: must be at least 1ms", c.PollInterval)
	}
	if c.Tick <= 0 || c.Tick > c.PollInterval {
		return fmt.Errorf("tick %v: must be positive and not longer than poll_interval", c.Tick)
	}

	seen := map[int]string{}
	for _, p := range []struct {
		name string
		pin  int
	}{
		{"heater", c.Pins.Heater},
		{"led", c.Pins.LED},
		{"buzzer", c.Pins.Buzzer},
	} {
		if p.pin < 0 {
			return fmt.Errorf("pin %s: negative offset %d", p.name, p.pin)
		}
		if other, ok := seen[p.pin]; ok {
			return fmt.Errorf("pin %s: offset %d already used by %s", p.name, p.pin, other)
		}
		seen[p.pin] = p.name
	}

	switch c.Buzzer.Mode {
	case BuzzerGPIO, BuzzerPWM:
	default:
		return fmt.Errorf("buzzer mode %q: must be %q or %q", c.Buzzer.Mode, BuzzerGPIO, BuzzerPWM)
	}
	return nil
}

// Controller returns the controller settings derived from c.
func (c Config) Controller() controller.Config {
	return controller.Config{
		Thresholds:     c.Thresholds,
		PollIntervalMs: uint64(c.PollInterval.Milliseconds()),
		Pins: controller.Pins{
			Heater: c.Pins.Heater,
			LED:    c.Pins.LED,
			Buzzer: c.Pins.Buzzer,
		},
		BuzzerOnGPIO: c.Buzzer.Mode == BuzzerGPIO,
		Resolution:   c.Sensor.Resolution,
	}
}
