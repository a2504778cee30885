// Package controller runs the heater poll loop. A Controller owns the current
// state, the LED timer and all output collaborators; it is driven by Tick from
// a single goroutine and never blocks.
package controller

import (
	"fmt"
	"log"

	"github.com/sweeney/heater-controller/internal/gpio"
	"github.com/sweeney/heater-controller/internal/logic"
	"github.com/sweeney/heater-controller/internal/sensor"
	"github.com/sweeney/heater-controller/internal/status"
)

// DefaultPollIntervalMs is how often the sensor is read.
const DefaultPollIntervalMs = 2000

// Notifier receives state changes. The MQTT publisher implements it.
type Notifier interface {
	ReportStateChange(state logic.State) error
}

// Pins names the output lines.
type Pins struct {
	Heater int
	LED    int
	Buzzer int
}

// Config is the fixed controller configuration.
type Config struct {
	Thresholds     logic.Thresholds
	PollIntervalMs uint64
	Pins           Pins
	// BuzzerOnGPIO is set when the buzzer pin is also a digital output line,
	// so silence can force it low directly.
	BuzzerOnGPIO bool
	// Resolution is the sensor conversion resolution in bits.
	Resolution int
}

// Controller sequences read -> decide -> actuate -> report.
type Controller struct {
	cfg      Config
	sensor   sensor.Sensor
	pins     gpio.Pins
	tone     gpio.Tone
	reporter *status.Reporter
	notifier Notifier

	state      logic.State
	lastPollMs uint64
	ledTimer   logic.IndicatorTimer
	// ledLive is false after a failed read, freezing the LED until the next
	// successful poll.
	ledLive bool
	last    logic.Snapshot
	polled  bool
}

// New creates a Controller in Idle. notifier may be nil.
func New(cfg Config, s sensor.Sensor, pins gpio.Pins, tone gpio.Tone, reporter *status.Reporter, notifier Notifier) *Controller {
	if cfg.PollIntervalMs == 0 {
		cfg.PollIntervalMs = DefaultPollIntervalMs
	}
	return &Controller{
		cfg:      cfg,
		sensor:   s,
		pins:     pins,
		tone:     tone,
		reporter: reporter,
		notifier: notifier,
		state:    logic.StateIdle,
	}
}

// Start writes the banner, drives every output to its safe level and
// prepares the sensor. The first poll happens one interval after nowMs.
// A missing sensor or an unwritable resolution is logged, not fatal: reads
// keep failing until the sensor appears. Only a resolution outside 9-12 bits
// is an error.
func (c *Controller) Start(nowMs uint64) error {
	if c.cfg.Resolution != 0 && !sensor.ValidResolution(c.cfg.Resolution) {
		return fmt.Errorf("invalid resolution %d (want 9-12)", c.cfg.Resolution)
	}

	c.report(c.reporter.Banner())

	c.writePin(c.cfg.Pins.Heater, false)
	c.writePin(c.cfg.Pins.LED, false)
	c.applyBuzzer(logic.Silence)

	if err := c.sensor.Begin(); err != nil {
		log.Printf("sensor begin: %v", err)
	}
	if c.cfg.Resolution != 0 {
		if err := c.sensor.SetResolution(c.cfg.Resolution); err != nil {
			log.Printf("sensor set resolution: %v", err)
		}
	}

	c.lastPollMs = nowMs
	return nil
}

// Tick runs a poll cycle when the poll interval has elapsed and otherwise
// keeps the LED blinking. It reports whether a poll was attempted.
func (c *Controller) Tick(nowMs uint64) bool {
	if logic.Elapsed(nowMs, c.lastPollMs) >= c.cfg.PollIntervalMs {
		c.Poll(nowMs)
		return true
	}
	if c.ledLive {
		c.applyLED(logic.UpdateLED(c.state, nowMs, &c.ledTimer))
	}
	return false
}

// Poll runs one cycle unconditionally and advances the poll timer.
func (c *Controller) Poll(nowMs uint64) {
	c.lastPollMs = nowMs

	temp, err := c.sensor.Read()
	if err != nil {
		// Skip the whole cycle: state and outputs stay as last commanded.
		c.ledLive = false
		c.report(c.reporter.SensorError())
		log.Printf("sensor read: %v", err)
		return
	}

	prev := c.state
	c.state = logic.Transition(c.cfg.Thresholds, prev, temp)
	if c.state != prev {
		c.report(c.reporter.StateChange(prev, c.state))
		if c.notifier != nil {
			if err := c.notifier.ReportStateChange(c.state); err != nil {
				log.Printf("notify state change: %v", err)
			}
		}
	}

	heaterOn := logic.DriveHeater(c.state)
	c.writePin(c.cfg.Pins.Heater, heaterOn)

	c.applyLED(logic.UpdateLED(c.state, nowMs, &c.ledTimer))
	c.applyBuzzer(logic.UpdateBuzzer(c.state))
	c.ledLive = true

	c.last = logic.Snapshot{
		State:        c.state,
		TemperatureC: temp,
		HeaterOn:     c.readPin(c.cfg.Pins.Heater, heaterOn),
		TimestampMs:  nowMs,
	}
	c.polled = true
	c.report(c.reporter.Status(c.last))
}

// Shutdown forces the heater and LED off and silences the buzzer. The last
// snapshot is updated to the released heater level.
func (c *Controller) Shutdown() {
	c.writePin(c.cfg.Pins.Heater, false)
	c.writePin(c.cfg.Pins.LED, false)
	c.applyBuzzer(logic.Silence)
	c.ledLive = false

	if c.polled {
		c.last.HeaterOn = c.readPin(c.cfg.Pins.Heater, false)
	}
}

// State returns the current state.
func (c *Controller) State() logic.State {
	return c.state
}

// Last returns the most recent snapshot; ok is false before the first
// successful poll.
func (c *Controller) Last() (snap logic.Snapshot, ok bool) {
	return c.last, c.polled
}

// LEDTimer returns a copy of the LED toggle timer.
func (c *Controller) LEDTimer() logic.IndicatorTimer {
	return c.ledTimer
}

func (c *Controller) applyLED(out logic.LedOutput) {
	pin := c.cfg.Pins.LED
	switch out {
	case logic.LedOff:
		c.writePin(pin, false)
	case logic.LedOn:
		c.writePin(pin, true)
	case logic.LedToggle:
		cur, err := c.pins.Read(pin)
		if err != nil {
			log.Printf("gpio: read pin %d: %v", pin, err)
			return
		}
		c.writePin(pin, !cur)
	}
}

func (c *Controller) applyBuzzer(cmd logic.ToneCommand) {
	pin := c.cfg.Pins.Buzzer
	if cmd.Active {
		if err := c.tone.StartTone(pin, cmd.FrequencyHz); err != nil {
			log.Printf("buzzer: start tone: %v", err)
		}
		return
	}

	if err := c.tone.StopTone(pin); err != nil {
		log.Printf("buzzer: stop tone: %v", err)
	}
	if c.cfg.BuzzerOnGPIO {
		c.writePin(pin, false)
	}
}

// report logs a failed status write; the sink never stops the loop.
func (c *Controller) report(err error) {
	if err != nil {
		log.Printf("status: write: %v", err)
	}
}

func (c *Controller) writePin(pin int, value bool) {
	if err := c.pins.Write(pin, value); err != nil {
		log.Printf("gpio: write pin %d: %v", pin, err)
	}
}

// readPin reads back an output level, falling back to the commanded value.
func (c *Controller) readPin(pin int, commanded bool) bool {
	v, err := c.pins.Read(pin)
	if err != nil {
		log.Printf("gpio: read pin %d: %v", pin, err)
		return commanded
	}
	return v
}
