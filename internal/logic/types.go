// Package logic contains the pure control logic for the heater controller.
// This package has NO external dependencies (no GPIO, sensor, MQTT, OS, or time.Sleep).
// Time is always injectable as a millisecond counter.
package logic

import "fmt"

// State represents the controller's operating state.
type State int

const (
	StateIdle State = iota
	StateHeating
	StateStabilizing
	StateTargetReached
	StateOverheat
)

// AllStates lists every state in declaration order.
var AllStates = []State{
	StateIdle,
	StateHeating,
	StateStabilizing,
	StateTargetReached,
	StateOverheat,
}

// String returns the name used in log lines and notification payloads.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateHeating:
		return "HEATING"
	case StateStabilizing:
		return "STABILIZING"
	case StateTargetReached:
		return "TARGET_REACHED"
	case StateOverheat:
		return "OVERHEAT"
	default:
		return "UNKNOWN"
	}
}

// MarshalText lets State serialize as its name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Thresholds holds the temperature configuration in Celsius.
// Fixed at startup; see Validate for the ordering invariant.
type Thresholds struct {
	TargetTemp  float64 `yaml:"target_temp"`
	HeatingLow  float64 `yaml:"heating_low"`
	HeatingHigh float64 `yaml:"heating_high"`
	Overheat    float64 `yaml:"overheat"`
	// Recovery margin below Overheat before the interlock releases.
	RecoveryMargin float64 `yaml:"recovery_margin"`
	// Half-width of the band around TargetTemp that counts as reached.
	TargetWindow float64 `yaml:"target_window"`
}

// DefaultThresholds returns the factory settings.
func DefaultThresholds() Thresholds {
	return Thresholds{
		TargetTemp:     30.0,
		HeatingLow:     28.0,
		HeatingHigh:    31.0,
		Overheat:       35.0,
		RecoveryMargin: 2.0,
		TargetWindow:   0.5,
	}
}

// RecoveryBelow returns the temperature the reading must drop under to leave Overheat.
func (t Thresholds) RecoveryBelow() float64 {
	return t.Overheat - t.RecoveryMargin
}

// Validate checks low < high < overheat and that the target sits inside the hysteresis band.
func (t Thresholds) Validate() error {
	if !(t.HeatingLow < t.HeatingHigh) {
		return fmt.Errorf("heating_low (%.2f) must be below heating_high (%.2f)", t.HeatingLow, t.HeatingHigh)
	}
	if !(t.HeatingHigh < t.Overheat) {
		return fmt.Errorf("heating_high (%.2f) must be below overheat (%.2f)", t.HeatingHigh, t.Overheat)
	}
	if t.TargetTemp < t.HeatingLow || t.TargetTemp > t.HeatingHigh {
		return fmt.Errorf("target_temp (%.2f) must be within [%.2f, %.2f]", t.TargetTemp, t.HeatingLow, t.HeatingHigh)
	}
	if !(t.RecoveryMargin > 0) {
		return fmt.Errorf("recovery_margin (%.2f) must be positive", t.RecoveryMargin)
	}
	if t.TargetWindow < 0 {
		return fmt.Errorf("target_window (%.2f) must not be negative", t.TargetWindow)
	}
	return nil
}

// Snapshot is the outcome of one successful poll cycle.
type Snapshot struct {
	State        State
	TemperatureC float64
	HeaterOn     bool
	TimestampMs  uint64
}

// Elapsed returns now-last using unsigned arithmetic, so a wrapped counter
// still yields the true distance.
func Elapsed(now, last uint64) uint64 {
	return now - last
}
