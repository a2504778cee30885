package logic

import (
	"math"
	"testing"
)

func TestUpdateLEDSteadyStates(t *testing.T) {
	timer := IndicatorTimer{LastToggleMs: 123}

	if got := UpdateLED(StateIdle, 10_000, &timer); got != LedOff {
		t.Errorf("IDLE: got %s, want OFF", got)
	}
	if got := UpdateLED(StateTargetReached, 10_000, &timer); got != LedOn {
		t.Errorf("TARGET_REACHED: got %s, want ON", got)
	}
	if timer.LastToggleMs != 123 {
		t.Errorf("steady states must not touch the timer, got %d", timer.LastToggleMs)
	}
}

func TestUpdateLEDBlinkIntervals(t *testing.T) {
	tests := []struct {
		state    State
		interval uint64
	}{
		{StateHeating, 75},
		{StateStabilizing, 200},
		{StateOverheat, 38},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			timer := IndicatorTimer{LastToggleMs: 1000}

			if got := UpdateLED(tt.state, 1000+tt.interval-1, &timer); got != LedHold {
				t.Errorf("before interval: got %s, want HOLD", got)
			}
			if timer.LastToggleMs != 1000 {
				t.Errorf("hold must not move the timer, got %d", timer.LastToggleMs)
			}

			if got := UpdateLED(tt.state, 1000+tt.interval, &timer); got != LedToggle {
				t.Errorf("at interval: got %s, want TOGGLE", got)
			}
			if timer.LastToggleMs != 1000+tt.interval {
				t.Errorf("timer: got %d, want %d", timer.LastToggleMs, 1000+tt.interval)
			}
		})
	}
}

func TestUpdateLEDToggleCountOverDuration(t *testing.T) {
	for _, d := range []uint64{0, 74, 75, 1000, 2000, 7777} {
		timer := IndicatorTimer{}
		toggles := uint64(0)
		for now := uint64(0); now <= d; now++ {
			if UpdateLED(StateHeating, now, &timer) == LedToggle {
				toggles++
			}
		}
		want := d / HeatingBlinkMs
		if toggles != want {
			t.Errorf("duration %dms: got %d toggles, want %d", d, toggles, want)
		}
	}
}

func TestUpdateLEDAcrossWraparound(t *testing.T) {
	timer := IndicatorTimer{LastToggleMs: math.MaxUint64 - 10}

	if got := UpdateLED(StateOverheat, 20, &timer); got != LedHold {
		t.Errorf("31ms after toggle: got %s, want HOLD", got)
	}
	if got := UpdateLED(StateOverheat, 27, &timer); got != LedToggle {
		t.Errorf("38ms after toggle: got %s, want TOGGLE", got)
	}
	if timer.LastToggleMs != 27 {
		t.Errorf("timer: got %d, want 27", timer.LastToggleMs)
	}
}

func TestUpdateBuzzer(t *testing.T) {
	for _, s := range AllStates {
		cmd := UpdateBuzzer(s)
		if s == StateOverheat {
			if !cmd.Active || cmd.FrequencyHz != 10000 {
				t.Errorf("OVERHEAT: got %+v, want 10000 Hz tone", cmd)
			}
			continue
		}
		if cmd != Silence {
			t.Errorf("%s: got %+v, want silence", s, cmd)
		}
	}
}

func TestBlinkIntervalSteadyStates(t *testing.T) {
	for _, s := range []State{StateIdle, StateTargetReached} {
		if _, ok := BlinkInterval(s); ok {
			t.Errorf("%s should not blink", s)
		}
	}
}
