package logic

// LED blink intervals in milliseconds.
const (
	HeatingBlinkMs     uint64 = 75
	StabilizingBlinkMs uint64 = 200
	OverheatBlinkMs    uint64 = 38
)

// BuzzerToneHz is the overheat alarm frequency.
const BuzzerToneHz = 10000

// LedOutput is the command for the status LED pin.
type LedOutput int

const (
	LedHold   LedOutput = iota // leave the pin as it is
	LedOff                     // drive low
	LedOn                      // drive high
	LedToggle                  // invert the current level
)

func (o LedOutput) String() string {
	switch o {
	case LedOff:
		return "OFF"
	case LedOn:
		return "ON"
	case LedToggle:
		return "TOGGLE"
	default:
		return "HOLD"
	}
}

// IndicatorTimer records when an indicator last toggled.
type IndicatorTimer struct {
	LastToggleMs uint64
}

// BlinkInterval returns the toggle period for blinking states.
// The second result is false for states with a steady LED.
func BlinkInterval(state State) (uint64, bool) {
	switch state {
	case StateHeating:
		return HeatingBlinkMs, true
	case StateStabilizing:
		return StabilizingBlinkMs, true
	case StateOverheat:
		return OverheatBlinkMs, true
	default:
		return 0, false
	}
}

// UpdateLED returns the LED command for state at nowMs.
// The timer is only touched when a toggle is issued.
func UpdateLED(state State, nowMs uint64, timer *IndicatorTimer) LedOutput {
	switch state {
	case StateIdle:
		return LedOff
	case StateTargetReached:
		return LedOn
	}

	interval, ok := BlinkInterval(state)
	if !ok {
		return LedOff
	}
	if Elapsed(nowMs, timer.LastToggleMs) >= interval {
		timer.LastToggleMs = nowMs
		return LedToggle
	}
	return LedHold
}

// ToneCommand is the command for the buzzer.
// A zero value means silence.
type ToneCommand struct {
	Active      bool
	FrequencyHz int
}

// Silence is the idle buzzer command.
var Silence = ToneCommand{}

// UpdateBuzzer returns a continuous alarm tone in Overheat and silence otherwise.
func UpdateBuzzer(state State) ToneCommand {
	if state == StateOverheat {
		return ToneCommand{Active: true, FrequencyHz: BuzzerToneHz}
	}
	return Silence
}
