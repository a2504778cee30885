package logic

// Transition returns the state that follows state for a valid temperature sample.
// Guards are evaluated in order and the first match wins; no match keeps the state.
func Transition(th Thresholds, state State, temp float64) State {
	switch state {
	case StateIdle:
		if temp < th.HeatingLow {
			return StateHeating
		}
		if temp >= th.Overheat {
			return StateOverheat
		}

	case StateHeating:
		if temp >= th.HeatingHigh && temp < th.Overheat {
			return StateStabilizing
		}
		if temp >= th.Overheat {
			return StateOverheat
		}

	case StateStabilizing:
		if temp < th.HeatingLow {
			return StateHeating
		}
		if temp >= th.Overheat {
			return StateOverheat
		}
		if temp >= th.TargetTemp-th.TargetWindow && temp <= th.TargetTemp+th.TargetWindow {
			return StateTargetReached
		}

	case StateTargetReached:
		if temp < th.HeatingLow {
			return StateHeating
		}
		if temp >= th.Overheat {
			return StateOverheat
		}

	case StateOverheat:
		// Latched: only the recovery guard applies, and it always lands in Idle.
		if temp < th.RecoveryBelow() {
			return StateIdle
		}
	}
	return state
}

// DriveHeater maps a state to the heater output (true = energize).
func DriveHeater(state State) bool {
	on := state == StateHeating

	// Overheat must never energize the heater, independent of the mapping above.
	if state == StateOverheat {
		on = false
	}
	return on
}
