// Package status writes the controller's line-oriented status log and builds
// the JSON status document carried by lifecycle notifications.
package status

import (
	"fmt"
	"io"

	"github.com/sweeney/heater-controller/internal/logic"
)

// Banner is the first line written at startup.
const Banner = "Heater Control System Starting..."

// SensorErrorLine is written for every failed temperature read.
const SensorErrorLine = "Error: Could not read temperature sensor!"

// Reporter writes status records to an append-only text sink.
// Not safe for concurrent use; the controller owns it.
type Reporter struct {
	w io.Writer
}

// NewReporter creates a Reporter writing to w.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Banner writes the startup line.
func (r *Reporter) Banner() error {
	_, err := fmt.Fprintln(r.w, Banner)
	return err
}

// Status writes one record per successful poll cycle:
//
//	[4000ms] Temp: 27.0C, State: HEATING, Heater: ON
func (r *Reporter) Status(s logic.Snapshot) error {
	_, err := fmt.Fprintln(r.w, FormatStatusLine(s))
	return err
}

// StateChange writes the transition line, e.g. "State change: IDLE -> HEATING".
func (r *Reporter) StateChange(from, to logic.State) error {
	_, err := fmt.Fprintf(r.w, "State change: %s -> %s\n", from, to)
	return err
}

// SensorError writes the failed-read line.
func (r *Reporter) SensorError() error {
	_, err := fmt.Fprintln(r.w, SensorErrorLine)
	return err
}

// FormatStatusLine renders a snapshot without the trailing newline.
func FormatStatusLine(s logic.Snapshot) string {
	return fmt.Sprintf("[%dms] Temp: %.1fC, State: %s, Heater: %s",
		s.TimestampMs, s.TemperatureC, s.State, OnOff(s.HeaterOn))
}

// OnOff renders a boolean output level.
func OnOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}
