package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/heater-controller/internal/logic"
)

// Config contains controller configuration for display.
type Config struct {
	PollMs     int64
	TickMs     int64
	Thresholds logic.Thresholds
	Broker     string
}

// Document is a point-in-time view of the controller for notifications.
// It is a value type; Last is nil until the first successful poll.
type Document struct {
	Last      *logic.Snapshot
	StartTime time.Time
	Now       time.Time
	Config    Config
	// MQTTConnected is the notifier link state at Now.
	MQTTConnected bool
}

// Uptime returns the duration since the controller started.
func (d Document) Uptime() time.Duration {
	return d.Now.Sub(d.StartTime)
}

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string     `json:"event,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	State         string     `json:"state"`
	TemperatureC  *float64   `json:"temperature_c"`
	Heater        string     `json:"heater"`
	Ready         bool       `json:"ready"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	MQTTConnected bool       `json:"mqtt_connected"`
	Config        ConfigJSON `json:"config"`
}

// ConfigJSON is the JSON representation of controller config.
type ConfigJSON struct {
	PollMs     int64          `json:"poll_ms"`
	TickMs     int64          `json:"tick_ms"`
	Broker     string         `json:"broker,omitempty"`
	Thresholds ThresholdsJSON `json:"thresholds"`
}

// ThresholdsJSON is the JSON representation of the temperature thresholds.
type ThresholdsJSON struct {
	TargetTemp     float64 `json:"target_temp"`
	HeatingLow     float64 `json:"heating_low"`
	HeatingHigh    float64 `json:"heating_high"`
	Overheat       float64 `json:"overheat"`
	RecoveryMargin float64 `json:"recovery_margin"`
	TargetWindow   float64 `json:"target_window"`
}

func buildInner(doc Document) StatusInner {
	th := doc.Config.Thresholds
	inner := StatusInner{
		State:         "UNKNOWN",
		Heater:        "UNKNOWN",
		UptimeSeconds: int64(doc.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     doc.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     doc.Now.UTC().Format(time.RFC3339),
		MQTTConnected: doc.MQTTConnected,
		Config: ConfigJSON{
			PollMs: doc.Config.PollMs,
			TickMs: doc.Config.TickMs,
			Broker: doc.Config.Broker,
			Thresholds: ThresholdsJSON{
				TargetTemp:     th.TargetTemp,
				HeatingLow:     th.HeatingLow,
				HeatingHigh:    th.HeatingHigh,
				Overheat:       th.Overheat,
				RecoveryMargin: th.RecoveryMargin,
				TargetWindow:   th.TargetWindow,
			},
		},
	}

	if doc.Last != nil {
		temp := doc.Last.TemperatureC
		inner.State = doc.Last.State.String()
		inner.TemperatureC = &temp
		inner.Heater = OnOff(doc.Last.HeaterOn)
		inner.Ready = true
	}
	return inner
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(doc Document, event, reason string) []byte {
	inner := buildInner(doc)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
