// Command heater-controller regulates a heater from a DS18B20 sensor, drives
// the status LED and overheat buzzer, and optionally reports state changes to MQTT.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/sweeney/heater-controller/internal/clock"
	"github.com/sweeney/heater-controller/internal/config"
	"github.com/sweeney/heater-controller/internal/controller"
	"github.com/sweeney/heater-controller/internal/gpio"
	"github.com/sweeney/heater-controller/internal/mqtt"
	"github.com/sweeney/heater-controller/internal/sensor"
	"github.com/sweeney/heater-controller/internal/status"
)

var version = "dev"

type CLI struct {
	Config    string           `short:"c" help:"YAML configuration file (optional)" type:"path"`
	EnvFile   string           `help:"Environment file loaded before the configuration" default:".env"`
	Broker    string           `help:"MQTT broker URL, overrides the configuration"`
	Tick      time.Duration    `help:"Scheduler tick, overrides the configuration"`
	PrintTemp bool             `help:"Read the sensor once, print the temperature and exit"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("heater-controller"),
		kong.Description("Temperature-regulated heater controller."),
		kong.Vars{"version": version},
	)

	if err := config.LoadEnvFile(cli.EnvFile); err != nil {
		log.Fatalf("fatal: %v", err)
	}
	cfg, err := config.Load(cli.Config)
	if err != nil {
		log.Fatalf("fatal: config: %v", err)
	}
	if cli.Broker != "" {
		cfg.MQTT.Broker = cli.Broker
	}
	if cli.Tick > 0 {
		cfg.Tick = cli.Tick
		if err := cfg.Validate(); err != nil {
			log.Fatalf("fatal: config: %v", err)
		}
	}

	if err := run(cfg, cli.PrintTemp); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg config.Config, printTemp bool) error {
	thermo := sensor.NewDS18B20(cfg.Sensor.Root, cfg.Sensor.ID)

	if printTemp {
		return printTemperature(os.Stdout, thermo, cfg.Sensor.Resolution)
	}

	lines := []int{cfg.Pins.Heater, cfg.Pins.LED}
	if cfg.Buzzer.Mode == config.BuzzerGPIO {
		lines = append(lines, cfg.Pins.Buzzer)
	}
	pins, err := gpio.NewRealPins(cfg.Pins.Chip, lines...)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer pins.Close()

	var tone gpio.Tone = gpio.LevelTone{Pins: pins}
	if cfg.Buzzer.Mode == config.BuzzerPWM {
		pwm, err := gpio.NewPWMTone(cfg.Buzzer.PWMRoot, cfg.Buzzer.PWMChip, cfg.Buzzer.PWMChannel, cfg.Pins.Buzzer)
		if err != nil {
			return fmt.Errorf("init buzzer: %w", err)
		}
		defer pwm.Close()
		tone = pwm
	}

	// MQTT is optional; without a broker state changes only reach the log.
	var publisher mqtt.Publisher
	var notifier controller.Notifier
	if cfg.MQTT.Broker != "" {
		clientID := cfg.MQTT.ClientID
		if clientID == "" {
			clientID = mqtt.NewClientID()
		}
		p, err := mqtt.NewRealPublisher(cfg.MQTT.Broker, clientID)
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		defer func() {
			if n := p.Buffered(); n > 0 {
				log.Printf("mqtt: dropping %d undelivered messages", n)
			}
			p.Close()
		}()
		publisher, notifier = p, p
	}

	clk := clock.NewMonotonic()
	ctl := controller.New(cfg.Controller(), thermo, pins, tone, status.NewReporter(os.Stdout), notifier)
	if err := ctl.Start(clk.NowMs()); err != nil {
		return fmt.Errorf("start controller: %w", err)
	}

	s := &session{
		ctl:       ctl,
		publisher: publisher,
		info: status.Config{
			PollMs:     cfg.PollInterval.Milliseconds(),
			TickMs:     cfg.Tick.Milliseconds(),
			Thresholds: cfg.Thresholds,
			Broker:     cfg.MQTT.Broker,
		},
		start: time.Now(),
		now:   time.Now,
	}
	s.publishLifecycle("STARTUP", "")

	log.Printf("started: poll=%v tick=%v sensor=%s buzzer=%s broker=%q",
		cfg.PollInterval, cfg.Tick, thermo.ID(), cfg.Buzzer.Mode, cfg.MQTT.Broker)

	ticker := time.NewTicker(cfg.Tick)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(s, clk, ticker.C, sigCh)
}

// session holds what the loop needs besides the controller itself.
type session struct {
	ctl       *controller.Controller
	publisher mqtt.Publisher // nil when MQTT is disabled
	info      status.Config
	start     time.Time
	now       func() time.Time
}

func (s *session) document() status.Document {
	doc := status.Document{
		StartTime: s.start,
		Now:       s.now(),
		Config:    s.info,
	}
	if snap, ok := s.ctl.Last(); ok {
		doc.Last = &snap
	}
	if cs, ok := s.publisher.(mqtt.ConnectionStatus); ok {
		doc.MQTTConnected = cs.IsConnected()
	}
	return doc
}

func (s *session) publishLifecycle(event, reason string) {
	if s.publisher == nil {
		return
	}
	doc := s.document()
	err := s.publisher.PublishSystem(mqtt.SystemEvent{
		Timestamp:  doc.Now,
		Event:      event,
		Reason:     reason,
		Retained:   true,
		RawPayload: status.FormatStatusEvent(doc, event, reason),
	})
	if err != nil {
		log.Printf("failed to publish %s event: %v", event, err)
		return
	}
	log.Printf("published %s event", event)
}

func runLoop(s *session, clk clock.Clock, tick <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case sg := <-sig:
			log.Printf("received %v, shutting down", sg)
			s.ctl.Shutdown()
			s.publishLifecycle("SHUTDOWN", signalName(sg))
			return nil

		case <-tick:
			s.ctl.Tick(clk.NowMs())
		}
	}
}

func signalName(sg os.Signal) string {
	switch sg {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	default:
		return "UNKNOWN"
	}
}

func printTemperature(w io.Writer, s sensor.Sensor, resolution int) error {
	if err := s.Begin(); err != nil {
		return fmt.Errorf("init sensor: %w", err)
	}
	if err := s.SetResolution(resolution); err != nil {
		return fmt.Errorf("set resolution: %w", err)
	}
	temp, err := s.Read()
	if err != nil {
		return fmt.Errorf("read sensor: %w", err)
	}
	_, err = fmt.Fprintf(w, "Temp: %.1fC\n", temp)
	return err
}
