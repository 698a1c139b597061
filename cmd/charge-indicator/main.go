// Command charge-indicator watches the charger STAT line and drives the
// RGB charge LED, suppressing the external status-display daemon while
// charging. Transitions and lifecycle events are published to MQTT.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sddaemon "github.com/coreos/go-systemd/v22/daemon"
	"github.com/sweeney/charge-indicator/internal/battery"
	"github.com/sweeney/charge-indicator/internal/config"
	"github.com/sweeney/charge-indicator/internal/events"
	"github.com/sweeney/charge-indicator/internal/gpio"
	"github.com/sweeney/charge-indicator/internal/indicator"
	"github.com/sweeney/charge-indicator/internal/logic"
	"github.com/sweeney/charge-indicator/internal/mqtt"
	"github.com/sweeney/charge-indicator/internal/sensor"
	"github.com/sweeney/charge-indicator/internal/state"
	"github.com/sweeney/charge-indicator/internal/status"
	"github.com/sweeney/charge-indicator/internal/suppress"
	"github.com/sweeney/charge-indicator/internal/web"
)

func main() {
	configPath := flag.String("config", "/etc/charge-indicator/config.toml", "Path to TOML configuration file")
	broker := flag.String("broker", "", "Override MQTT broker address")
	httpAddr := flag.String("http", "", "Override HTTP status address")
	printState := flag.Bool("print-state", false, "Print current charging state and exit")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	if *broker != "" {
		cfg.MQTT.Broker = *broker
	}
	if *httpAddr != "" {
		cfg.Web.Addr = *httpAddr
	}

	if err := run(cfg, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg config.Config, printState bool) error {
	if !cfg.Indicator.Enabled {
		log.Printf("charge indicator disabled by configuration")
		return nil
	}

	// The STAT input is the one resource this daemon cannot live without.
	stat, err := gpio.NewRealStat(cfg.GPIO.Chip, cfg.GPIO.StatPin)
	if err != nil {
		return fmt.Errorf("init charge-status line: %w", err)
	}
	defer stat.Close()

	// Print state mode
	if printState {
		raw, err := stat.ReadRaw()
		if err != nil {
			return fmt.Errorf("read charge-status line: %w", err)
		}
		fmt.Println(logic.StateOf(logic.InterpretRaw(raw)))
		return nil
	}

	act, outputs, err := openActuator(cfg.GPIO)
	if err != nil {
		return err
	}
	if outputs != nil {
		defer outputs.Close()
	}
	capability := status.CapabilityAbsent
	if outputs != nil {
		capability = status.CapabilityPresent
	}

	// Connect MQTT before the first transition can fire so no event is
	// dropped; the client buffers while the broker is unreachable.
	publisher, err := mqtt.NewRealClient(cfg.MQTT.Broker)
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer publisher.Close()

	tracker := status.NewTracker(time.Now(), statusConfig(cfg))
	tracker.SetCapability(capability)

	store := state.NewStore(false)
	level := battery.NewLevel()
	policy := cfg.Policy()

	// Every output write in the process funnels through here.
	apply := func(charging bool) {
		act.SetChannels(policy.Channels(charging, level.Get()))
	}

	sens := sensor.New(stat, store, apply,
		msDur(cfg.Indicator.SettleMs), msDur(cfg.Indicator.InitialMs))
	sens.OnChange(func(charging bool) {
		tracker.SetCharging(charging)
		tracker.SetMQTTConnected(publisher.IsConnected())
		ev := transitionEvent(charging, level.Get(), time.Now())
		log.Printf("event: %s", ev.Type)
		if err := publisher.Publish(ev); err != nil {
			log.Printf("publish error: %v", err)
			// Don't crash on publish failure
		}
	})

	charging, err := sens.InitialState()
	if err != nil {
		return fmt.Errorf("initial charge state: %w", err)
	}
	tracker.SetInitialCharging(charging)
	log.Printf("initial state: %s (led=%s)", logic.StateOf(charging), capability)

	stat.OnEdge(sens.Notify)
	sens.Start()
	defer sens.Stop()

	sched := suppress.New(store, func() {
		apply(true)
		tracker.IncReasserts()
	}, msDur(cfg.Indicator.ActiveMs), msDur(cfg.Indicator.IdleMs))
	sched.Start()
	defer sched.Stop()

	bus := events.New()
	bridge := battery.NewBridge(store, level, cfg.Indicator.BatteryColoring, func() { apply(true) })
	unsub := bus.SubscribeBatteryState(func(e events.BatteryStateChanged) {
		tracker.SetBatteryPct(e.Percent)
		bridge.Handle(e)
	})
	defer unsub()

	if err := publisher.SubscribeBattery(func(pct int) {
		bus.PublishBatteryState(events.BatteryStateChanged{Percent: pct, Timestamp: time.Now()})
	}); err != nil {
		return fmt.Errorf("subscribe battery state: %w", err)
	}

	// Publish startup event with full status snapshot
	tracker.SetMQTTConnected(publisher.IsConnected())
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	if cfg.Web.Addr != "" {
		srv := web.New(cfg.Web.Addr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.Web.Addr)
	}

	// The unit file orders this service After= the status-display
	// daemon; READY marks the point where suppression owns the lines.
	if _, err := sddaemon.SdNotify(false, sddaemon.SdNotifyReady); err != nil {
		log.Printf("sd_notify: %v", err)
	}

	log.Printf("started: settle=%dms active=%dms idle=%dms broker=%s",
		cfg.Indicator.SettleMs, cfg.Indicator.ActiveMs, cfg.Indicator.IdleMs, cfg.MQTT.Broker)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return mainLoop(publisher, publisher, tracker, msDur(cfg.Indicator.HeartbeatMs), sigCh)
}

// mainLoop waits for shutdown and emits heartbeats. All the real work
// happens on the sensor worker, the suppression scheduler, and the
// event bus; this loop only reports liveness.
func mainLoop(publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, heartbeat time.Duration, sig <-chan os.Signal) error {
	var hb <-chan time.Time
	if heartbeat > 0 {
		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()
		hb = ticker.C
	}

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			if mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}
			snap := tracker.Snapshot()
			event := mqtt.SystemEvent{
				Timestamp:  snap.Now,
				Event:      "SHUTDOWN",
				Reason:     signalName,
				Retained:   true,
				RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", signalName),
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-hb:
			if mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}
			snap := tracker.Snapshot()
			log.Printf("heartbeat: uptime=%v charging=%v battery=%d",
				snap.Uptime().Truncate(time.Second), snap.Charging, snap.BatteryPct)
			hbEvent := mqtt.SystemEvent{
				Timestamp:  snap.Now,
				Event:      "HEARTBEAT",
				RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
			}
			if err := publisher.PublishSystem(hbEvent); err != nil {
				log.Printf("heartbeat publish error: %v", err)
			}
		}
	}
}

// openActuator resolves the LED capability once. All three lines, or
// none: anything in between is a wiring mistake we refuse to run with.
func openActuator(g config.GPIO) (indicator.Actuator, gpio.OutputLines, error) {
	if g.OutputPinCount() == 0 {
		log.Printf("no output pins configured, led control disabled")
		return indicator.NewNoop(), nil, nil
	}

	lines, err := gpio.NewRealOutputs(g.Chip, g.RedPin, g.GreenPin, g.BluePin)
	if errors.Is(err, gpio.ErrNoOutputs) {
		log.Printf("output lines unavailable, led control disabled: %v", err)
		return indicator.NewNoop(), nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("init output lines: %w", err)
	}
	return indicator.NewDriven(lines), lines, nil
}

func transitionEvent(charging bool, batteryPct int, now time.Time) logic.Event {
	typ := logic.EventChargeStop
	if charging {
		typ = logic.EventChargeStart
	}
	return logic.Event{
		Timestamp:  now,
		Type:       typ,
		State:      logic.StateOf(charging),
		BatteryPct: batteryPct,
	}
}

func statusConfig(cfg config.Config) status.Config {
	return status.Config{
		SettleMs:    cfg.Indicator.SettleMs,
		ActiveMs:    cfg.Indicator.ActiveMs,
		IdleMs:      cfg.Indicator.IdleMs,
		HeartbeatMs: cfg.Indicator.HeartbeatMs,
		ForceOff:    cfg.Indicator.ForceOff,
		FixedColor:  cfg.Indicator.FixedColor,
		BatteryClrs: cfg.Indicator.BatteryColoring,
		Broker:      cfg.MQTT.Broker,
		HTTPAddr:    cfg.Web.Addr,
	}
}

func msDur(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
