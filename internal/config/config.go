// Package config loads the daemon configuration from a TOML file.
// Configuration is resolved once at startup and immutable afterwards.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/sweeney/charge-indicator/internal/logic"
)

// Config is the full daemon configuration.
type Config struct {
	Indicator Indicator `toml:"indicator"`
	GPIO      GPIO      `toml:"gpio"`
	MQTT      MQTT      `toml:"mqtt"`
	Web       Web       `toml:"web"`
}

// Indicator configures the charging indication policy.
type Indicator struct {
	// Enabled gates the whole daemon; false means start and exit
	// successfully without touching any hardware.
	Enabled bool `toml:"enabled"`

	// ForceOff keeps the LED dark while charging instead of showing a
	// color (still suppresses the external display).
	ForceOff bool `toml:"force_off"`

	// FixedColor (0-7) is shown while charging when battery coloring
	// is disabled.
	FixedColor int `toml:"fixed_color"`

	// BatteryColoring selects the color from the battery percentage.
	BatteryColoring bool `toml:"battery_coloring"`

	Colors     Colors     `toml:"colors"`
	Thresholds Thresholds `toml:"thresholds"`

	// Timing, all in milliseconds.
	SettleMs    int `toml:"settle_ms"`     // post-edge debounce delay
	InitialMs   int `toml:"initial_ms"`    // gap between the two boot samples
	ActiveMs    int `toml:"active_ms"`     // suppression interval while charging
	IdleMs      int `toml:"idle_ms"`       // re-check interval while not charging
	HeartbeatMs int `toml:"heartbeat_ms"`  // system heartbeat (0 disables)
}

// Colors are the battery-level color codes (0-7 each).
type Colors struct {
	Critical int `toml:"critical"`
	Low      int `toml:"low"`
	Medium   int `toml:"medium"`
	High     int `toml:"high"`
	Missing  int `toml:"missing"`
}

// Thresholds are the exclusive upper-bound battery percentages.
type Thresholds struct {
	Critical int `toml:"critical"`
	Low      int `toml:"low"`
	High     int `toml:"high"`
}

// GPIO configures the chip and pin numbers (BCM numbering).
// An output pin set to -1 means that line is not wired.
type GPIO struct {
	Chip     string `toml:"chip"`
	StatPin  int    `toml:"stat_pin"`
	RedPin   int    `toml:"red_pin"`
	GreenPin int    `toml:"green_pin"`
	BluePin  int    `toml:"blue_pin"`
}

// MQTT configures the broker connection.
type MQTT struct {
	Broker string `toml:"broker"`
}

// Web configures the HTTP status server (empty addr disables it).
type Web struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Indicator: Indicator{
			Enabled:         true,
			ForceOff:        false,
			FixedColor:      int(logic.ColorMagenta),
			BatteryColoring: false,
			Colors: Colors{
				Critical: int(logic.ColorRed),
				Low:      int(logic.ColorYellow),
				Medium:   int(logic.ColorGreen),
				High:     int(logic.ColorWhite),
				Missing:  int(logic.ColorBlue),
			},
			Thresholds: Thresholds{
				Critical: 10,
				Low:      30,
				High:     80,
			},
			SettleMs:    8,
			InitialMs:   10,
			ActiveMs:    150,
			IdleMs:      1000,
			HeartbeatMs: 15 * 60 * 1000,
		},
		GPIO: GPIO{
			Chip:     "gpiochip0",
			StatPin:  17,
			RedPin:   23,
			GreenPin: 24,
			BluePin:  25,
		},
		MQTT: MQTT{
			Broker: "tcp://192.168.1.200:1883",
		},
		Web: Web{
			Addr: ":80",
		},
	}
}

// Load reads the TOML file at path over the defaults. A missing file is
// not an error: the defaults apply unchanged. A file that exists but
// fails to parse or validate is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, cfg.Validate()
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations the daemon cannot act on sensibly.
func (c Config) Validate() error {
	colors := []struct {
		name string
		code int
	}{
		{"fixed_color", c.Indicator.FixedColor},
		{"colors.critical", c.Indicator.Colors.Critical},
		{"colors.low", c.Indicator.Colors.Low},
		{"colors.medium", c.Indicator.Colors.Medium},
		{"colors.high", c.Indicator.Colors.High},
		{"colors.missing", c.Indicator.Colors.Missing},
	}
	for _, col := range colors {
		if col.code < 0 || col.code > 7 {
			return fmt.Errorf("%s: color code %d out of range [0,7]", col.name, col.code)
		}
	}

	th := c.Indicator.Thresholds
	if th.Critical <= 0 || th.Low <= th.Critical || th.High <= th.Low || th.High > 100 {
		return fmt.Errorf("thresholds must satisfy 0 < critical < low < high <= 100, got %d/%d/%d",
			th.Critical, th.Low, th.High)
	}

	if c.GPIO.Chip == "" {
		return fmt.Errorf("gpio.chip must not be empty")
	}
	if c.GPIO.StatPin < 0 {
		return fmt.Errorf("gpio.stat_pin is required")
	}

	if n := c.GPIO.OutputPinCount(); n != 0 && n != 3 {
		return fmt.Errorf("gpio: %d of 3 output pins configured; wire all three or none", n)
	}

	return nil
}

// OutputPinCount returns how many of the three output pins are
// configured (>= 0). Zero means the LED is deliberately not wired.
func (g GPIO) OutputPinCount() int {
	n := 0
	for _, pin := range []int{g.RedPin, g.GreenPin, g.BluePin} {
		if pin >= 0 {
			n++
		}
	}
	return n
}

// Policy converts the indicator configuration into the pure policy.
func (c Config) Policy() logic.Policy {
	ind := c.Indicator
	return logic.Policy{
		ForceOff:        ind.ForceOff,
		FixedColor:      logic.ColorCode(ind.FixedColor),
		BatteryColoring: ind.BatteryColoring,
		Critical:        logic.ColorCode(ind.Colors.Critical),
		Low:             logic.ColorCode(ind.Colors.Low),
		Medium:          logic.ColorCode(ind.Colors.Medium),
		High:            logic.ColorCode(ind.Colors.High),
		Missing:         logic.ColorCode(ind.Colors.Missing),
		CriticalPct:     ind.Thresholds.Critical,
		LowPct:          ind.Thresholds.Low,
		HighPct:         ind.Thresholds.High,
	}
}
