package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sweeney/charge-indicator/internal/logic"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Indicator.FixedColor != int(logic.ColorMagenta) {
		t.Errorf("expected default fixed color, got %d", cfg.Indicator.FixedColor)
	}
	if cfg.GPIO.Chip != "gpiochip0" {
		t.Errorf("expected default chip, got %q", cfg.GPIO.Chip)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[indicator]
enabled = true
force_off = false
fixed_color = 2
battery_coloring = true
active_ms = 100

[indicator.thresholds]
critical = 15
low = 40
high = 85

[gpio]
chip = "gpiochip4"
stat_pin = 5
red_pin = 6
green_pin = 7
blue_pin = 8

[mqtt]
broker = "tcp://10.0.0.1:1883"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Indicator.FixedColor != 2 {
		t.Errorf("fixed_color: got %d, want 2", cfg.Indicator.FixedColor)
	}
	if !cfg.Indicator.BatteryColoring {
		t.Error("battery_coloring should be true")
	}
	if cfg.Indicator.ActiveMs != 100 {
		t.Errorf("active_ms: got %d, want 100", cfg.Indicator.ActiveMs)
	}
	if cfg.Indicator.Thresholds.Low != 40 {
		t.Errorf("thresholds.low: got %d, want 40", cfg.Indicator.Thresholds.Low)
	}
	// Unspecified sections keep defaults.
	if cfg.Indicator.IdleMs != 1000 {
		t.Errorf("idle_ms: got %d, want default 1000", cfg.Indicator.IdleMs)
	}
	if cfg.GPIO.Chip != "gpiochip4" {
		t.Errorf("chip: got %q", cfg.GPIO.Chip)
	}
	if cfg.MQTT.Broker != "tcp://10.0.0.1:1883" {
		t.Errorf("broker: got %q", cfg.MQTT.Broker)
	}
}

func TestLoadRejectsBadTOML(t *testing.T) {
	path := writeConfig(t, `[indicator`)
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidateRejectsBadColor(t *testing.T) {
	cfg := Default()
	cfg.Indicator.Colors.Low = 9
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "colors.low") {
		t.Errorf("error should name the failing field: %v", err)
	}
}

func TestValidateRejectsBadThresholds(t *testing.T) {
	cases := []Thresholds{
		{Critical: 0, Low: 30, High: 80},   // critical not positive
		{Critical: 30, Low: 10, High: 80},  // not ascending
		{Critical: 10, Low: 30, High: 30},  // high == low
		{Critical: 10, Low: 30, High: 120}, // high above 100
	}
	for _, th := range cases {
		cfg := Default()
		cfg.Indicator.Thresholds = th
		if cfg.Validate() == nil {
			t.Errorf("thresholds %+v should be rejected", th)
		}
	}
}

func TestValidateRejectsPartialOutputWiring(t *testing.T) {
	cfg := Default()
	cfg.GPIO.GreenPin = -1
	if cfg.Validate() == nil {
		t.Error("partial output wiring should be rejected")
	}
}

func TestValidateAcceptsNoOutputs(t *testing.T) {
	cfg := Default()
	cfg.GPIO.RedPin = -1
	cfg.GPIO.GreenPin = -1
	cfg.GPIO.BluePin = -1
	if err := cfg.Validate(); err != nil {
		t.Errorf("all outputs unwired is a supported deployment: %v", err)
	}
	if cfg.GPIO.OutputPinCount() != 0 {
		t.Errorf("OutputPinCount: got %d, want 0", cfg.GPIO.OutputPinCount())
	}
}

func TestOutputPinCount(t *testing.T) {
	g := GPIO{RedPin: 1, GreenPin: 2, BluePin: 3}
	if g.OutputPinCount() != 3 {
		t.Errorf("got %d, want 3", g.OutputPinCount())
	}
	g.BluePin = -1
	if g.OutputPinCount() != 2 {
		t.Errorf("got %d, want 2", g.OutputPinCount())
	}
}

func TestPolicyMapping(t *testing.T) {
	cfg := Default()
	cfg.Indicator.BatteryColoring = true
	p := cfg.Policy()

	if p.FixedColor != logic.ColorMagenta {
		t.Errorf("FixedColor: got %d", p.FixedColor)
	}
	if !p.BatteryColoring {
		t.Error("BatteryColoring should map through")
	}
	if p.CriticalPct != 10 || p.LowPct != 30 || p.HighPct != 80 {
		t.Errorf("thresholds: got %d/%d/%d", p.CriticalPct, p.LowPct, p.HighPct)
	}
	if p.Critical != logic.ColorRed || p.Missing != logic.ColorBlue {
		t.Errorf("colors: critical=%d missing=%d", p.Critical, p.Missing)
	}
}
