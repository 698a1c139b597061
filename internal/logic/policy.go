package logic

// InterpretRaw converts a raw STAT line level to a charging flag.
// The line is active-low: the charging chip drives it low (0) while
// charging and releases it (pull-up reads 1) otherwise.
func InterpretRaw(raw int) bool {
	return raw == 0
}

// InitialCharging combines the two boot-time samples into the initial
// charging state. Both samples must agree; disagreement means the line
// was still settling, so the conservative answer is "not charging".
func InitialCharging(c1, c2 bool) bool {
	return c1 && c2
}

// Unpack converts a color code to its channel vector.
// Codes outside [0,7] fall back to red, same as ColorRed.
func Unpack(code ColorCode) Channels {
	if code < 0 || code > 7 {
		code = ColorRed
	}
	return Channels{
		Red:   code&1 != 0,
		Green: code&2 != 0,
		Blue:  code&4 != 0,
	}
}

// SelectColor picks the charging color from the battery percentage.
// Thresholds are exclusive upper bounds evaluated in ascending order;
// a percentage outside [0,100] means the fuel gauge reading is missing.
// Only meaningful while charging; callers force all-off otherwise.
func (p Policy) SelectColor(batteryPct int) ColorCode {
	if !p.BatteryColoring {
		return p.FixedColor
	}
	if batteryPct < 0 || batteryPct > 100 {
		return p.Missing
	}
	switch {
	case batteryPct < p.CriticalPct:
		return p.Critical
	case batteryPct < p.LowPct:
		return p.Low
	case batteryPct < p.HighPct:
		return p.Medium
	default:
		return p.High
	}
}

// Channels computes the full actuation vector for a charging state.
// Not charging, or ForceOff while charging, both mean all channels off.
func (p Policy) Channels(charging bool, batteryPct int) Channels {
	if !charging || p.ForceOff {
		return Channels{}
	}
	return Unpack(p.SelectColor(batteryPct))
}
