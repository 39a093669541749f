package rules

import (
	"math"
	"time"
)

const day = 24 * time.Hour

// CooldownRemaining measures a cooldown that starts at last and lasts window.
// A nil last means the value was never set, so there is no cooldown.
func CooldownRemaining(last *time.Time, window time.Duration, now time.Time) (int, bool) {
	if last == nil {
		return 0, false
	}
	end := last.Add(window)
	return CooldownUntil(&end, now)
}

// CooldownUntil measures a cooldown ending at end. The remaining time is rounded
// up to whole days; at or after end there is no cooldown.
func CooldownUntil(end *time.Time, now time.Time) (int, bool) {
	if end == nil || !now.Before(*end) {
		return 0, false
	}
	remaining := end.Sub(now)
	return int(math.Ceil(float64(remaining) / float64(day))), true
}
