package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCooldownRemaining(t *testing.T) {
	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	window := 7 * 24 * time.Hour

	days, active := CooldownRemaining(nil, window, now)
	assert.False(t, active)
	assert.Zero(t, days)

	last := now.Add(-time.Hour)
	days, active = CooldownRemaining(&last, window, now)
	assert.True(t, active)
	assert.Equal(t, 7, days)

	last = now.Add(-window)
	_, active = CooldownRemaining(&last, window, now)
	assert.False(t, active, "no cooldown exactly at the window end")

	last = now.Add(-window + time.Second)
	days, active = CooldownRemaining(&last, window, now)
	assert.True(t, active)
	assert.Equal(t, 1, days, "a partial day rounds up")
}

func TestCooldownUntil(t *testing.T) {
	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

	_, active := CooldownUntil(nil, now)
	assert.False(t, active)

	end := now.Add(2*24*time.Hour + 5*time.Hour)
	days, active := CooldownUntil(&end, now)
	assert.True(t, active)
	assert.Equal(t, 3, days)

	past := now.Add(-time.Minute)
	_, active = CooldownUntil(&past, now)
	assert.False(t, active)
}

func TestCooldownNonIncreasing(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	window := 30 * 24 * time.Hour
	prev := 31
	for h := 0; h <= 31*24; h += 5 {
		days, active := CooldownRemaining(&start, window, start.Add(time.Duration(h)*time.Hour))
		if !active {
			assert.GreaterOrEqual(t, time.Duration(h)*time.Hour, window)
			continue
		}
		assert.Positive(t, days)
		assert.LessOrEqual(t, days, prev)
		prev = days
	}
}
