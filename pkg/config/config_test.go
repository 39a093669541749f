package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, StorageDriverLocal, cfg.Storage.Driver)
	assert.Equal(t, 30*24*time.Hour, cfg.Policy.UsernameCooldown)
	assert.Equal(t, 7*24*time.Hour, cfg.Policy.BirthdateCooldown)
	assert.Equal(t, 20, cfg.Policy.LeaderboardLimit)
	assert.Equal(t, int64(5*1024*1024), cfg.Storage.MaxFileSizeBytes)
	assert.Equal(t, []string{"image/jpeg", "image/png", "image/webp", "image/gif"}, cfg.Storage.AllowedMIMEs)
	assert.True(t, cfg.Cache.Enabled)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("USERNAME_COOLDOWN", "48h")
	v.Set("STORAGE_DRIVER", "S3")
	v.Set("STORAGE_PUBLIC_BASE_URL", "https://cdn.example.org/")
	v.Set("LEADERBOARD_LIMIT", 0)
	v.Set("STATS_CACHE_TTL", "not-a-duration")

	cfg := fromViper(v)

	assert.Equal(t, 48*time.Hour, cfg.Policy.UsernameCooldown)
	assert.Equal(t, StorageDriverS3, cfg.Storage.Driver)
	assert.Equal(t, "https://cdn.example.org", cfg.Storage.PublicBaseURL)
	assert.Equal(t, 20, cfg.Policy.LeaderboardLimit)
	assert.Equal(t, 5*time.Minute, cfg.Cache.StatsTTL)
}

func TestSplitAndTrim(t *testing.T) {
	assert.Nil(t, splitAndTrim(""))
	assert.Equal(t, []string{"a", "b"}, splitAndTrim(" a, ,b "))
}
