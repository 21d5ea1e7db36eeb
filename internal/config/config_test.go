package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViper(overrides map[string]any) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

func TestFromViperAppliesDefaults(t *testing.T) {
	cfg, err := fromViper(newTestViper(map[string]any{
		"base_url":  "https://api.example.com/",
		"resources": " branches/1, ,branches/2 ",
	}))
	require.NoError(t, err)

	assert.Equal(t, "branch-sync", cfg.AppName)
	assert.Equal(t, "json", cfg.Serialization)
	assert.Equal(t, []string{"branches/1", "branches/2"}, cfg.Resources)
	assert.Equal(t, time.Duration(0), cfg.RequestTimeout)
	assert.Equal(t, 60*time.Second, cfg.PollInterval)
	assert.Equal(t, 16*time.Millisecond, cfg.FrameInterval)
	assert.Equal(t, 24*time.Hour, cfg.StorageTTL)
	assert.False(t, cfg.HasAuthToken())
}

func TestFromViperRequiresAbsoluteBaseURL(t *testing.T) {
	_, err := fromViper(newTestViper(nil))
	require.Error(t, err)

	_, err = fromViper(newTestViper(map[string]any{"base_url": "branches/"}))
	require.ErrorContains(t, err, "absolute URI")
}

func TestFromViperRejectsNonPositiveIntervals(t *testing.T) {
	_, err := fromViper(newTestViper(map[string]any{
		"base_url":      "https://api.example.com/",
		"poll_interval": 0,
	}))
	require.ErrorContains(t, err, "poll_interval")

	_, err = fromViper(newTestViper(map[string]any{
		"base_url":          "https://api.example.com/",
		"frame_interval_ms": -1,
	}))
	require.ErrorContains(t, err, "frame_interval_ms")
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("BASE_URL", "https://api.example.com/")
	t.Setenv("AUTH_TOKEN", "abc123")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/", cfg.BaseURL)
	assert.True(t, cfg.HasAuthToken())
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
}
