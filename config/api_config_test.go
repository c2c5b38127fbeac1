package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/peteraglen/unit-monitoring/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultAPIConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewDefaultAPIConfig()

	assert.True(t, cfg.LogJSON)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, "8080", cfg.RestPort)
	assert.False(t, cfg.TrustProxyHeaders)
	assert.Equal(t, "/metrics", cfg.MetricsPath)
	assert.Equal(t, int64(1024*1024), cfg.MaxRequestBodyBytes)
	assert.Equal(t, 20, cfg.RandomErrorPercent)
	assert.Nil(t, cfg.RateLimitPerSeverity)

	require.NotNil(t, cfg.SlowEndpoint)
	assert.Equal(t, 100*time.Millisecond, cfg.SlowEndpoint.MinDelay)
	assert.Equal(t, 2000*time.Millisecond, cfg.SlowEndpoint.MaxDelay)

	require.NoError(t, cfg.Validate())
}

func TestAPIConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		modify      func(*config.APIConfig)
		expectError string
	}{
		{
			name:        "valid config",
			modify:      func(c *config.APIConfig) {},
			expectError: "",
		},
		{
			name: "empty rest port",
			modify: func(c *config.APIConfig) {
				c.RestPort = ""
			},
			expectError: "rest port is required",
		},
		{
			name: "non-numeric rest port",
			modify: func(c *config.APIConfig) {
				c.RestPort = "http"
			},
			expectError: "rest port must be a valid number",
		},
		{
			name: "rest port out of range",
			modify: func(c *config.APIConfig) {
				c.RestPort = "70000"
			},
			expectError: "rest port must be between 1 and 65535",
		},
		{
			name: "invalid log level",
			modify: func(c *config.APIConfig) {
				c.LogLevel = "verbose"
			},
			expectError: "log level must be one of trace, debug, info, warn, error",
		},
		{
			name: "trace log level",
			modify: func(c *config.APIConfig) {
				c.LogLevel = "trace"
			},
			expectError: "",
		},
		{
			name: "metrics path without leading slash",
			modify: func(c *config.APIConfig) {
				c.MetricsPath = "metrics"
			},
			expectError: "metrics path must start with '/'",
		},
		{
			name: "request body limit too small",
			modify: func(c *config.APIConfig) {
				c.MaxRequestBodyBytes = 10
			},
			expectError: "max request body bytes must be between",
		},
		{
			name: "negative random error percent",
			modify: func(c *config.APIConfig) {
				c.RandomErrorPercent = -1
			},
			expectError: "random error percent must be between 0 and 100",
		},
		{
			name: "random error percent above 100",
			modify: func(c *config.APIConfig) {
				c.RandomErrorPercent = 101
			},
			expectError: "random error percent must be between 0 and 100",
		},
		{
			name: "nil slow endpoint config",
			modify: func(c *config.APIConfig) {
				c.SlowEndpoint = nil
			},
			expectError: "slow endpoint config is required",
		},
		{
			name: "inverted slow endpoint range",
			modify: func(c *config.APIConfig) {
				c.SlowEndpoint.MinDelay = time.Second
				c.SlowEndpoint.MaxDelay = time.Millisecond
			},
			expectError: "slow endpoint config is invalid: max delay must be at least 1ms greater than min delay",
		},
		{
			name: "valid rate limit",
			modify: func(c *config.APIConfig) {
				c.RateLimitPerSeverity = &config.RateLimitConfig{
					AlertsPerSecond:    5,
					AllowedBurst:       10,
					MaxRequestWaitTime: 2 * time.Second,
				}
			},
			expectError: "",
		},
		{
			name: "invalid rate limit",
			modify: func(c *config.APIConfig) {
				c.RateLimitPerSeverity = &config.RateLimitConfig{
					AlertsPerSecond:    5,
					AllowedBurst:       0,
					MaxRequestWaitTime: 2 * time.Second,
				}
			},
			expectError: "rate limit config is invalid: allowed burst must be between 1 and 10000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewDefaultAPIConfig()
			tt.modify(cfg)

			err := cfg.Validate()

			if tt.expectError == "" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
			}
		})
	}
}

func TestRateLimitConfig_Validate(t *testing.T) {
	t.Parallel()

	t.Run("alerts per second too low", func(t *testing.T) {
		t.Parallel()

		cfg := &config.RateLimitConfig{AlertsPerSecond: 0, AllowedBurst: 1, MaxRequestWaitTime: time.Second}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "alerts per second")
	})

	t.Run("wait time too long", func(t *testing.T) {
		t.Parallel()

		cfg := &config.RateLimitConfig{AlertsPerSecond: 1, AllowedBurst: 1, MaxRequestWaitTime: time.Hour}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max request wait time")
	})
}

func TestSlowEndpointConfig(t *testing.T) {
	t.Parallel()

	t.Run("delay range in milliseconds", func(t *testing.T) {
		t.Parallel()

		minDelay, maxDelay := config.NewDefaultSlowEndpointConfig().DelayRangeMillis()
		assert.Equal(t, 100, minDelay)
		assert.Equal(t, 2000, maxDelay)
	})

	t.Run("negative min delay", func(t *testing.T) {
		t.Parallel()

		cfg := &config.SlowEndpointConfig{MinDelay: -time.Millisecond, MaxDelay: time.Second}
		require.EqualError(t, cfg.Validate(), "min delay cannot be negative")
	})

	t.Run("max delay above cap", func(t *testing.T) {
		t.Parallel()

		cfg := &config.SlowEndpointConfig{MinDelay: 0, MaxDelay: 2 * time.Minute}
		require.EqualError(t, cfg.Validate(), "max delay cannot exceed 1m0s")
	})
}

func TestLoadAPIConfig(t *testing.T) {
	t.Parallel()

	t.Run("file values override defaults", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `
logJson: false
logLevel: trace
restPort: "9090"
randomErrorPercent: 50
slowEndpoint:
  maxDelay: 500ms
rateLimitPerSeverity:
  alertsPerSecond: 2
  allowedBurst: 4
  maxRequestWaitTime: 3s
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		cfg, err := config.LoadAPIConfig(path)
		require.NoError(t, err)

		assert.False(t, cfg.LogJSON)
		assert.Equal(t, "trace", cfg.LogLevel)
		assert.Equal(t, "9090", cfg.RestPort)
		assert.Equal(t, 50, cfg.RandomErrorPercent)
		assert.Equal(t, "/metrics", cfg.MetricsPath)
		assert.Equal(t, 100*time.Millisecond, cfg.SlowEndpoint.MinDelay)
		assert.Equal(t, 500*time.Millisecond, cfg.SlowEndpoint.MaxDelay)

		require.NotNil(t, cfg.RateLimitPerSeverity)
		assert.InDelta(t, 2.0, cfg.RateLimitPerSeverity.AlertsPerSecond, 0.001)
		assert.Equal(t, 4, cfg.RateLimitPerSeverity.AllowedBurst)
		assert.Equal(t, 3*time.Second, cfg.RateLimitPerSeverity.MaxRequestWaitTime)

		require.NoError(t, cfg.Validate())
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := config.LoadAPIConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("restPort: [unclosed"), 0o600))

		_, err := config.LoadAPIConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}
