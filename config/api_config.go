package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Validation constants for APIConfig.
const (
	// MinRestPort is the minimum valid port number.
	MinRestPort = 1
	// MaxRestPort is the maximum valid port number.
	MaxRestPort = 65535

	// MinMaxRequestBodyBytes is the smallest allowed request body limit.
	MinMaxRequestBodyBytes = 1024
	// MaxMaxRequestBodyBytes is the largest allowed request body limit.
	MaxMaxRequestBodyBytes = 64 * 1024 * 1024

	// MaxRandomErrorPercent is the upper bound for RandomErrorPercent.
	MaxRandomErrorPercent = 100
)

// Validation constants for RateLimitConfig.
const (
	// MinAlertsPerSecond is the minimum allowed alerts per second rate.
	MinAlertsPerSecond = 0.001
	// MaxAlertsPerSecond is the maximum allowed alerts per second rate.
	MaxAlertsPerSecond = 1000

	// MinAllowedBurst is the minimum allowed burst size.
	MinAllowedBurst = 1
	// MaxAllowedBurst is the maximum allowed burst size.
	MaxAllowedBurst = 10000

	// MinMaxRequestWaitTime is the minimum allowed request wait time.
	MinMaxRequestWaitTime = 1 * time.Second
	// MaxMaxRequestWaitTime is the maximum allowed request wait time.
	MaxMaxRequestWaitTime = 5 * time.Minute
)

var validLogLevels = []string{"trace", "debug", "info", "warn", "error"}

// APIConfig holds configuration for the monitoring demo API.
// The values are read once at startup.
type APIConfig struct {
	// LogJSON indicates whether to log in JSON format.
	LogJSON bool `json:"logJson" yaml:"logJson"`

	// LogLevel is the minimum level written by the logger (trace, debug, info, warn or error).
	LogLevel string `json:"logLevel" yaml:"logLevel"`

	// Verbose enables pretty-printed responses and debug helpers such as the ping panic trigger.
	Verbose bool `json:"verbose" yaml:"verbose"`

	// RestPort is the port the REST API server listens on.
	RestPort string `json:"restPort" yaml:"restPort"`

	// TrustProxyHeaders makes the API take the client address from X-Forwarded-For and similar headers.
	// Only enable it behind a proxy that overwrites these headers.
	TrustProxyHeaders bool `json:"trustProxyHeaders" yaml:"trustProxyHeaders"`

	// MetricsPath is the path where the metrics registry is exposed for scraping.
	MetricsPath string `json:"metricsPath" yaml:"metricsPath"`

	// MaxRequestBodyBytes limits the size of POST bodies. Larger bodies are rejected with 413.
	MaxRequestBodyBytes int64 `json:"maxRequestBodyBytes" yaml:"maxRequestBodyBytes"`

	// RandomErrorPercent is the chance, in percent, that the random sample endpoint fails.
	RandomErrorPercent int `json:"randomErrorPercent" yaml:"randomErrorPercent"`

	// SlowEndpoint holds the delay range for the slow sample endpoint.
	SlowEndpoint *SlowEndpointConfig `json:"slowEndpoint" yaml:"slowEndpoint"`

	// RateLimitPerSeverity enables rate limiting of the alert webhooks, with one limiter per severity.
	// Nil disables rate limiting.
	RateLimitPerSeverity *RateLimitConfig `json:"rateLimitPerSeverity" yaml:"rateLimitPerSeverity"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	// AlertsPerSecond is the number of alerts allowed per second.
	AlertsPerSecond float64 `json:"alertsPerSecond" yaml:"alertsPerSecond"`

	// AllowedBurst is the maximum burst size.
	AllowedBurst int `json:"allowedBurst" yaml:"allowedBurst"`

	// MaxRequestWaitTime is the maximum time a request will wait for available rate limit tokens.
	MaxRequestWaitTime time.Duration `json:"maxRequestWaitTime" yaml:"maxRequestWaitTime"`
}

// Validate validates the RateLimitConfig and returns an error if any fields are invalid.
func (c *RateLimitConfig) Validate() error {
	if c.AlertsPerSecond < MinAlertsPerSecond || c.AlertsPerSecond > MaxAlertsPerSecond {
		return fmt.Errorf("alerts per second must be between %v and %v", MinAlertsPerSecond, MaxAlertsPerSecond)
	}

	if c.AllowedBurst < MinAllowedBurst || c.AllowedBurst > MaxAllowedBurst {
		return fmt.Errorf("allowed burst must be between %d and %d", MinAllowedBurst, MaxAllowedBurst)
	}

	if c.MaxRequestWaitTime < MinMaxRequestWaitTime || c.MaxRequestWaitTime > MaxMaxRequestWaitTime {
		return fmt.Errorf("max request wait time must be between %v and %v", MinMaxRequestWaitTime, MaxMaxRequestWaitTime)
	}

	return nil
}

// NewDefaultAPIConfig returns an APIConfig with default values.
func NewDefaultAPIConfig() *APIConfig {
	return &APIConfig{
		LogJSON:              true,
		LogLevel:             "info",
		Verbose:              false,
		RestPort:             "8080",
		TrustProxyHeaders:    false,
		MetricsPath:          "/metrics",
		MaxRequestBodyBytes:  1024 * 1024,
		RandomErrorPercent:   20,
		SlowEndpoint:         NewDefaultSlowEndpointConfig(),
		RateLimitPerSeverity: nil,
	}
}

// Validate validates the APIConfig and returns an error if any required fields are missing or invalid.
func (c *APIConfig) Validate() error {
	if err := c.validateRestPort(); err != nil {
		return err
	}

	if !isValidLogLevel(c.LogLevel) {
		return fmt.Errorf("log level must be one of %s", strings.Join(validLogLevels, ", "))
	}

	if !strings.HasPrefix(c.MetricsPath, "/") {
		return errors.New("metrics path must start with '/'")
	}

	if c.MaxRequestBodyBytes < MinMaxRequestBodyBytes || c.MaxRequestBodyBytes > MaxMaxRequestBodyBytes {
		return fmt.Errorf("max request body bytes must be between %d and %d", MinMaxRequestBodyBytes, MaxMaxRequestBodyBytes)
	}

	if c.RandomErrorPercent < 0 || c.RandomErrorPercent > MaxRandomErrorPercent {
		return fmt.Errorf("random error percent must be between 0 and %d", MaxRandomErrorPercent)
	}

	if c.SlowEndpoint == nil {
		return errors.New("slow endpoint config is required")
	}

	if err := c.SlowEndpoint.Validate(); err != nil {
		return fmt.Errorf("slow endpoint config is invalid: %w", err)
	}

	if c.RateLimitPerSeverity != nil {
		if err := c.RateLimitPerSeverity.Validate(); err != nil {
			return fmt.Errorf("rate limit config is invalid: %w", err)
		}
	}

	return nil
}

// validateRestPort validates that the REST port is a valid port number.
func (c *APIConfig) validateRestPort() error {
	if c.RestPort == "" {
		return errors.New("rest port is required")
	}

	port, err := strconv.Atoi(c.RestPort)
	if err != nil {
		return errors.New("rest port must be a valid number")
	}

	if port < MinRestPort || port > MaxRestPort {
		return fmt.Errorf("rest port must be between %d and %d", MinRestPort, MaxRestPort)
	}

	return nil
}

func isValidLogLevel(level string) bool {
	for _, l := range validLogLevels {
		if l == level {
			return true
		}
	}

	return false
}
