package config

import (
	"errors"
	"fmt"
	"time"
)

// MaxSlowEndpointDelay caps the configurable delay of the slow sample endpoint.
const MaxSlowEndpointDelay = time.Minute

// SlowEndpointConfig holds the delay range of the slow sample endpoint.
// The delay is drawn uniformly from [MinDelay, MaxDelay), in whole milliseconds.
type SlowEndpointConfig struct {
	MinDelay time.Duration `json:"minDelay" yaml:"minDelay"`
	MaxDelay time.Duration `json:"maxDelay" yaml:"maxDelay"`
}

// NewDefaultSlowEndpointConfig returns the default delay range of 100ms to 2s.
func NewDefaultSlowEndpointConfig() *SlowEndpointConfig {
	return &SlowEndpointConfig{
		MinDelay: 100 * time.Millisecond,
		MaxDelay: 2000 * time.Millisecond,
	}
}

// Validate validates the SlowEndpointConfig.
func (c *SlowEndpointConfig) Validate() error {
	if c.MinDelay < 0 {
		return errors.New("min delay cannot be negative")
	}

	if c.MaxDelay-c.MinDelay < time.Millisecond {
		return errors.New("max delay must be at least 1ms greater than min delay")
	}

	if c.MaxDelay > MaxSlowEndpointDelay {
		return fmt.Errorf("max delay cannot exceed %v", MaxSlowEndpointDelay)
	}

	return nil
}

// DelayRangeMillis returns the delay range in milliseconds, as [min, max).
func (c *SlowEndpointConfig) DelayRangeMillis() (int, int) {
	return int(c.MinDelay.Milliseconds()), int(c.MaxDelay.Milliseconds())
}
