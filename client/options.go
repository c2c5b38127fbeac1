package client

import "time"

type Option func(*options)

type options struct {
	retryCount       int
	retryWaitTime    time.Duration
	retryMaxWaitTime time.Duration
	requestTimeout   time.Duration
	skipPing         bool
}

func newClientOptions() *options {
	return &options{
		retryCount:       5,
		retryWaitTime:    500 * time.Millisecond,
		retryMaxWaitTime: 3 * time.Second,
		requestTimeout:   10 * time.Second,
	}
}

// WithRetryCount sets the number of retries after a failed attempt. Zero disables retries.
func WithRetryCount(count int) Option {
	return func(o *options) {
		o.retryCount = count
	}
}

func WithRetryWaitTime(d time.Duration) Option {
	return func(o *options) {
		o.retryWaitTime = d
	}
}

func WithRetryMaxWaitTime(d time.Duration) Option {
	return func(o *options) {
		o.retryMaxWaitTime = d
	}
}

// WithRequestTimeout sets the timeout of a single attempt.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *options) {
		o.requestTimeout = d
	}
}

// WithoutPing makes Connect skip the initial ping of the API.
func WithoutPing() Option {
	return func(o *options) {
		o.skipPing = true
	}
}
