package restapi

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/time/rate"
)

var ErrRateLimit = errors.New("rate limit exceeded")

// waitForRateLimit waits for a token from the limiter of the given severity. It returns nil right away
// if rate limiting is disabled.
func (s *Server) waitForRateLimit(ctx context.Context, severity Severity) error {
	if s.cfg.RateLimitPerSeverity == nil {
		return nil
	}

	limiter := s.getRateLimiter(severity)

	timeoutCtx, cancel := context.WithTimeout(ctx, s.cfg.RateLimitPerSeverity.MaxRequestWaitTime)
	defer cancel()

	if err := limiter.Wait(timeoutCtx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "rate") {
			return ErrRateLimit
		}

		return fmt.Errorf("failed to wait for rate limit: %w", err)
	}

	return nil
}

func (s *Server) getRateLimiter(severity Severity) *rate.Limiter {
	s.limitersLock.Lock()
	defer s.limitersLock.Unlock()

	limiter, ok := s.limitersBySeverity[severity]

	if !ok {
		limiter = rate.NewLimiter(rate.Limit(s.cfg.RateLimitPerSeverity.AlertsPerSecond), s.cfg.RateLimitPerSeverity.AllowedBurst)
		s.limitersBySeverity[severity] = limiter
	}

	return limiter
}
