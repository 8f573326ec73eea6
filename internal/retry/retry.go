// Package retry runs blocking service calls under a bounded exponential backoff.
package retry

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/nguyentantai21042004/course-scribe/internal/errors"
)

// Policy bounds how often and how patiently a call is retried.
type Policy struct {
	MaxAttempts    int           `yaml:"max_attempts"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
	Multiplier     float64       `yaml:"multiplier"`
}

// DefaultPolicy returns three attempts starting at one second.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:    3,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     10 * time.Second,
		Multiplier:     2.0,
	}
}

// Backoff returns the wait before the given retry (0 is the first retry).
func (p Policy) Backoff(retry int) time.Duration {
	backoff := p.InitialBackoff
	for i := 0; i < retry; i++ {
		backoff = time.Duration(float64(backoff) * p.Multiplier)
		if p.MaxBackoff > 0 && backoff > p.MaxBackoff {
			return p.MaxBackoff
		}
	}
	return backoff
}

// Do calls fn until it succeeds, fails permanently, or attempts run out.
// Transient failures are retried; everything that still fails is returned as an
// ExternalServiceError for op.
func Do(ctx context.Context, p Policy, op string, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return apperrors.ExternalService(op, fmt.Errorf("cancelled during backoff: %w (last error: %v)", ctx.Err(), lastErr))
			case <-time.After(p.Backoff(attempt - 1)):
			}
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !apperrors.IsTransient(err) {
			return apperrors.ExternalService(op, err)
		}
	}

	return apperrors.ExternalService(op, fmt.Errorf("giving up after %d attempts: %w", attempts, lastErr))
}
