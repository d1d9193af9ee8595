package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	DefaultAttempts        = 3
	DefaultInitialInterval = 500 * time.Millisecond
)

// Policy configures exponential backoff for provider calls.
type Policy struct {
	Attempts        int
	InitialInterval time.Duration
}

func DefaultPolicy() Policy {
	return Policy{Attempts: DefaultAttempts, InitialInterval: DefaultInitialInterval}
}

// Do runs op until it succeeds, returns a permanent error, or runs out of attempts.
func Do[T any](ctx context.Context, p Policy, op func() (T, error)) (T, error) {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = DefaultAttempts
	}
	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	return backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(attempts)),
	)
}

// Permanent stops retrying and returns err as is.
func Permanent(err error) error {
	return backoff.Permanent(err)
}
