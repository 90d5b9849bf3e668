package backend

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"meetify/domain"
)

// retryStep is the base delay between attempts: the n-th wait is
// n × retryStep.
const retryStep = 500 * time.Millisecond

// linearBackoff waits step, 2×step, 3×step, ... between attempts.
type linearBackoff struct {
	step    time.Duration
	attempt int
}

func (b *linearBackoff) NextBackOff() time.Duration {
	b.attempt++
	return time.Duration(b.attempt) * b.step
}

func (b *linearBackoff) Reset() {
	b.attempt = 0
}

// retryTransient runs op up to attempts times with linearly increasing
// delay. Only domain.ErrTransient is retried; everything else aborts
// immediately.
func retryTransient(ctx context.Context, attempts uint64, op func() error) error {
	wrapped := func() error {
		err := op()
		if err != nil && !errors.Is(err, domain.ErrTransient) {
			return backoff.Permanent(err)
		}
		return err
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(&linearBackoff{step: retryStep}, attempts-1),
		ctx,
	)
	return backoff.Retry(wrapped, policy)
}
