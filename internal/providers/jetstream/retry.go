package jetstream

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryDelay returns the redelivery delay after the given failed attempt: initial·2^(attempt-1)
func RetryDelay(initial time.Duration, attempt uint64) time.Duration {
	if attempt == 0 {
		attempt = 1
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = initial
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = 24 * time.Hour
	b.MaxElapsedTime = 0
	b.Reset()

	delay := initial
	for i := uint64(0); i < attempt; i++ {
		delay = b.NextBackOff()
	}

	return delay
}
