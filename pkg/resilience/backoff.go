package resilience

import (
	"math"
	"math/rand"
	"time"
)

// BackoffStrategy returns how long to wait before the next attempt
type BackoffStrategy interface {
	NextDelay(attempt int) time.Duration
}

// ExponentialBackoff grows the delay by Multiplier per attempt up to MaxDelay,
// then spreads it by ±Jitter (a fraction of the delay)
type ExponentialBackoff struct {
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Multiplier float64
	Jitter     float64
}

// StatusPollBackoff is the schedule for checking on a payment while the
// customer finishes checkout: 2s, 4s, 8s, 16s, 32s, then every 60s.
func StatusPollBackoff() *ExponentialBackoff {
	return &ExponentialBackoff{
		BaseDelay:  2 * time.Second,
		MaxDelay:   time.Minute,
		Multiplier: 2,
		Jitter:     0.1,
	}
}

// NextDelay returns the delay after the given 0-indexed attempt
func (b *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	if attempt < 0 {
		return b.BaseDelay
	}

	delay := math.Min(
		float64(b.BaseDelay)*math.Pow(b.Multiplier, float64(attempt)),
		float64(b.MaxDelay),
	)
	if b.Jitter > 0 {
		delay += (rand.Float64()*2 - 1) * delay * b.Jitter
	}
	if delay < 0 {
		return b.BaseDelay
	}
	return time.Duration(delay)
}

// FixedBackoff waits the same Delay between every attempt
type FixedBackoff struct {
	Delay time.Duration
}

// NextDelay returns Delay
func (b *FixedBackoff) NextDelay(int) time.Duration {
	return b.Delay
}
