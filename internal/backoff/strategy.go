package backoff

import (
	"math/rand"
	"time"
)

// Strategy defines the interface for backoff calculation algorithms.
type Strategy interface {
	// Delay returns the backoff duration before retry number attempt (0-indexed).
	Delay(attempt int, factor float64, max time.Duration) time.Duration
}

// Exponential implements plain exponential backoff: factor^attempt seconds,
// capped at max. Deterministic, which keeps it directly testable.
type Exponential struct{}

// Delay implements the Strategy interface.
func (Exponential) Delay(attempt int, factor float64, max time.Duration) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	// Prevent overflow by limiting attempt
	if attempt > 30 {
		attempt = 30
	}

	delay := time.Duration(Pow(factor, attempt) * float64(time.Second))
	if delay < 0 || delay > max {
		delay = max
	}
	return delay
}

// ExponentialJitter implements exponential backoff with uniform jitter: the
// exponential delay multiplied by a random factor in [0.5, 1.5). Jitter is
// applied after capping and may therefore exceed max by up to 50%, which
// spreads retry storms instead of synchronizing every client on the cap.
type ExponentialJitter struct{}

// Delay implements the Strategy interface.
func (ExponentialJitter) Delay(attempt int, factor float64, max time.Duration) time.Duration {
	base := Exponential{}.Delay(attempt, factor, max)
	return time.Duration(float64(base) * (0.5 + rand.Float64()))
}

// Pow computes base^exponent for non-negative integer exponents without
// pulling in math.Pow on the hot path.
func Pow(base float64, exponent int) float64 {
	result := 1.0
	for i := 0; i < exponent; i++ {
		result *= base
	}
	return result
}
