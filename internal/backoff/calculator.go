package backoff

import "time"

// Calculator computes retry delays using a configurable strategy. It
// centralizes backoff logic so the sequential and concurrent call paths share
// one implementation.
type Calculator struct {
	strategy Strategy
}

// NewCalculator creates a calculator with the specified strategy.
func NewCalculator(strategy Strategy) *Calculator {
	return &Calculator{strategy: strategy}
}

// ForJitter returns a calculator matching the jitter flag: exponential with
// uniform jitter when enabled, plain exponential otherwise.
func ForJitter(jitter bool) *Calculator {
	if jitter {
		return NewCalculator(ExponentialJitter{})
	}
	return NewCalculator(Exponential{})
}

// Delay computes the backoff duration for the given attempt and parameters.
func (c *Calculator) Delay(attempt int, factor float64, max time.Duration) time.Duration {
	return c.strategy.Delay(attempt, factor, max)
}

// Strategy returns the strategy in use.
func (c *Calculator) Strategy() Strategy {
	return c.strategy
}
