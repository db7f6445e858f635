package yarngpt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hallelx2/yarngpt-sdk/internal/backoff"
)

// RetryConfig controls retry behavior. It is immutable once handed to a
// client: every operation issued by that client shares the same read-only
// copy, so no synchronization is needed.
type RetryConfig struct {
	// MaxRetries is the number of additional attempts after the first.
	MaxRetries int
	// BackoffFactor is the exponential growth base, must be >= 1.
	BackoffFactor float64
	// MaxBackoff caps the computed delay.
	MaxBackoff time.Duration
	// RetryableStatuses lists HTTP status codes eligible for retry.
	RetryableStatuses []int
	// Jitter randomizes the delay within ±50% of the exponential value.
	Jitter bool
}

// DefaultRetryConfig returns the stock policy: 3 retries, factor 2, 60s cap,
// jitter on, retrying 429/500/502/503/504. Note that 429 responses are
// classified as QuotaExceeded ahead of status matching and therefore never
// actually retried; the status stays in the set for callers who substitute
// their own classification.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:        3,
		BackoffFactor:     2.0,
		MaxBackoff:        60 * time.Second,
		RetryableStatuses: []int{429, 500, 502, 503, 504},
		Jitter:            true,
	}
}

// Validate checks the configuration invariants. A client refuses to construct
// with an invalid config, so no retry loop ever runs with one.
func (c RetryConfig) Validate() error {
	if c.MaxRetries < 0 {
		return newError(KindValidation, 0, fmt.Sprintf("MaxRetries must be >= 0, got %d", c.MaxRetries), nil)
	}
	if c.BackoffFactor < 1 {
		return newError(KindValidation, 0, fmt.Sprintf("BackoffFactor must be >= 1, got %g", c.BackoffFactor), nil)
	}
	if c.MaxBackoff < 0 {
		return newError(KindValidation, 0, fmt.Sprintf("MaxBackoff must be >= 0, got %v", c.MaxBackoff), nil)
	}
	return nil
}

func (c RetryConfig) retryableStatus(code int) bool {
	for _, s := range c.RetryableStatuses {
		if s == code {
			return true
		}
	}
	return false
}

// CalculateBackoff returns the delay before retry number attempt (0-indexed):
// min(BackoffFactor^attempt seconds, MaxBackoff), multiplied by a uniform
// random factor in [0.5, 1.5) when jitter is enabled. With jitter disabled the
// result is exact and deterministic.
func CalculateBackoff(attempt int, config RetryConfig) time.Duration {
	return backoff.ForJitter(config.Jitter).Delay(attempt, config.BackoffFactor, config.MaxBackoff)
}

// ShouldRetry decides whether a failed attempt should be tried again. It is
// pure: no I/O, no mutation, so the policy is testable in isolation from any
// real network call.
//
// The attempt budget short-circuits before any classification. Terminal kinds
// (authentication, validation, quota, payment, permanent API) never retry
// regardless of status code, even when a custom retryable set contains their
// status: bad credentials, rejected input and an exhausted quota will not
// self-resolve by waiting. Network timeouts and connection failures always
// retry. Only transient errors consult the retryable status set.
func ShouldRetry(err error, attempt int, config RetryConfig) bool {
	if attempt >= config.MaxRetries {
		return false
	}

	var clientErr *Error
	if !errors.As(err, &clientErr) {
		return false
	}

	switch clientErr.Kind {
	case KindAuthentication, KindValidation, KindQuotaExceeded,
		KindPaymentRequired, KindPermanentAPI:
		return false
	case KindNetworkTimeout, KindNetworkFailure:
		return true
	}

	if clientErr.StatusCode > 0 {
		return config.retryableStatus(clientErr.StatusCode)
	}
	return false
}

// Operation is one unit of work wrapped by an Executor, typically a single
// HTTP call that either yields the response body or a classified error.
type Operation func(ctx context.Context) ([]byte, error)

// Executor applies a RetryConfig to an Operation. One executor is shared by
// the sequential and concurrent call paths; each Execute invocation owns its
// own attempt counter, so concurrent use is safe.
type Executor struct {
	config RetryConfig

	// sleep waits out a backoff delay; overridable in tests.
	sleep func(ctx context.Context, d time.Duration) error

	// onRetry is invoked before each backoff wait (metrics, debug logging).
	onRetry func(attempt int, delay time.Duration, err error)
}

// NewExecutor creates an executor for the given policy. The config is assumed
// validated; Client validates at construction.
func NewExecutor(config RetryConfig) *Executor {
	return &Executor{
		config: config,
		sleep:  sleepContext,
	}
}

// Execute runs op, retrying per policy. Attempt 0 calls op directly; on a
// retryable failure it waits the computed backoff and tries again. A
// non-retryable error propagates immediately with no delay. Once the budget is
// exhausted the last observed error surfaces verbatim, so callers see the
// original failure kind. Total attempts = MaxRetries+1 when every attempt
// fails transiently.
func (e *Executor) Execute(ctx context.Context, op Operation) ([]byte, error) {
	for attempt := 0; ; attempt++ {
		out, err := op(ctx)
		if err == nil {
			return out, nil
		}

		if !ShouldRetry(err, attempt, e.config) {
			return nil, err
		}

		delay := CalculateBackoff(attempt, e.config)
		if e.onRetry != nil {
			e.onRetry(attempt, delay, err)
		}
		if serr := e.sleep(ctx, delay); serr != nil {
			return nil, serr
		}
	}
}

// sleepContext blocks for d or until the context is cancelled, propagating
// cancellation instead of swallowing it.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
