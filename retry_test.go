package yarngpt

import (
	"context"
	"errors"
	"testing"
	"time"
)

func noSleep(ctx context.Context, d time.Duration) error { return nil }

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.BackoffFactor != 2.0 {
		t.Errorf("BackoffFactor = %v, want 2.0", cfg.BackoffFactor)
	}
	if cfg.MaxBackoff != 60*time.Second {
		t.Errorf("MaxBackoff = %v, want 60s", cfg.MaxBackoff)
	}
	if !cfg.Jitter {
		t.Error("Jitter should default to true")
	}
	for _, status := range []int{429, 500, 502, 503, 504} {
		if !cfg.retryableStatus(status) {
			t.Errorf("status %d should be retryable by default", status)
		}
	}
	if cfg.retryableStatus(400) {
		t.Error("status 400 must not be retryable")
	}
}

func TestRetryConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RetryConfig)
		wantErr bool
	}{
		{"default is valid", func(c *RetryConfig) {}, false},
		{"zero retries is valid", func(c *RetryConfig) { c.MaxRetries = 0 }, false},
		{"negative retries", func(c *RetryConfig) { c.MaxRetries = -1 }, true},
		{"factor below one", func(c *RetryConfig) { c.BackoffFactor = 0.5 }, true},
		{"negative max backoff", func(c *RetryConfig) { c.MaxBackoff = -10 * time.Second }, true},
		{"factor exactly one", func(c *RetryConfig) { c.BackoffFactor = 1 }, false},
		{"zero max backoff", func(c *RetryConfig) { c.MaxBackoff = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultRetryConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr && !errors.Is(err, ErrValidation) {
				t.Errorf("expected Validation kind, got %v", err)
			}
		})
	}
}

func TestCalculateBackoffDeterministic(t *testing.T) {
	cfg := DefaultRetryConfig()
	cfg.Jitter = false

	expected := []time.Duration{
		time.Second,      // 2^0
		2 * time.Second,  // 2^1
		4 * time.Second,  // 2^2
		8 * time.Second,  // 2^3
		16 * time.Second, // 2^4
		32 * time.Second, // 2^5
		60 * time.Second, // 2^6 capped
		60 * time.Second, // 2^7 capped
	}
	for attempt, want := range expected {
		if got := CalculateBackoff(attempt, cfg); got != want {
			t.Errorf("CalculateBackoff(%d) = %v, want %v", attempt, got, want)
		}
	}
}

func TestCalculateBackoffJitterBounds(t *testing.T) {
	cfg := DefaultRetryConfig()
	base := 4 * time.Second // 2^2

	lo := time.Duration(float64(base) * 0.5)
	hi := time.Duration(float64(base) * 1.5)
	for i := 0; i < 100; i++ {
		got := CalculateBackoff(2, cfg)
		if got < lo || got > hi {
			t.Fatalf("CalculateBackoff(2) = %v outside [%v, %v]", got, lo, hi)
		}
	}
}

func TestShouldRetryBudgetExhausted(t *testing.T) {
	cfg := DefaultRetryConfig()

	// Budget check short-circuits before any classification, so even
	// always-retryable kinds are refused.
	kinds := []ErrorKind{
		KindAuthentication, KindValidation, KindQuotaExceeded, KindPaymentRequired,
		KindTransient, KindPermanentAPI, KindNetworkTimeout, KindNetworkFailure,
	}
	for _, kind := range kinds {
		err := newError(kind, 500, "test", nil)
		if ShouldRetry(err, cfg.MaxRetries, cfg) {
			t.Errorf("ShouldRetry(%s, attempt=maxRetries) = true, want false", kind)
		}
	}
}

func TestShouldRetryTerminalKinds(t *testing.T) {
	cfg := DefaultRetryConfig()

	// Auth and quota never retry, even with full budget and a status code
	// that sits in the retryable set.
	auth := newError(KindAuthentication, 401, "invalid API key", nil)
	if ShouldRetry(auth, 0, cfg) {
		t.Error("authentication errors must not retry")
	}
	quota := newError(KindQuotaExceeded, 429, "daily quota exceeded", nil)
	if ShouldRetry(quota, 0, cfg) {
		t.Error("quota errors must not retry despite 429 being in the retryable set")
	}
}

func TestShouldRetryTerminalKindsIgnoreCustomStatusSet(t *testing.T) {
	// A caller may widen RetryableStatuses onto statuses that classify as
	// terminal kinds. Kind wins: only transient errors consult the set.
	cfg := DefaultRetryConfig()
	cfg.RetryableStatuses = []int{400, 402, 418, 500}

	terminal := []*Error{
		newError(KindValidation, 400, "bad request", nil),
		newError(KindPaymentRequired, 402, "payment required", nil),
		newError(KindPermanentAPI, 418, "teapot", nil),
	}
	for _, err := range terminal {
		if ShouldRetry(err, 0, cfg) {
			t.Errorf("%s (status %d) must not retry even with the status in the set",
				err.Kind, err.StatusCode)
		}
	}

	// Transient errors still honor the widened set.
	if !ShouldRetry(newError(KindTransient, 500, "server error", nil), 0, cfg) {
		t.Error("transient status 500 should retry")
	}
}

func TestShouldRetryNetworkKinds(t *testing.T) {
	cfg := DefaultRetryConfig()

	if !ShouldRetry(newError(KindNetworkTimeout, 0, "timed out", nil), 0, cfg) {
		t.Error("network timeouts should retry")
	}
	if !ShouldRetry(newError(KindNetworkFailure, 0, "connection refused", nil), 2, cfg) {
		t.Error("network failures should retry while within budget")
	}
}

func TestShouldRetryStatusMembership(t *testing.T) {
	cfg := DefaultRetryConfig()

	for _, status := range []int{429, 500, 502, 503, 504} {
		err := newError(KindTransient, status, "server error", nil)
		if !ShouldRetry(err, 0, cfg) {
			t.Errorf("status %d should retry", status)
		}
	}

	if ShouldRetry(newError(KindValidation, 400, "bad request", nil), 0, cfg) {
		t.Error("status 400 must not retry")
	}
	if ShouldRetry(newError(KindPermanentAPI, 418, "teapot", nil), 0, cfg) {
		t.Error("status outside the retryable set must not retry")
	}

	// A narrowed set excludes statuses the default would have retried.
	cfg.RetryableStatuses = []int{503}
	if ShouldRetry(newError(KindTransient, 500, "server error", nil), 0, cfg) {
		t.Error("status 500 must not retry when not in the configured set")
	}
}

func TestShouldRetryStatuslessAndForeignErrors(t *testing.T) {
	cfg := DefaultRetryConfig()

	// Local validation carries no status and is terminal.
	if ShouldRetry(newError(KindValidation, 0, "text cannot be empty", nil), 0, cfg) {
		t.Error("statusless validation errors must not retry")
	}
	if ShouldRetry(errors.New("not an SDK error"), 0, cfg) {
		t.Error("unclassified errors must not retry")
	}
}

func TestExecutorSucceedsFirstAttempt(t *testing.T) {
	e := NewExecutor(DefaultRetryConfig())
	e.sleep = noSleep

	calls := 0
	out, err := e.Execute(context.Background(), func(ctx context.Context) ([]byte, error) {
		calls++
		return []byte("audio"), nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "audio" {
		t.Errorf("out = %q", out)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestExecutorRecoversAfterTransientFailures(t *testing.T) {
	cfg := DefaultRetryConfig()
	cfg.MaxRetries = 3
	e := NewExecutor(cfg)
	e.sleep = noSleep

	calls := 0
	out, err := e.Execute(context.Background(), func(ctx context.Context) ([]byte, error) {
		calls++
		if calls <= 2 {
			return nil, newError(KindNetworkTimeout, 0, "request timed out", nil)
		}
		return []byte("audio"), nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "audio" {
		t.Errorf("out = %q", out)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestExecutorExhaustsBudget(t *testing.T) {
	cfg := DefaultRetryConfig()
	cfg.MaxRetries = 2
	e := NewExecutor(cfg)
	e.sleep = noSleep

	timeoutErr := newError(KindNetworkTimeout, 0, "request timed out", nil)
	calls := 0
	_, err := e.Execute(context.Background(), func(ctx context.Context) ([]byte, error) {
		calls++
		return nil, timeoutErr
	})
	if calls != 3 {
		t.Errorf("calls = %d, want 3 (1 initial + 2 retries)", calls)
	}
	// The last observed error surfaces verbatim, not wrapped.
	if err != timeoutErr {
		t.Errorf("err = %v, want the original timeout error", err)
	}
}

func TestExecutorTerminalErrorNoRetry(t *testing.T) {
	cfg := DefaultRetryConfig()
	cfg.MaxRetries = 3
	e := NewExecutor(cfg)
	e.sleep = func(ctx context.Context, d time.Duration) error {
		t.Fatal("sleep must not be called for a terminal error")
		return nil
	}

	calls := 0
	_, err := e.Execute(context.Background(), func(ctx context.Context) ([]byte, error) {
		calls++
		return nil, newError(KindAuthentication, 401, "invalid API key", nil)
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if !errors.Is(err, ErrAuthentication) {
		t.Errorf("err = %v, want Authentication", err)
	}
}

func TestExecutorTerminalErrorNoRetryWithMatchingStatusSet(t *testing.T) {
	cfg := DefaultRetryConfig()
	cfg.MaxRetries = 2
	cfg.RetryableStatuses = []int{402}
	e := NewExecutor(cfg)
	e.sleep = func(ctx context.Context, d time.Duration) error {
		t.Fatal("sleep must not be called for a terminal error")
		return nil
	}

	calls := 0
	_, err := e.Execute(context.Background(), func(ctx context.Context) ([]byte, error) {
		calls++
		return nil, newError(KindPaymentRequired, 402, "payment required", nil)
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (payment errors are terminal)", calls)
	}
	if !errors.Is(err, ErrPaymentRequired) {
		t.Errorf("err = %v, want PaymentRequired", err)
	}
}

func TestExecutorZeroRetries(t *testing.T) {
	cfg := DefaultRetryConfig()
	cfg.MaxRetries = 0
	e := NewExecutor(cfg)
	e.sleep = noSleep

	calls := 0
	_, err := e.Execute(context.Background(), func(ctx context.Context) ([]byte, error) {
		calls++
		return nil, newError(KindTransient, 503, "server error", nil)
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if !errors.Is(err, ErrTransient) {
		t.Errorf("err = %v, want Transient", err)
	}
}

func TestExecutorBackoffCancellation(t *testing.T) {
	cfg := DefaultRetryConfig()
	cfg.Jitter = false
	cfg.MaxRetries = 5
	e := NewExecutor(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := e.Execute(ctx, func(ctx context.Context) ([]byte, error) {
		return nil, newError(KindNetworkFailure, 0, "connection refused", nil)
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	// The first backoff alone would be 1s; cancellation must cut it short.
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("cancellation took %v, backoff wait was not interrupted", elapsed)
	}
}

func TestExecutorOnRetryHook(t *testing.T) {
	cfg := DefaultRetryConfig()
	cfg.MaxRetries = 2
	e := NewExecutor(cfg)
	e.sleep = noSleep

	var attempts []int
	e.onRetry = func(attempt int, delay time.Duration, err error) {
		attempts = append(attempts, attempt)
	}

	_, _ = e.Execute(context.Background(), func(ctx context.Context) ([]byte, error) {
		return nil, newError(KindNetworkFailure, 0, "down", nil)
	})
	if len(attempts) != 2 {
		t.Fatalf("onRetry called %d times, want 2", len(attempts))
	}
	if attempts[0] != 0 || attempts[1] != 1 {
		t.Errorf("attempts = %v, want [0 1]", attempts)
	}
}
