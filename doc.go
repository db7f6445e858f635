// Package yarngpt is the Go SDK for the YarnGPT text-to-speech API, built
// around a resilient request execution core:
//
//   - Closed error taxonomy separating terminal failures (authentication,
//     validation, quota, payment) from transient ones (timeouts, 5xx, network)
//   - Retries with exponential backoff and jitter, applied identically to
//     single conversions and batch fan-out
//   - Sequential and concurrent batch modes with input-order results and an
//     optional per-item result-collecting variant
//   - Optional token bucket rate limiting to guard the daily request quota
//   - Prometheus metrics and lightweight structured debug logging
//
// Design goals:
//   - Small surface area: functional options configure everything
//   - One retry policy shared by every call path, never duplicated
//   - Safe concurrent use of a single *Client instance
//   - Extensibility via pluggable logger, metrics and HTTP client
//
// Typical usage:
//
//	client, err := yarngpt.New("your_api_key",
//	    yarngpt.WithRetryConfig(yarngpt.DefaultRetryConfig()),
//	    yarngpt.WithMetrics(),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	audio, err := client.TextToSpeech(ctx, "Welcome to Nigeria!",
//	    yarngpt.WithVoice(yarngpt.VoiceIdera),
//	    yarngpt.WithResponseFormat(yarngpt.FormatMP3),
//	)
//
// Only timeouts, connection failures and retryable status codes trigger
// retries; everything else surfaces on first occurrence. The library stays
// quiet by default: provide a Logger (e.g. via WithSimpleLogger) and enable
// debug flags selectively (WithDebug / WithDebugConfig) for insight without
// noise.
package yarngpt
