package yarngpt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"
)

const (
	// DefaultBaseURL is the production API endpoint.
	DefaultBaseURL = "https://yarngpt.ai/api/v1"
	// MaxTextLength is the per-request text limit in characters.
	MaxTextLength = 2000
	// EnvAPIKey is the environment variable consulted when no key is passed.
	EnvAPIKey = "YARNGPT_API_KEY"

	defaultTimeout = 30 * time.Second
)

// quotaExceededMessage is the fixed fallback for 429 responses without a
// usable error body.
const quotaExceededMessage = "Daily API quota exceeded. " +
	"YarnGPT free tier limits: 80 TTS requests/day. " +
	"Please wait 24 hours or upgrade your account at https://yarngpt.ai/account"

// Client is a resilient YarnGPT text-to-speech API client. It layers retries,
// optional rate limiting, metrics and debug logging around one JSON POST
// endpoint. It is safe for concurrent use: the retry config is read-only and
// every conversion owns its own attempt state.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	timeout     time.Duration
	retry       RetryConfig
	executor    *Executor
	rateLimiter *RateLimiter
	metrics     *MetricsCollector
	logger      Logger
	debug       *DebugConfig
}

// New constructs a Client using the provided functional options. An empty
// apiKey falls back to the YARNGPT_API_KEY environment variable. Construction
// fails fast on a missing key or an invalid retry configuration, so no request
// ever runs under an invalid policy.
func New(apiKey string, options ...Option) (*Client, error) {
	if apiKey == "" {
		apiKey = os.Getenv(EnvAPIKey)
	}
	if apiKey == "" {
		return nil, newError(KindAuthentication, 0,
			"API key is required: set "+EnvAPIKey+" or pass the key to New", nil)
	}

	client := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		timeout:    defaultTimeout,
		retry:      DefaultRetryConfig(),
		debug:      DefaultDebugConfig(),
	}

	for _, option := range options {
		option(client)
	}

	if err := client.retry.Validate(); err != nil {
		return nil, err
	}
	if client.timeout <= 0 {
		return nil, newError(KindValidation, 0, fmt.Sprintf("timeout must be positive, got %v", client.timeout), nil)
	}
	client.httpClient.Timeout = client.timeout

	client.executor = NewExecutor(client.retry)
	client.executor.onRetry = func(attempt int, delay time.Duration, err error) {
		client.metrics.RecordRetry(attempt + 1)
		if client.debugEnabled() && client.debug.LogRetries {
			client.logger.Info("Scheduling retry",
				"attempt", attempt+1, "maxRetries", client.retry.MaxRetries,
				"backoff", delay, "error", err.Error())
		}
	}

	return client, nil
}

// RetryConfig returns a copy of the client's retry policy.
func (c *Client) RetryConfig() RetryConfig {
	return c.retry
}

// ttsRequest is the wire payload for POST /tts. Voice and format are omitted
// when unset so the service applies its own defaults.
type ttsRequest struct {
	Text           string `json:"text"`
	Voice          string `json:"voice,omitempty"`
	ResponseFormat string `json:"response_format,omitempty"`
}

// RequestOption customizes a single conversion request.
type RequestOption func(*ttsRequest)

// WithVoice selects the voice character for the conversion.
func WithVoice(v Voice) RequestOption {
	return func(r *ttsRequest) {
		r.Voice = string(v)
	}
}

// WithResponseFormat selects the audio output format.
func WithResponseFormat(f AudioFormat) RequestOption {
	return func(r *ttsRequest) {
		r.ResponseFormat = string(f)
	}
}

// TextToSpeech converts text to speech and returns the audio bytes. Text is
// validated before any network I/O: empty text and text longer than
// MaxTextLength characters fail with a Validation error. Transient failures
// are retried per the client's retry policy; terminal failures surface on
// first occurrence.
func (c *Client) TextToSpeech(ctx context.Context, text string, opts ...RequestOption) ([]byte, error) {
	if err := validateText(text); err != nil {
		c.metrics.RecordError(KindValidation)
		return nil, err
	}

	req := ttsRequest{Text: text}
	for _, opt := range opts {
		opt(&req)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, newError(KindValidation, 0, "failed to encode request payload", err)
	}

	var requestID string
	if c.debugEnabled() && c.debug.RequestIDGen != nil {
		requestID = c.debug.RequestIDGen()
	}
	if c.debugEnabled() && c.debug.LogRequests {
		c.logger.Debug("Starting conversion",
			"requestID", requestID, "textLength", utf8.RuneCountInString(text),
			"voice", req.Voice, "format", req.ResponseFormat)
	}

	c.metrics.RecordRequestStart()
	defer c.metrics.RecordRequestEnd()

	audio, err := c.executor.Execute(ctx, func(ctx context.Context) ([]byte, error) {
		return c.doRequest(ctx, payload, requestID)
	})
	if err != nil {
		var clientErr *Error
		if errors.As(err, &clientErr) {
			c.metrics.RecordError(clientErr.Kind)
		}
		return nil, err
	}

	c.metrics.RecordAudioBytes(len(audio))
	if c.debugEnabled() && c.debug.LogRequests {
		c.logger.Debug("Conversion complete", "requestID", requestID, "audioBytes", len(audio))
	}
	return audio, nil
}

// TextToSpeechFile converts text to speech and writes the audio to path,
// creating parent directories as needed. Returns the path written.
func (c *Client) TextToSpeechFile(ctx context.Context, text, path string, opts ...RequestOption) (string, error) {
	audio, err := c.TextToSpeech(ctx, text, opts...)
	if err != nil {
		return "", err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return "", fmt.Errorf("writing audio file: %w", err)
	}
	return path, nil
}

// doRequest performs one POST attempt and classifies the outcome. It is the
// unit of work the Executor retries.
func (c *Client) doRequest(ctx context.Context, payload []byte, requestID string) ([]byte, error) {
	if c.rateLimiter != nil {
		allowed := c.rateLimiter.Allow()
		c.metrics.RecordRateLimiterTokens(c.rateLimiter.Tokens())
		if !allowed {
			c.metrics.RecordRateLimited()
			if c.debugEnabled() && c.debug.LogRateLimit {
				c.logger.Warn("Rate limit exceeded", "requestID", requestID)
			}
			return nil, newError(KindQuotaExceeded, 0, "client-side rate limit exceeded", nil)
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tts", bytes.NewReader(payload))
	if err != nil {
		return nil, newError(KindValidation, 0, "failed to build request", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.RecordRequest(0, time.Since(start))
		return nil, classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	c.metrics.RecordRequest(resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, newError(KindNetworkFailure, 0, "failed to read response body", err)
	}

	return classifyResponse(resp.StatusCode, body)
}

func (c *Client) debugEnabled() bool {
	return c.debug != nil && c.debug.Enabled && c.logger != nil
}

// validateText enforces the pre-network input contract: non-empty, at most
// MaxTextLength characters. Length 2000 passes, 2001 fails.
func validateText(text string) error {
	if text == "" {
		return newError(KindValidation, 0, "text cannot be empty", nil)
	}
	if n := utf8.RuneCountInString(text); n > MaxTextLength {
		return newError(KindValidation, 0,
			fmt.Sprintf("text length (%d) exceeds maximum of %d characters", n, MaxTextLength), nil)
	}
	return nil
}

// classifyResponse maps an HTTP outcome onto the closed error taxonomy. The
// mapping is exhaustive: any status not named falls into PermanentAPI rather
// than silently through a default retry path. 429 is carved out as
// QuotaExceeded ahead of any status-set matching; the daily quota will not
// resolve within a backoff window.
func classifyResponse(statusCode int, body []byte) ([]byte, error) {
	switch statusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusBadRequest:
		return nil, newError(KindValidation, statusCode,
			messageFromBody(body, "invalid request parameters"), nil)
	case http.StatusUnauthorized:
		return nil, newError(KindAuthentication, statusCode, "invalid API key", nil)
	case http.StatusPaymentRequired:
		return nil, newError(KindPaymentRequired, statusCode,
			"payment required: check your account balance or subscription", nil)
	case http.StatusForbidden:
		return nil, newError(KindAuthentication, statusCode,
			"access forbidden: check your API key permissions", nil)
	case http.StatusTooManyRequests:
		return nil, newError(KindQuotaExceeded, statusCode,
			messageFromBody(body, quotaExceededMessage), nil)
	case http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return nil, newError(KindTransient, statusCode,
			fmt.Sprintf("server error (status %d)", statusCode), nil)
	default:
		return nil, newError(KindPermanentAPI, statusCode,
			fmt.Sprintf("API request failed with status %d: %s", statusCode, body), nil)
	}
}

// classifyTransportError maps transport failures onto the network kinds.
// Cancellation and deadline expiry of the caller's context propagate
// untouched so they are never mistaken for retryable network failures. The
// context check, not errors.Is on the error, is what distinguishes a dead
// caller context from the client-level timeout: since Go 1.16 both unwrap to
// context.DeadlineExceeded, but only the latter leaves the caller's context
// alive and should stay a retryable NetworkTimeout.
func classifyTransportError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return err
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return newError(KindNetworkTimeout, 0, "request timed out", err)
	}
	return newError(KindNetworkFailure, 0, "request failed", err)
}

// messageFromBody extracts the `error` field from a JSON error body, falling
// back to the provided message.
func messageFromBody(body []byte, fallback string) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return fallback
}
