package yarngpt

import (
	"errors"
	"fmt"
)

// ErrorKind identifies one member of the closed failure taxonomy. The set is
// exhaustive: response classification maps every transport outcome onto
// exactly one kind, so callers never see an unclassified failure.
type ErrorKind int

const (
	// KindAuthentication covers invalid or forbidden credentials (401, 403).
	KindAuthentication ErrorKind = iota
	// KindValidation covers locally rejected input and HTTP 400 responses.
	KindValidation
	// KindQuotaExceeded covers the daily request quota (429). Terminal even
	// though 429 sits in the default retryable status set.
	KindQuotaExceeded
	// KindPaymentRequired covers HTTP 402.
	KindPaymentRequired
	// KindTransient covers retryable server statuses (5xx).
	KindTransient
	// KindPermanentAPI covers any other non-200 response.
	KindPermanentAPI
	// KindNetworkTimeout covers transport-level timeouts.
	KindNetworkTimeout
	// KindNetworkFailure covers transport-level connection failures.
	KindNetworkFailure
)

// String returns the canonical name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindAuthentication:
		return "Authentication"
	case KindValidation:
		return "Validation"
	case KindQuotaExceeded:
		return "QuotaExceeded"
	case KindPaymentRequired:
		return "PaymentRequired"
	case KindTransient:
		return "Transient"
	case KindPermanentAPI:
		return "PermanentAPI"
	case KindNetworkTimeout:
		return "NetworkTimeout"
	case KindNetworkFailure:
		return "NetworkFailure"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is the single error type returned by the SDK. StatusCode is zero for
// failures that never reached the API (local validation, network errors).
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Cause      error
}

// Sentinel values for errors.Is kind matching, e.g.
// errors.Is(err, yarngpt.ErrQuotaExceeded).
var (
	ErrAuthentication  = &Error{Kind: KindAuthentication}
	ErrValidation      = &Error{Kind: KindValidation}
	ErrQuotaExceeded   = &Error{Kind: KindQuotaExceeded}
	ErrPaymentRequired = &Error{Kind: KindPaymentRequired}
	ErrTransient       = &Error{Kind: KindTransient}
	ErrPermanentAPI    = &Error{Kind: KindPermanentAPI}
	ErrNetworkTimeout  = &Error{Kind: KindNetworkTimeout}
	ErrNetworkFailure  = &Error{Kind: KindNetworkFailure}
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("yarngpt: %s: %s", e.Kind, e.Message)
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("yarngpt: %s (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is matches errors of the same kind for errors.Is.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	if targetErr, ok := target.(*Error); ok {
		return e.Kind == targetErr.Kind
	}
	return false
}

func newError(kind ErrorKind, statusCode int, message string, cause error) *Error {
	return &Error{Kind: kind, StatusCode: statusCode, Message: message, Cause: cause}
}

// IsTransientError reports whether an error represents a failure that might
// succeed on retry: timeouts, connection failures and transient API statuses.
// Terminal kinds (authentication, validation, quota, payment, permanent API)
// return false.
func IsTransientError(err error) bool {
	var clientErr *Error
	if !errors.As(err, &clientErr) {
		return false
	}
	switch clientErr.Kind {
	case KindTransient, KindNetworkTimeout, KindNetworkFailure:
		return true
	case KindAuthentication, KindValidation, KindQuotaExceeded, KindPaymentRequired, KindPermanentAPI:
		return false
	default:
		return false
	}
}
