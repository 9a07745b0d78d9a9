package tax

import (
	"errors"
	"fmt"
)

// ErrProvider matches every error returned by a RatingClient.
var ErrProvider = errors.New("tax: rating provider error")

// Provider error kinds
var (
	ErrProviderUnavailable     = errors.New("tax: rating provider unavailable")
	ErrProviderAuth            = errors.New("tax: rating provider rejected credentials")
	ErrProviderRequestFailed   = errors.New("tax: rating provider request failed")
	ErrProviderInvalidResponse = errors.New("tax: invalid rating provider response")
)

// ProviderErrorKind classifies a ProviderError
type ProviderErrorKind string

const (
	ProviderErrorUnavailable     ProviderErrorKind = "UNAVAILABLE"
	ProviderErrorAuth            ProviderErrorKind = "AUTH"
	ProviderErrorRequestFailed   ProviderErrorKind = "REQUEST_FAILED"
	ProviderErrorInvalidResponse ProviderErrorKind = "INVALID_RESPONSE"
)

// IsValid returns true if the kind is known
func (k ProviderErrorKind) IsValid() bool {
	switch k {
	case ProviderErrorUnavailable, ProviderErrorAuth, ProviderErrorRequestFailed, ProviderErrorInvalidResponse:
		return true
	default:
		return false
	}
}

// String returns the string representation of ProviderErrorKind
func (k ProviderErrorKind) String() string {
	return string(k)
}

func (k ProviderErrorKind) sentinel() error {
	switch k {
	case ProviderErrorUnavailable:
		return ErrProviderUnavailable
	case ProviderErrorAuth:
		return ErrProviderAuth
	case ProviderErrorRequestFailed:
		return ErrProviderRequestFailed
	case ProviderErrorInvalidResponse:
		return ErrProviderInvalidResponse
	default:
		return nil
	}
}

// ProviderError is the failure of one rating provider exchange.
// It is fatal to the invocation and is never converted into a zero tax.
type ProviderError struct {
	Kind       ProviderErrorKind
	StatusCode int    // HTTP status, 0 when no response was received
	Code       string // provider error code, if any
	Message    string
	Err        error
}

// NewProviderError creates a provider error of the given kind
func NewProviderError(kind ProviderErrorKind, message string, err error) *ProviderError {
	return &ProviderError{Kind: kind, Message: message, Err: err}
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("tax: rating provider %s", e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Code != "" {
		msg += ": " + e.Code
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Is matches ErrProvider and the sentinel of the error's kind
func (e *ProviderError) Is(target error) bool {
	if target == ErrProvider {
		return true
	}
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// IsProviderError reports whether err is, or wraps, a ProviderError
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
