// Package providers defines the failure taxonomy shared by every external
// collaborator: website fetch, text, image, analysis and render providers.
package providers

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind classifies a provider failure.
type Kind string

// Failure kinds
const (
	KindNone           Kind = ""
	KindUnavailable    Kind = "provider_unavailable"
	KindTimeout        Kind = "provider_timeout"
	KindMalformedInput Kind = "malformed_input"
	KindCanceled       Kind = "canceled"
)

// UnavailableError represents a provider that failed or returned unusable output
type UnavailableError struct {
	Provider string
	Message  string
	Cause    error
}

func (e *UnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s unavailable: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s unavailable: %s", e.Provider, e.Message)
}

func (e *UnavailableError) Unwrap() error {
	return e.Cause
}

// TimeoutError represents a provider call that exceeded its deadline
type TimeoutError struct {
	Provider string
	Cause    error
}

func (e *TimeoutError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s timed out: %v", e.Provider, e.Cause)
	}
	return fmt.Sprintf("%s timed out", e.Provider)
}

func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

// MalformedInputError represents a request rejected before any provider is called
type MalformedInputError struct {
	Field   string
	Message string
	Cause   error
}

func (e *MalformedInputError) Error() string {
	msg := "malformed input"
	if e.Field != "" {
		msg = fmt.Sprintf("malformed input: %s", e.Field)
	}
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *MalformedInputError) Unwrap() error {
	return e.Cause
}

// Classify maps an error to its Kind. Unknown errors count as unavailable.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}

	var malformed *MalformedInputError
	var timeout *TimeoutError
	var unavailable *UnavailableError
	var netErr net.Error
	switch {
	case errors.As(err, &malformed):
		return KindMalformedInput
	case errors.As(err, &timeout), errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.As(err, &unavailable):
		return KindUnavailable
	case errors.As(err, &netErr) && netErr.Timeout():
		return KindTimeout
	default:
		return KindUnavailable
	}
}

// Wrap tags a raw provider error with the taxonomy. Errors that already carry
// a kind and context cancellations pass through unchanged.
func Wrap(provider string, err error) error {
	if err == nil {
		return nil
	}

	var malformed *MalformedInputError
	var timeout *TimeoutError
	var unavailable *UnavailableError
	if errors.As(err, &malformed) || errors.As(err, &timeout) || errors.As(err, &unavailable) {
		return err
	}

	switch Classify(err) {
	case KindTimeout:
		return &TimeoutError{Provider: provider, Cause: err}
	case KindCanceled:
		return err
	default:
		return &UnavailableError{Provider: provider, Message: "call failed", Cause: err}
	}
}
