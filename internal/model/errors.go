package model

import (
	"errors"
	"fmt"
	"time"
)

// Failure classes. Every error that leaves a provider, the parser or the
// orchestrator wraps exactly one of these.
var (
	ErrValidation      = errors.New("validation failed")
	ErrNetwork         = errors.New("network failure")
	ErrParse           = errors.New("payload does not match result shape")
	ErrUnexpectedShape = errors.New("unexpected response envelope")

	// ErrSlotBusy is returned when a slot already has a request in flight.
	ErrSlotBusy = errors.New("request already in flight")
)

// HTTPError wraps an upstream HTTP status code so retry logic can inspect it.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// Unwrap exposes both the wrapped detail and ErrNetwork, so a non-2xx status
// always classifies as a network failure.
func (e *HTTPError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrNetwork, e.Err}
	}
	return []error{ErrNetwork}
}

// ReasonOf classifies err into a FailureReason. Unknown errors are treated as
// network failures since they originate below the parser.
func ReasonOf(err error) FailureReason {
	switch {
	case errors.Is(err, ErrValidation):
		return ReasonValidation
	case errors.Is(err, ErrUnexpectedShape):
		return ReasonUnexpectedShape
	case errors.Is(err, ErrParse):
		return ReasonParse
	default:
		return ReasonNetwork
	}
}
