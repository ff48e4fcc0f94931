package providers

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind classifies fetch failures for retry and reporting decisions.
type ErrorKind string

const (
	KindNetwork ErrorKind = "network"
	KindAuth    ErrorKind = "auth"
	KindParse   ErrorKind = "parse"
)

// FetchError captures a failed interaction with the federation site.
// Only network-kind errors are transient; auth and parse never retry.
type FetchError struct {
	Kind       ErrorKind
	Provider   string
	StatusCode int
	Detail     string
	Err        error
}

func (e *FetchError) Error() string {
	msg := e.Detail
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = "fetch failed"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (status=%d)", e.Kind, msg, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// AsFetchError attempts to unwrap an error into a FetchError.
func AsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// Retryable reports whether the error is transient. Network failures
// and rate limits may clear up on a later attempt.
func Retryable(err error) bool {
	if fe, ok := AsFetchError(err); ok {
		return fe.Kind == KindNetwork
	}
	if _, ok := AsRateLimitError(err); ok {
		return true
	}
	return false
}

// RateLimitError captures rate limit responses from upstream services.
type RateLimitError struct {
	Provider   string
	StatusCode int
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "provider rate limited"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status=%d)", msg, e.StatusCode)
	}
	return msg
}

// AsRateLimitError attempts to unwrap an error into a RateLimitError.
func AsRateLimitError(err error) (*RateLimitError, bool) {
	var rlErr *RateLimitError
	if errors.As(err, &rlErr) {
		return rlErr, true
	}
	return nil, false
}
