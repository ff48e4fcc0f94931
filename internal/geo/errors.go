package geo

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind classifies a geo lookup failure.
type ErrorKind string

const (
	// KindNetwork covers transport failures and upstream outages.
	KindNetwork ErrorKind = "network"
	// KindRateLimited means the upstream rejected the call due to quota.
	KindRateLimited ErrorKind = "rate_limited"
	// KindInvalidAddress means the address cannot be resolved at all.
	KindInvalidAddress ErrorKind = "invalid_address"
)

// Error describes a failed geocode or distance lookup.
type Error struct {
	Kind    ErrorKind
	Address string
	Detail  string
	// RetryAfter carries the upstream Retry-After hint for rate limits,
	// zero when the upstream sent none.
	RetryAfter time.Duration
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("geo %s", e.Kind)
	if e.Address != "" {
		msg += fmt.Sprintf(" for %q", e.Address)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// AsError unwraps err into a geo Error if one is present.
func AsError(err error) (*Error, bool) {
	var ge *Error
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}

// Retryable reports whether the lookup may succeed on a later attempt.
// Invalid addresses never become valid by retrying.
func Retryable(err error) bool {
	ge, ok := AsError(err)
	if !ok {
		return false
	}
	return ge.Kind == KindNetwork || ge.Kind == KindRateLimited
}
