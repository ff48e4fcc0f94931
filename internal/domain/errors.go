package domain

import (
	"errors"
	"fmt"
)

// ValidationError reports bad or missing user-supplied data, attributed
// to the input row it came from. Row is 1-based; 0 means not row-bound.
type ValidationError struct {
	Row    int
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("invalid %s in row %d: %s", e.Field, e.Row, e.Detail)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Detail)
}

// AsValidationError unwraps err into a ValidationError if one is present.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
