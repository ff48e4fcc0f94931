package report

import (
	"errors"
	"fmt"
)

// TemplateError means the PDF template cannot serve as a form: it is
// unreadable or lacks required named fields.
type TemplateError struct {
	Path   string
	Detail string
	Err    error
}

func (e *TemplateError) Error() string {
	msg := fmt.Sprintf("template %s: %s", e.Path, e.Detail)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TemplateError) Unwrap() error { return e.Err }

// AsTemplateError unwraps err into a TemplateError if one is present.
func AsTemplateError(err error) (*TemplateError, bool) {
	var te *TemplateError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// CapacityError means more line items were passed to a single-sheet
// fill than the form layout holds.
type CapacityError struct {
	Items int
	Max   int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%d line items exceed the sheet capacity of %d", e.Items, e.Max)
}

// AsCapacityError unwraps err into a CapacityError if one is present.
func AsCapacityError(err error) (*CapacityError, bool) {
	var ce *CapacityError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
