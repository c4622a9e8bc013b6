package validators

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest wraps every rule violation. The message lists the
	// offending JSON fields.
	ErrInvalidRequest = errors.New("invalid request")

	ErrUnsupportedType = errors.New("value is not a struct")
)

// FieldError is the first rule violation found in a request. It matches
// [ErrInvalidRequest] with errors.Is.
type FieldError struct {
	// Field is the JSON path of the offending value, e.g.
	// "security_questions[0].answer".
	Field string
	// Rule is the failed validate tag, e.g. "min" or "email".
	Rule string
	// Param is the tag parameter, "8" for min=8. Empty for bare tags.
	Param string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: field '%s' failed on '%s'", ErrInvalidRequest, e.Field, e.Rule)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidRequest
}
