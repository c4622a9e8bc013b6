package validators

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// tagNotBlank rejects strings that are empty after trimming spaces.
const tagNotBlank = "notblank"

// RequestValidator validates request models by their `validate` struct tags.
// Violations are reported by JSON field name.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator constructs a RequestValidator and returns it as the
// Validator interface.
func NewRequestValidator() Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails for an empty tag or a nil function.
	_ = v.RegisterValidation(tagNotBlank, func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return &RequestValidator{validate: v}
}

// Validate checks obj, a struct or a pointer to one. When fields are given
// only those struct fields (Go names, dotted for nesting) are checked.
func (v *RequestValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	var err error
	if len(fields) == 0 {
		err = v.validate.StructCtx(ctx, obj)
	} else {
		err = v.validate.StructPartialCtx(ctx, obj, fields...)
	}
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return fmt.Errorf("%w: %T", ErrUnsupportedType, obj)
	}

	var violations validator.ValidationErrors
	if errors.As(err, &violations) && len(violations) > 0 {
		first := violations[0]
		return &FieldError{Field: fieldPath(first), Rule: first.Tag(), Param: first.Param()}
	}

	return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
}

// fieldPath drops the struct name from the namespace,
// "RegisterRequest.security_questions[0].answer" becomes
// "security_questions[0].answer".
func fieldPath(fe validator.FieldError) string {
	_, path, found := strings.Cut(fe.Namespace(), ".")
	if !found {
		return fe.Field()
	}
	return path
}
