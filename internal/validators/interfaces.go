// Package validators checks decoded request bodies against their `validate`
// struct tags before they reach the service layer.
package validators

import "context"

// Validator reports whether obj satisfies its validation rules. When fields
// are given only those struct fields are checked.
type Validator interface {
	Validate(ctx context.Context, obj any, fields ...string) error
}
