package http

import "errors"

// Authorization header parse failures. All of them answer 401.
var (
	ErrEmptyAuthorizationHeader   = errors.New("missing authorization header")
	ErrInvalidAuthorizationHeader = errors.New("authorization header is not a bearer credential")
	ErrEmptyToken                 = errors.New("bearer credential carries no token")
)
