package security

import "errors"

var (
	// ErrInvalidToken is returned by [TokenIssuer.Verify] for any token that
	// must not be trusted: bad signature, expired, wrong issuer, wrong
	// purpose, malformed, or missing subject.
	ErrInvalidToken = errors.New("invalid token")

	// ErrInvalidTokenParams is returned by [NewTokenIssuer] and
	// [TokenIssuer.Issue] when the signing key, issuer, subject or TTL is
	// missing.
	ErrInvalidTokenParams = errors.New("invalid params for issuing token")

	// ErrHashingFailed wraps a failure of the underlying password hashing
	// primitive.
	ErrHashingFailed = errors.New("hashing failed")
)
