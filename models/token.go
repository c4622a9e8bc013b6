package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenPurpose distinguishes access tokens from password-reset tokens. It is
// carried in the "type" claim so one kind can never be replayed as the other.
type TokenPurpose string

const (
	PurposeAccess        TokenPurpose = "access"
	PurposePasswordReset TokenPurpose = "password_reset"
)

// TokenClaims is the claim set of every token issued by the server.
type TokenClaims struct {
	jwt.RegisteredClaims

	// Type is the token purpose.
	Type TokenPurpose `json:"type"`
}

// Token is an issued, signed token.
type Token struct {
	// SignedString is the compact JWS representation
	// (base64url-encoded header.payload.signature).
	SignedString string `json:"-"`

	// Subject is the "sub" claim: a user id for access tokens, an email for
	// password-reset tokens.
	Subject string `json:"-"`

	Purpose   TokenPurpose `json:"-"`
	ExpiresAt time.Time    `json:"-"`
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t Token) String() string {
	return t.SignedString
}
