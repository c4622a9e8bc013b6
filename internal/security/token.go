// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package security

import (
	"fmt"
	"time"

	"github.com/MKhiriev/agricheck/models"
	"github.com/golang-jwt/jwt/v5"
)

// ResetTokenTTL is the lifetime of password-reset tokens.
const ResetTokenTTL = 30 * time.Minute

// TokenIssuer issues and verifies HS256 tokens bound to a subject and a
// purpose. It is safe for concurrent use.
type TokenIssuer struct {
	signKey []byte
	issuer  string
	now     func() time.Time
}

// NewTokenIssuer returns an issuer signing with signKey and stamping issuer
// into the "iss" claim.
func NewTokenIssuer(signKey, issuer string) (*TokenIssuer, error) {
	if signKey == "" || issuer == "" {
		return nil, ErrInvalidTokenParams
	}

	return &TokenIssuer{
		signKey: []byte(signKey),
		issuer:  issuer,
		now:     time.Now,
	}, nil
}

// Issue creates a signed token for subject valid for ttl.
//
// The claim set carries iss, sub, iat, exp and the purpose in "type".
func (i *TokenIssuer) Issue(subject string, ttl time.Duration, purpose models.TokenPurpose) (models.Token, error) {
	if subject == "" || ttl <= 0 || purpose == "" {
		return models.Token{}, ErrInvalidTokenParams
	}

	now := i.now()
	expiresAt := now.Add(ttl)
	claims := &models.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Type: purpose,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.signKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred during signing token: %w", err)
	}

	return models.Token{
		SignedString: signed,
		Subject:      subject,
		Purpose:      purpose,
		ExpiresAt:    expiresAt,
	}, nil
}

// Verify checks the signature, issuer, expiry and purpose of tokenString
// and returns its subject. Every failure is reported as [ErrInvalidToken]
// with the cause wrapped for logging.
func (i *TokenIssuer) Verify(tokenString string, purpose models.TokenPurpose) (string, error) {
	claims := &models.TokenClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return i.signKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.Type != purpose {
		return "", fmt.Errorf("%w: purpose %q, expected %q", ErrInvalidToken, claims.Type, purpose)
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("%w: empty subject", ErrInvalidToken)
	}

	return claims.Subject, nil
}
