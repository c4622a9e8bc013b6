// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package security implements the credential primitives of the server:
// salted password and security-answer hashing, and signed expiring tokens
// for sessions and password resets.
package security

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	// HashCost is the bcrypt work factor used for every stored digest.
	HashCost = 12

	// maxSecretBytes is the bcrypt input limit. Longer secrets are truncated
	// to this many bytes, so two secrets sharing the first 72 bytes verify
	// against each other.
	maxSecretBytes = 72
)

// Hasher produces and checks salted one-way digests of passwords and
// security answers. It is stateless and safe for concurrent use.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the fixed [HashCost] work factor.
func NewHasher() *Hasher {
	return &Hasher{cost: HashCost}
}

// HashPassword returns a salted digest of secret.
func (h *Hasher) HashPassword(secret string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword(truncate(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrHashingFailed, err)
	}
	return string(digest), nil
}

// VerifyPassword reports whether secret matches digest. A malformed digest
// never matches.
func (h *Hasher) VerifyPassword(secret, digest string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(digest), truncate(secret))
	return err == nil
}

// HashSecurityAnswer hashes the normalized form of answer, so that
// "  Fluffy " and "fluffy" produce verifiable digests of the same value.
func (h *Hasher) HashSecurityAnswer(answer string) (string, error) {
	return h.HashPassword(NormalizeAnswer(answer))
}

// VerifySecurityAnswer normalizes answer and checks it against digest.
func (h *Hasher) VerifySecurityAnswer(answer, digest string) bool {
	return h.VerifyPassword(NormalizeAnswer(answer), digest)
}

// NormalizeAnswer lowercases answer and trims surrounding whitespace.
func NormalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}

func truncate(secret string) []byte {
	b := []byte(secret)
	if len(b) > maxSecretBytes {
		b = b[:maxSecretBytes]
	}
	return b
}
