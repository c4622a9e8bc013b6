package utils

import "github.com/google/uuid"

// UUIDGenerator produces time-ordered (v7) identifiers for users, scans
// and stored image names.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a UUIDv7 string, falling back to v4 when the v7 clock
// source fails.
func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}

// Filename returns a fresh identifier with ext appended. ext is expected to
// include its leading dot or be empty.
func (g *UUIDGenerator) Filename(ext string) string {
	return g.Generate() + ext
}
