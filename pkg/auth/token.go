package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// TokenBytes is the entropy of a generated token (256 bits). Collisions
// are negligible by entropy; the store's unique constraint on the token
// column is the actual enforcement, not a generation-time check.
const TokenBytes = 32

// TokenHexLength is the length of a rendered token value.
const TokenHexLength = TokenBytes * 2

// TokenGenerator produces opaque bearer tokens from a cryptographically
// secure random source.
type TokenGenerator struct{}

// NewTokenGenerator creates a new token generator.
func NewTokenGenerator() *TokenGenerator {
	return &TokenGenerator{}
}

// Generate returns a new 64-character hex token.
func (tg *TokenGenerator) Generate() (string, error) {
	buf := make([]byte, TokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// ValidateFormat checks that value looks like a generated token. It lets
// callers reject garbage before a store round trip; a well-formed value
// still proves nothing until resolved.
func (tg *TokenGenerator) ValidateFormat(value string) error {
	if len(value) != TokenHexLength {
		return fmt.Errorf("token must be %d characters, got %d", TokenHexLength, len(value))
	}
	if _, err := hex.DecodeString(value); err != nil {
		return fmt.Errorf("invalid token encoding: %w", err)
	}
	return nil
}
