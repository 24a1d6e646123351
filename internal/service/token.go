// Package service implements the application's business logic on top of
// the repository and storage layers.
package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"livingdocs/internal/config"
)

// NewPublicToken returns a fresh random public token. Tokens are
// capability URLs: possession grants read access to exactly one document,
// so they come from crypto/rand, never from a counter or a hash of
// guessable inputs.
func NewPublicToken() (string, error) {
	buf := make([]byte, config.PublicTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate public token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
