package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// TokenByteLength is the entropy of opaque verification and reset tokens.
const TokenByteLength = 32 // 256 bits

// RandomToken generates a cryptographically random opaque token, hex encoded.
// Used for email verification, password reset, and refresh tokens.
func RandomToken(byteLength int) (string, error) {
	if byteLength <= 0 {
		byteLength = TokenByteLength
	}
	bytes := make([]byte, byteLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
