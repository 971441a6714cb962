package auth

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost balances brute-force resistance against login latency.
	BcryptCost = 12

	MinPasswordLen = 8
	MaxPasswordLen = 128
)

// passwordSymbols is the punctuation set accepted by the policy.
const passwordSymbols = `!@#$%^&*(),.?":{}|<>`

// PasswordValidationError lists which policy rules a candidate password broke.
type PasswordValidationError struct {
	Failures []string
}

func (e *PasswordValidationError) Error() string {
	if len(e.Failures) == 0 {
		return "password does not meet security requirements"
	}
	return "password does not meet security requirements: " + strings.Join(e.Failures, "; ")
}

// HashPassword hashes a plaintext password with bcrypt. It fails only on
// catastrophic environment error; a returned digest always verifies against
// the original plaintext.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// ComparePassword returns nil when password matches the stored digest.
func ComparePassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// ValidatePassword enforces the business-level password policy: at least one
// uppercase letter, one lowercase letter, one digit, one symbol from the
// accepted punctuation set, and a length of 8 to 128 characters.
func ValidatePassword(password string) error {
	failures := make([]string, 0)

	if len(password) < MinPasswordLen {
		failures = append(failures, fmt.Sprintf("must be at least %d characters", MinPasswordLen))
	}
	if len(password) > MaxPasswordLen {
		failures = append(failures, fmt.Sprintf("must be at most %d characters", MaxPasswordLen))
	}

	hasUpper := false
	hasLower := false
	hasDigit := false
	hasSymbol := false

	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}

	if !hasUpper {
		failures = append(failures, "must contain at least one uppercase letter")
	}
	if !hasLower {
		failures = append(failures, "must contain at least one lowercase letter")
	}
	if !hasDigit {
		failures = append(failures, "must contain at least one digit")
	}
	if !hasSymbol {
		failures = append(failures, "must contain at least one special character")
	}

	if len(failures) > 0 {
		return &PasswordValidationError{Failures: failures}
	}

	return nil
}
