package verifier

import (
	"errors"
	"fmt"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrConfig = errors.New("pin secret must be 4 to 6 digits")

	ErrInvalidFormat = errors.New("pin must be 4 to 6 digits")
)

var pinRegex = regexp.MustCompile(`^\d{4,6}$`)

// Verifier holds the bcrypt hash of the shared PIN. It is built once at
// startup and is safe for concurrent use.
type Verifier struct {
	hash []byte
}

func New(secret string, cost int) (*Verifier, error) {
	if !pinRegex.MatchString(secret) {
		return nil, ErrConfig
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash pin secret: %w", err)
	}

	return &Verifier{hash: hash}, nil
}

// Verify reports whether candidate matches the secret. Candidates that are
// not 4 to 6 digits fail with ErrInvalidFormat before any hashing.
func (v *Verifier) Verify(candidate string) (bool, error) {
	if !pinRegex.MatchString(candidate) {
		return false, ErrInvalidFormat
	}

	err := bcrypt.CompareHashAndPassword(v.hash, []byte(candidate))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("failed to compare pin: %w", err)
	}
}
