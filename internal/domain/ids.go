package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ParseID validates a resource identifier and returns its canonical form.
// Every store id is a UUID; anything else is rejected with ErrInvalidInput
// before a repository is touched.
func ParseID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: missing id", ErrInvalidInput)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: malformed id %q", ErrInvalidInput, raw)
	}
	return id.String(), nil
}

// NormalizeEmail lowercases and trims an email address. Emails are compared case-insensitively.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
