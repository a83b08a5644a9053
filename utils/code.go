package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// uniqueCodeBytes yields a 22 character URL-safe code.
const uniqueCodeBytes = 16

// GenerateUniqueCode returns an unguessable, URL-safe sharing code.
func GenerateUniqueCode() (string, error) {
	b := make([]byte, uniqueCodeBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// ShareURL is the public path under which an invitation is shared.
func ShareURL(code string) string {
	return "/invitations/" + code
}
