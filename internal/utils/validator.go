package utils

import (
	"strings"

	"github.com/google/uuid"
)

// ValidateUUID reports whether s is a canonical UUID
func ValidateUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// SanitizeIdentifier trims whitespace around a user supplied identifier
func SanitizeIdentifier(s string) string {
	return strings.TrimSpace(s)
}
