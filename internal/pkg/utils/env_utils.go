package utils

import (
	"os"
	"strings"
)

// GetEnv returns the value of key, or fallback when it is unset or blank.
func GetEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// FirstEnv returns the first non-blank value among keys, checked in order.
func FirstEnv(keys ...string) (string, bool) {
	for _, key := range keys {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v, true
		}
	}
	return "", false
}

// ParseBoolLike interprets boolean-like query strings ("1", "true", "yes", "on").
// Anything else, including an empty string, is false.
func ParseBoolLike(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}
