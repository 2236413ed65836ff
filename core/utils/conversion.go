package utils

import (
	"strconv"
	"strings"
)

// IntOr parses s as a base-10 integer. Empty or malformed input returns
// fallback.
func IntOr(s string, fallback int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return i
}

// Truthy reports whether s spells an enabled flag: 1, true, yes or on in any
// case. Anything else is false.
func Truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
