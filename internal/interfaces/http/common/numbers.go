package common

import (
	"strconv"
	"strings"
)

// ParseInt parses a decimal string, reporting success separately.
func ParseInt(value string) (int, bool) {
	if strings.TrimSpace(value) == "" {
		return 0, false
	}
	num, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return num, true
}

// ParsePositiveInt parses a positive decimal string, falling back otherwise.
func ParsePositiveInt(value string, fallback int) int {
	num, ok := ParseInt(value)
	if !ok || num <= 0 {
		return fallback
	}
	return num
}
