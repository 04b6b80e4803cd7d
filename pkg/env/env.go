// Package env provides helpers for parsing environment variables.
package env

import (
	"strconv"
	"strings"
)

// GetBool parses the given value as a bool, returning the fallback value if parsing fails.
func GetBool(value string, fallback bool) bool {
	if value == "" {
		return fallback
	}

	if parsed, err := strconv.ParseBool(value); err == nil {
		return parsed
	}

	return fallback
}

// Parse converts a list of "KEY=VALUE" pairs, as returned by os.Environ, into a map.
func Parse(environ []string) map[string]string {
	envs := make(map[string]string, len(environ))

	for _, pair := range environ {
		if key, value, ok := strings.Cut(pair, "="); ok && key != "" {
			envs[key] = value
		}
	}

	return envs
}
