package misc

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Getenv returns the value of key, or def when unset or empty.
func Getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// GetDuration reads key as a Go duration ("90s", "2m") or a bare number of
// seconds. Unset or unparseable values yield def.
func GetDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return def
}

// GetBool reads key as a boolean, accepting the usual spellings. Unset or
// unrecognized values yield def.
func GetBool(key string, def bool) bool {
	switch strings.TrimSpace(strings.ToLower(os.Getenv(key))) {
	case "":
		return def
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	}
	return def
}
