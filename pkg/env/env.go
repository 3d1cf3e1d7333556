// Package env reads process environment variables with defaults. The
// typed application config lives in pkg/config; this covers the few
// knobs read before config is loaded.
package env

import "os"

// Get returns the variable's value, or fallback when unset or empty.
func Get(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
