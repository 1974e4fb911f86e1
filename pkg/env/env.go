// Package env reads raw process environment values. The application
// configuration proper lives in pkg/config; this covers the handful of
// settings consulted before config is loaded, like LOG_FORMAT.
package env

import "os"

// Get returns the named variable's value, or fallback when it is unset
// or empty.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
