package spc

import "fmt"

// ConfigError reports an invalid configuration value.  Configuration errors
// are raised immediately and surfaced to the caller; they are never
// swallowed or downgraded to a default.
type ConfigError struct {
	Field  string
	Reason string
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}
