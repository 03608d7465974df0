package core

import "time"

// SessionConfig controls issued session lifetime.
type SessionConfig struct {
	MaxAge time.Duration
}

// DefaultSessionConfig returns the standard 30-day session lifetime.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		MaxAge: 30 * 24 * time.Hour,
	}
}
