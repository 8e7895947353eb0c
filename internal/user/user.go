// Package user identifies the person and process behind a card store write
package user

import (
	"fmt"
	"os"
	"os/user"

	"github.com/google/uuid"
)

// CurrentUsername returns the current system username.
// It tries multiple methods with fallbacks:
// 1. user.Current() - most reliable, gets username from OS
// 2. USER environment variable - fallback for restricted environments
// 3. "unknown" - final fallback to ensure a non-empty value
func CurrentUsername() string {
	currentUser, err := user.Current()
	if err != nil {
		username := os.Getenv("USER")
		if username == "" {
			return "unknown"
		}
		return username
	}
	return currentUser.Username
}

// NewOrigin returns a unique label for one store instance, e.g. "alice/4242/6f1c…".
// It is stamped on relayed change events so a store can drop its own echoes,
// and it shows up in daemon logs.
func NewOrigin() string {
	return fmt.Sprintf("%s/%d/%s", CurrentUsername(), os.Getpid(), uuid.NewString())
}
