package core

import (
	"time"

	"github.com/google/uuid"
)

// NewID returns a fresh random (v4) UUID string.
func NewID() string {
	return uuid.NewString()
}

// Now returns the current UTC time truncated to millisecond precision, the
// resolution used by every persisted timestamp.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
