package util

import "github.com/google/uuid"

// NewID returns a new random entity identifier.
func NewID() string {
	return uuid.NewString()
}

// IsID reports whether raw is a well-formed identifier. Search tokens are
// only usable as ID filters when this holds.
func IsID(raw string) bool {
	_, err := uuid.Parse(raw)
	return err == nil
}
