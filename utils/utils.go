// Package utils provides utility functions for the application.
package utils

import "github.com/google/uuid"

func ToPtr[T any](v T) *T {
	return &v
}

// ParseUUID parses a string UUID and returns the parsed value
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}
