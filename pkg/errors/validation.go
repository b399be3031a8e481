package errors

import (
	"math"
	"strings"
	"unicode"
)

// maxNameLength bounds snapshot names so they stay usable as file names and
// store keys.
const maxNameLength = 128

// ValidateName validates a snapshot name for use as a storage key.
//
// Names become file names in the file store, so the rules are conservative:
//   - not empty, at most 128 characters
//   - no control characters
//   - no path separators or parent-directory sequences
//   - no leading dot
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "snapshot name cannot be empty")
	}
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidName, "snapshot name too long (max %d characters)", maxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "snapshot name contains control characters")
		}
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return New(ErrCodeInvalidName, "snapshot name cannot contain path components: %q", name)
	}
	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidName, "snapshot name cannot start with a dot")
	}
	return nil
}

// ValidateDimension checks that v is a finite, strictly positive length.
// what names the value in the error message (e.g. "node radius").
func ValidateDimension(what string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return New(ErrCodeInvalidInput, "%s must be a positive finite number, got %v", what, v)
	}
	return nil
}
