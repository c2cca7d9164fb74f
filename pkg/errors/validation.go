package errors

import (
	"strings"
	"unicode"
)

// MaxIdentifierLength bounds block identifiers accepted from diagram input.
const MaxIdentifierLength = 256

// ValidateIdentifier validates a block identifier.
//
// Identifiers end up in constraint vertex keys ("<id>.x") and in cache keys,
// so the rules are conservative:
//   - No empty names
//   - No control characters
//   - No leading or trailing whitespace
//   - Maximum length of 256 characters
func ValidateIdentifier(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "block id cannot be empty")
	}

	if len(name) > MaxIdentifierLength {
		return New(ErrCodeInvalidInput, "block id too long (max %d characters)", MaxIdentifierLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "block id %q contains control characters", name)
		}
	}

	if strings.TrimSpace(name) != name {
		return New(ErrCodeInvalidInput, "block id %q has surrounding whitespace", name)
	}

	return nil
}

// ValidateInputPath validates a diagram file path given on the command line.
// Absolute paths are allowed; null bytes and control characters are not.
func ValidateInputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	return nil
}
