package errors

import (
	"strings"
	"unicode"
)

// ValidateSourcePath checks a user-supplied source path for obvious mistakes
// before it is handed to the file system.
//
// Rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidateSourcePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "source path cannot be empty")
	}
	if len(path) > 4096 {
		return New(ErrCodeInvalidPath, "source path too long (max 4096 characters)")
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "source path contains control characters")
		}
	}
	return nil
}

// ValidateViewport checks a viewport width reported by a client.
// Zero means "unknown" and is accepted.
func ValidateViewport(width float64) error {
	if width < 0 {
		return New(ErrCodeInvalidViewport, "viewport width cannot be negative: %v", width)
	}
	if width > 100000 {
		return New(ErrCodeInvalidViewport, "viewport width too large: %v", width)
	}
	return nil
}
