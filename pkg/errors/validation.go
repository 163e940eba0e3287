package errors

import (
	"strings"
	"unicode"
)

// ValidateName validates a user-supplied name that ends up as a command
// argument or a directory name (package names, virtual environment names).
//
// The rules are conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
//   - No leading '-' (would be parsed as a flag by the invoked tool)
func ValidateName(kind, name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "%s name cannot be empty", kind)
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidName, "%s name too long (max 256 characters)", kind)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "%s name contains invalid control characters", kind)
		}
	}

	if strings.HasPrefix(name, "-") {
		return New(ErrCodeInvalidName, "%s name cannot start with '-'", kind)
	}

	for _, pattern := range []string{"..", "/", "\\", "\x00"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidName, "%s name contains invalid characters: %q", kind, pattern)
		}
	}

	return nil
}
