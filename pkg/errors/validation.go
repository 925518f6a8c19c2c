package errors

import (
	"strings"
	"unicode"
)

const (
	// MaxQueryLength bounds search queries accepted from the CLI and the API.
	MaxQueryLength = 256

	// MaxPathLength bounds dotted edit paths.
	MaxPathLength = 4096

	// MaxDocumentSize bounds documents accepted over HTTP (bytes).
	MaxDocumentSize = 16 << 20
)

// ValidateQuery validates a search query.
//
// Empty queries are valid: they disable highlighting. The validation rules
// reject:
//   - Queries longer than MaxQueryLength bytes
//   - Control characters other than tab
func ValidateQuery(q string) error {
	if len(q) > MaxQueryLength {
		return New(ErrCodeInvalidQuery, "query too long (max %d characters)", MaxQueryLength)
	}
	for _, r := range q {
		if r != '\t' && unicode.IsControl(r) {
			return New(ErrCodeInvalidQuery, "query contains invalid control characters")
		}
	}
	return nil
}

// ValidateEditPath validates a dotted document path such as
// "root.users.0.name" before it is handed to the mutation engine.
// Whether the path resolves is decided later; an unresolvable path is a
// silent no-op, not a validation error.
func ValidateEditPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	if len(path) > MaxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", MaxPathLength)
	}
	if strings.ContainsRune(path, '\x00') {
		return New(ErrCodeInvalidPath, "path contains invalid characters")
	}
	return nil
}

// ValidateFilePath validates a local file path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
func ValidateFilePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "file path cannot be empty")
	}
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "file path contains invalid characters")
		}
	}
	return nil
}

// ValidateDocumentSize rejects documents larger than MaxDocumentSize.
func ValidateDocumentSize(n int) error {
	if n > MaxDocumentSize {
		return New(ErrCodeTooLarge, "document too large (%d bytes, max %d)", n, MaxDocumentSize)
	}
	return nil
}
