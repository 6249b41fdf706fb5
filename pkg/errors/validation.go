package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateSceneID checks a scene identifier for use as a map key, a DOT
// attribute value and a DOM id.
//
// The rules are intentionally conservative:
//   - No empty ids
//   - No control characters
//   - Maximum length of 256 characters
func ValidateSceneID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidStory, "scene id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidStory, "scene id too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidStory, "scene id %q contains control characters", id)
		}
	}

	return nil
}

// ValidateObjectKey validates an object-store key for export targets.
// It prevents path traversal and ensures reasonable key length.
//
// Validation rules:
//   - Key cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No leading slash
//   - No path traversal sequences (..)
//   - No backslashes
func ValidateObjectKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidPath, "object key cannot be empty")
	}

	const maxKeyLength = 500
	if len(key) > maxKeyLength {
		return New(ErrCodeInvalidPath, "object key too long (max %d characters)", maxKeyLength)
	}

	for _, r := range key {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "object key contains invalid characters")
		}
	}

	if strings.HasPrefix(key, "/") {
		return New(ErrCodeInvalidPath, "object key must be relative (cannot start with /)")
	}

	if strings.Contains(key, "..") {
		return New(ErrCodeInvalidPath, "object key cannot contain path traversal sequences (..)")
	}

	if strings.Contains(key, "\\") {
		return New(ErrCodeInvalidPath, "object key cannot contain backslashes")
	}

	return nil
}

// bucketNameRegex matches S3-compatible bucket names.
var bucketNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]{1,61}[a-z0-9]$`)

// ValidateBucketName validates an S3-compatible bucket name.
func ValidateBucketName(name string) error {
	if !bucketNameRegex.MatchString(name) {
		return New(ErrCodeInvalidPath, "invalid bucket name: %q", name)
	}
	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidPath, "bucket name cannot contain consecutive dots: %q", name)
	}
	return nil
}
