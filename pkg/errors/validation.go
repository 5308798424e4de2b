package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// maxIDLength bounds project and stream identifiers. Identifiers end up in
// storage keys, so they must stay short and free of separators.
const maxIDLength = 128

// idRegex matches identifiers accepted for projects and streams.
var idRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:@-]*$`)

// ValidateProjectID validates a project identifier for use in storage keys.
//
// The rules are conservative:
//   - No empty IDs
//   - Maximum length of 128 characters
//   - No control characters
//   - No path separators or traversal sequences
func ValidateProjectID(id string) error {
	if err := validateID(id); err != nil {
		return Wrap(ErrCodeInvalidProject, err, "invalid project id %q", id)
	}
	return nil
}

// ValidateStreamID validates a stream identifier as used for tile IDs.
func ValidateStreamID(id string) error {
	if err := validateID(id); err != nil {
		return Wrap(ErrCodeInvalidStream, err, "invalid stream id %q", id)
	}
	return nil
}

func validateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "identifier cannot be empty")
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "identifier too long (max %d characters)", maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "identifier contains control characters")
		}
	}
	if strings.Contains(id, "..") || strings.ContainsAny(id, `/\`) {
		return New(ErrCodeInvalidInput, "identifier contains path characters")
	}
	if !idRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "identifier contains invalid characters")
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidURL, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidURL, "URL must use http or https scheme")
	}

	return nil
}

// ValidateDimensions validates container pixel dimensions. Zero is allowed
// (a collapsed container still yields a 1×1 grid); negative and non-finite
// values are rejected.
func ValidateDimensions(width, height float64) error {
	for _, v := range []float64{width, height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidInput, "container size must be finite")
		}
		if v < 0 {
			return New(ErrCodeInvalidInput, "container size cannot be negative (got %.0f)", v)
		}
	}
	return nil
}
