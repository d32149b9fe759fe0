package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidatePositive returns an INVALID_CONFIG error unless v is a finite
// number strictly greater than zero.
func ValidatePositive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidConfig, "%s must be finite, got %v", name, v)
	}
	if v <= 0 {
		return New(ErrCodeInvalidConfig, "%s must be positive, got %v", name, v)
	}
	return nil
}

// ValidateNonNegative returns an INVALID_CONFIG error if v is negative or not finite.
func ValidateNonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidConfig, "%s must be finite, got %v", name, v)
	}
	if v < 0 {
		return New(ErrCodeInvalidConfig, "%s must not be negative, got %v", name, v)
	}
	return nil
}

// ValidateProbability checks that p lies in the closed interval [0, 1].
func ValidateProbability(name string, p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return New(ErrCodeInvalidConfig, "%s must be within [0, 1], got %v", name, p)
	}
	return nil
}

// ValidateOutputName validates a base file name for exported networks.
// It must be a plain name: no path separators, no control characters,
// and not hidden.
func ValidateOutputName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "output name cannot be empty")
	}

	const maxNameLength = 255
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidInput, "output name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "output name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidInput, "output name cannot contain path separators")
	}
	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidInput, "output name cannot be a hidden file")
	}
	return nil
}
