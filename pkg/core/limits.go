package core

import (
	"strings"
	"unicode/utf8"
)

// Size ceilings and configuration limits.
const (
	// SoftInputLimit is the supported total input size. Jobs above it are
	// accepted but carry a warning notice.
	SoftInputLimit = 50 << 20

	// HardInputLimit is the rejection cap. Submissions above it fail
	// synchronously with ErrSizeLimitExceeded.
	HardInputLimit = 150 << 20

	// MaxPoolSize is the hard limit for worker pool size.
	MaxPoolSize = 16

	// MaxErrorMessageLength is the maximum length for stored error messages.
	MaxErrorMessageLength = 4096
)

// ValidateInputSize checks the total input size against the hard cap.
func ValidateInputSize(files []File) error {
	var total int64
	for _, f := range files {
		total += int64(len(f.Data))
	}
	if total > HardInputLimit {
		return ErrSizeLimitExceeded
	}
	return nil
}

// OverSoftLimit reports whether the inputs exceed the supported ceiling
// without violating the hard cap.
func OverSoftLimit(files []File) bool {
	var total int64
	for _, f := range files {
		total += int64(len(f.Data))
	}
	return total > SoftInputLimit && total <= HardInputLimit
}

// ClampPoolSize ensures the worker pool size is within limits.
func ClampPoolSize(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}

// SanitizeErrorMessage truncates and sanitizes error messages before they are
// surfaced to the UI layer.
func SanitizeErrorMessage(msg string) string {
	if msg == "" {
		return ""
	}

	var sanitized strings.Builder
	sanitized.Grow(len(msg))
	for _, r := range msg {
		if r == '\n' || r == '\r' || r == '\t' || (r >= 32 && r != 127) {
			sanitized.WriteRune(r)
		}
	}

	result := sanitized.String()
	if utf8.RuneCountInString(result) > MaxErrorMessageLength {
		runes := []rune(result)
		result = string(runes[:MaxErrorMessageLength-3]) + "..."
	}
	return result
}

// ValidateReorder checks that reorder is a permutation of [0, n). A nil
// reorder is valid and keeps the supplied order.
func ValidateReorder(reorder []int, n int) error {
	if reorder == nil {
		return nil
	}
	if len(reorder) != n {
		return ErrInvalidReorder
	}
	seen := make([]bool, n)
	for _, idx := range reorder {
		if idx < 0 || idx >= n || seen[idx] {
			return ErrInvalidReorder
		}
		seen[idx] = true
	}
	return nil
}
