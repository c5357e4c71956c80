// Package validation holds pure input-sanitation helpers for user-supplied
// text. Validation failures are user errors, not system faults.
package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/mwhitt/trivvy/internal/models"
)

// ValidateAnswerText trims surrounding whitespace and enforces the answer
// length rules. Length is counted in code points, matching the Discord modal
// input limit. Returns the sanitized text.
func ValidateAnswerText(text string) (string, error) {
	sanitized := strings.TrimSpace(text)

	if sanitized == "" {
		return "", models.ErrEmptyText
	}

	if utf8.RuneCountInString(sanitized) > models.MaxAnswerLength {
		return "", models.ErrTextTooLong
	}

	return sanitized, nil
}
