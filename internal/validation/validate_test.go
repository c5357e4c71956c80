package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwhitt/trivvy/internal/models"
)

func TestValidateAnswerTextTrims(t *testing.T) {
	got, err := ValidateAnswerText("  Paris\t\n")
	require.NoError(t, err)
	assert.Equal(t, "Paris", got)
}

func TestValidateAnswerTextEmpty(t *testing.T) {
	_, err := ValidateAnswerText("")
	assert.ErrorIs(t, err, models.ErrEmptyText)

	_, err = ValidateAnswerText("   \n\t  ")
	assert.ErrorIs(t, err, models.ErrEmptyText)
}

func TestValidateAnswerTextBoundary(t *testing.T) {
	// Exactly the limit is accepted
	got, err := ValidateAnswerText(strings.Repeat("a", models.MaxAnswerLength))
	require.NoError(t, err)
	assert.Len(t, got, models.MaxAnswerLength)

	// One over is rejected
	_, err = ValidateAnswerText(strings.Repeat("a", models.MaxAnswerLength+1))
	assert.ErrorIs(t, err, models.ErrTextTooLong)
}

func TestValidateAnswerTextBoundaryAfterTrim(t *testing.T) {
	// Whitespace is trimmed before the length check
	text := "  " + strings.Repeat("a", models.MaxAnswerLength) + "  "
	got, err := ValidateAnswerText(text)
	require.NoError(t, err)
	assert.Len(t, got, models.MaxAnswerLength)
}
