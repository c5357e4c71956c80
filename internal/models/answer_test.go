package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validAnswer() *Answer {
	return &Answer{
		UserID:    "user-1",
		Username:  "Alice",
		Text:      "Paris",
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestAnswerValidate(t *testing.T) {
	assert.NoError(t, validAnswer().Validate())
}

func TestAnswerValidateEmptyFields(t *testing.T) {
	a := validAnswer()
	a.UserID = ""
	assert.ErrorIs(t, a.Validate(), ErrEmptyUserID)

	a = validAnswer()
	a.Username = ""
	assert.ErrorIs(t, a.Validate(), ErrEmptyUsername)

	a = validAnswer()
	a.Text = ""
	assert.ErrorIs(t, a.Validate(), ErrEmptyText)

	a = validAnswer()
	a.Timestamp = time.Time{}
	assert.ErrorIs(t, a.Validate(), ErrZeroTimestamp)
}

func TestAnswerValidateLengthBoundary(t *testing.T) {
	a := validAnswer()
	a.Text = strings.Repeat("x", MaxAnswerLength)
	assert.NoError(t, a.Validate())

	a.Text = strings.Repeat("x", MaxAnswerLength+1)
	assert.ErrorIs(t, a.Validate(), ErrTextTooLong)
}

func TestAnswerValidateCountsCodePoints(t *testing.T) {
	// 4000 multi-byte runes are within the limit even though the byte
	// length is far larger
	a := validAnswer()
	a.Text = strings.Repeat("é", MaxAnswerLength)
	assert.NoError(t, a.Validate())
}
