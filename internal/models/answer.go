package models

import (
	"errors"
	"time"
	"unicode/utf8"
)

// MaxAnswerLength is the maximum answer length in code points, matching the
// Discord modal input limit.
const MaxAnswerLength = 4000

var (
	// ErrEmptyUserID is returned when an answer has no user ID
	ErrEmptyUserID = errors.New("user ID cannot be empty")

	// ErrEmptyUsername is returned when an answer has no username
	ErrEmptyUsername = errors.New("username cannot be empty")

	// ErrEmptyText is returned when an answer has no text
	ErrEmptyText = errors.New("answer text cannot be empty")

	// ErrTextTooLong is returned when answer text exceeds MaxAnswerLength
	ErrTextTooLong = errors.New("answer text exceeds maximum length")

	// ErrZeroTimestamp is returned when an answer has no timestamp
	ErrZeroTimestamp = errors.New("timestamp must be set")
)

// Answer represents a user's answer to the current trivia question
type Answer struct {
	// UserID is the Discord user ID of the submitter
	UserID string `json:"user_id"`

	// Username is the display name of the submitter, used for rendering only
	Username string `json:"username"`

	// Text is the answer content provided by the user
	Text string `json:"text"`

	// Timestamp is when the answer was submitted or last updated (UTC)
	Timestamp time.Time `json:"timestamp"`

	// IsUpdated indicates whether this answer replaced a previous submission
	IsUpdated bool `json:"is_updated"`
}

// Validate checks the answer invariants
func (a *Answer) Validate() error {
	if a.UserID == "" {
		return ErrEmptyUserID
	}

	if a.Username == "" {
		return ErrEmptyUsername
	}

	if a.Text == "" {
		return ErrEmptyText
	}

	if utf8.RuneCountInString(a.Text) > MaxAnswerLength {
		return ErrTextTooLong
	}

	if a.Timestamp.IsZero() {
		return ErrZeroTimestamp
	}

	return nil
}
