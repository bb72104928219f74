package middleware

import (
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ValidateMessageContent validates chat message content.
func ValidateMessageContent(content string) error {
	if len(content) == 0 {
		return errors.New("content cannot be empty")
	}
	if len(content) > 100000 { // ~100KB limit
		return errors.New("content exceeds maximum length")
	}
	if !utf8.ValidString(content) {
		return errors.New("content must be valid UTF-8")
	}
	return nil
}

// ValidateTripID validates a trip ID.
func ValidateTripID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New("invalid trip ID format")
	}
	return nil
}

// ValidateTitle validates a trip or activity title.
func ValidateTitle(title string) error {
	if len(title) > 256 {
		return errors.New("title exceeds maximum length")
	}
	if !utf8.ValidString(title) {
		return errors.New("title must be valid UTF-8")
	}
	return nil
}

// ValidateIATACode validates a 3-letter airport code.
func ValidateIATACode(code string) error {
	if len(code) != 3 {
		return errors.New("airport code must be 3 letters")
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return errors.New("airport code must be uppercase letters")
		}
	}
	return nil
}

// ValidateDate validates a YYYY-MM-DD date string.
func ValidateDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return errors.New("date must be YYYY-MM-DD")
	}
	return nil
}
