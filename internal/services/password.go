package services

import (
	"unicode"
	"unicode/utf8"
)

// ValidatePassword checks password strength rules in order and stops at the
// first violation. A nil result means the password is acceptable.
func ValidatePassword(password string) *ValidationError {
	if utf8.RuneCountInString(password) < 8 {
		return &ValidationError{Reason: "Password must be at least 8 characters long."}
	}

	var hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case !unicode.IsLetter(r):
			hasSpecial = true
		}
	}

	if !hasUpper {
		return &ValidationError{Reason: "Password must contain at least one uppercase letter."}
	}
	if !hasDigit {
		return &ValidationError{Reason: "Password must contain at least one digit."}
	}
	if !hasSpecial {
		return &ValidationError{Reason: "Password must contain at least one special character."}
	}

	return nil
}
