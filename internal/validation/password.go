package validation

import (
	"errors"
	"strings"
)

// ValidatePassword validates password strength: minimum 7 characters and
// must not contain the word "password" in any casing.
func ValidatePassword(password string) error {
	if len(password) < 7 {
		return errors.New("password must be at least 7 characters")
	}

	// Maximum length: 72 bytes (bcrypt limitation)
	// bcrypt silently truncates passwords longer than 72 bytes
	if len(password) > 72 {
		return errors.New("password must not exceed 72 characters")
	}

	if strings.Contains(strings.ToLower(password), "password") {
		return errors.New(`password cannot contain "password"`)
	}

	return nil
}
