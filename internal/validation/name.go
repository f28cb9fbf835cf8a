package validation

import (
	"errors"
	"strings"
)

// ValidateName validates a user's display name
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return errors.New("name is required")
	}

	if len(trimmed) > 100 {
		return errors.New("name is too long (max 100 characters)")
	}

	return nil
}

// ValidateAge rejects negative ages; zero means unset.
func ValidateAge(age int) error {
	if age < 0 {
		return errors.New("age must be a positive number")
	}
	return nil
}

// ValidateDescription validates a task description
func ValidateDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return errors.New("description is required")
	}
	return nil
}
