package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < 8 {
		return ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	return nil
}

// ValidateName checks if a name is valid
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if len(name) < 2 {
		return ValidationError{Field: "name", Message: "name must be at least 2 characters"}
	}
	return nil
}

// ValidateID checks that an identifier has been supplied
func ValidateID(field string, id int64) error {
	if id <= 0 {
		return ValidationError{Field: field, Message: field + " is required"}
	}
	return nil
}

// ValidateAnswer checks that a submitted answer is not empty
func ValidateAnswer(answer string) error {
	if strings.TrimSpace(answer) == "" {
		return ValidationError{Field: "answer", Message: "answer is required"}
	}
	return nil
}

// ValidateRole checks a role against the allowed set
func ValidateRole(role string, allowed ...string) error {
	for _, a := range allowed {
		if role == a {
			return nil
		}
	}
	return ValidationError{Field: "role", Message: "invalid role: " + role}
}

// ValidateTaskCount checks a requested task generation count
func ValidateTaskCount(count int) error {
	if count < 1 {
		return ValidationError{Field: "count", Message: "count must be at least 1"}
	}
	if count > 50 {
		return ValidationError{Field: "count", Message: "count must be at most 50"}
	}
	return nil
}
