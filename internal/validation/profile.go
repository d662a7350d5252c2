package validation

import (
	"fmt"
	"regexp"
	"time"
)

// MinSignupAge is the youngest age allowed to register.
const MinSignupAge = 18

var nameRegex = regexp.MustCompile(`^[\p{L} '.-]+$`)

// ValidateName checks if a display name meets requirements
func ValidateName(name string) error {
	if len(name) < 2 {
		return fmt.Errorf("name must be at least 2 characters long")
	}

	if len(name) > 60 {
		return fmt.Errorf("name must not exceed 60 characters")
	}

	if !nameRegex.MatchString(name) {
		return fmt.Errorf("name can only contain letters, spaces, apostrophes, and hyphens")
	}

	return nil
}

// ValidateBirthDate checks that a birth date is a real YYYY-MM-DD date, not
// in the future, and at least MinSignupAge years in the past.
func ValidateBirthDate(birthDate string) error {
	dob, err := time.Parse("2006-01-02", birthDate)
	if err != nil {
		return fmt.Errorf("birth date must be in YYYY-MM-DD format")
	}

	now := time.Now().UTC()
	if dob.After(now) {
		return fmt.Errorf("birth date cannot be in the future")
	}

	cutoff := now.AddDate(-MinSignupAge, 0, 0)
	if dob.After(cutoff) {
		return fmt.Errorf("you must be at least %d years old to register", MinSignupAge)
	}

	return nil
}
