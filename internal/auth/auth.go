// Package auth holds the credential format checks that gate the login.
// There is no identity backend: a well-formed email and password are enough.
package auth

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinPasswordLength is the shortest password accepted by the login form.
const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Errors returned by CheckCredentials.
var (
	ErrInvalidEmail    = errors.New("invalid email")
	ErrInvalidPassword = errors.New("password must have at least 6 characters")
)

// ValidEmail reports whether email looks like name@domain.tld.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// CheckCredentials validates the format of the login form fields.
func CheckCredentials(email, password string) error {
	if !ValidEmail(email) {
		return ErrInvalidEmail
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrInvalidPassword
	}
	return nil
}
