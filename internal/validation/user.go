// Package validation provides input validation utilities
package validation

import (
	"errors"
	"regexp"
	"strings"
)

const (
	UsernameMinLength = 3
	UsernameMaxLength = 30
	PasswordMinLength = 6
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ValidateUsername checks presence, length and allowed characters, in that order.
func ValidateUsername(username string) error {
	if username == "" {
		return errors.New("Username is required.")
	}
	if n := len(username); n < UsernameMinLength || n > UsernameMaxLength {
		return errors.New("Username must be between 3 and 30 characters.")
	}
	if !usernamePattern.MatchString(username) {
		return errors.New("Username may only contain letters, numbers, and underscores.")
	}
	return nil
}

// ValidateEmail checks basic email shape: an '@' past the first character
// followed somewhere by a '.'.
func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("Email is required.")
	}
	at := strings.Index(email, "@")
	if at <= 0 || !strings.Contains(email[at+1:], ".") {
		return errors.New("Email is not valid.")
	}
	return nil
}

// ValidatePassword checks presence and minimum length.
func ValidatePassword(password string) error {
	if password == "" {
		return errors.New("Password is required.")
	}
	if len(password) < PasswordMinLength {
		return errors.New("Password must be at least 6 characters.")
	}
	return nil
}
