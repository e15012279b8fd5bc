package api

import "regexp"

// usernamePattern is the syntactic shape of a valid username: starts
// with a letter, alphanumeric, at most 30 characters total.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9]{1,29}$`)

// minPasswordLength is the minimum accepted password length at
// registration time.
const minPasswordLength = 8

// ValidateUsername checks the username against the syntactic pattern.
// Returns a BadRequest error on violation, nil otherwise.
func ValidateUsername(username string) *Error {
	if !usernamePattern.MatchString(username) {
		return NewBadRequest("invalid user name")
	}
	return nil
}

// ValidatePassword checks the minimum password length at registration.
func ValidatePassword(password string) *Error {
	if len(password) < minPasswordLength {
		return NewBadRequest("password must be at least 8 characters")
	}
	return nil
}
