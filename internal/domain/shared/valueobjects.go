// Package shared contains common domain types, errors, and value objects
// that are used across all domain packages.
package shared

import (
	"regexp"
	"strings"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// UserID represents a unique user identifier (UUID format).
type UserID string

// UUID validation regex (simple version).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsValid checks if the user ID is a valid UUID.
func (u UserID) IsValid() bool {
	return uuidRegex.MatchString(string(u))
}

// String returns the string representation.
func (u UserID) String() string {
	return string(u)
}

// IsEmpty checks if the ID is empty.
func (u UserID) IsEmpty() bool {
	return u == ""
}

// NewUserID creates a new UserID with validation.
func NewUserID(id string) (UserID, error) {
	uid := UserID(strings.ToLower(strings.TrimSpace(id)))
	if !uid.IsValid() {
		return "", ErrInvalidUserID
	}
	return uid, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Username Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Username represents a unique public handle.
type Username string

// Regular expression for valid username format.
var usernameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]{2,29}$`)

// IsValid checks if the username is valid.
func (n Username) IsValid() bool {
	return usernameRegex.MatchString(string(n))
}

// String returns the string representation.
func (n Username) String() string {
	return string(n)
}

// Normalize returns a normalized (lowercase) version of the username.
func (n Username) Normalize() Username {
	return Username(strings.ToLower(string(n)))
}

// NewUsername creates a new Username with validation.
func NewUsername(value string) (Username, error) {
	n := Username(strings.TrimSpace(value))
	if !n.IsValid() {
		return "", ErrInvalidUsername
	}
	return n.Normalize(), nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Email Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Email represents a user's email address.
type Email string

// Loose email check, full validation belongs to a mail delivery layer.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// IsValid checks if the email has a plausible format.
func (e Email) IsValid() bool {
	return emailRegex.MatchString(string(e))
}

// String returns the string representation.
func (e Email) String() string {
	return string(e)
}

// Normalize returns a normalized (lowercase, trimmed) version of the email.
func (e Email) Normalize() Email {
	return Email(strings.ToLower(strings.TrimSpace(string(e))))
}

// NewEmail creates a new Email with validation.
func NewEmail(value string) (Email, error) {
	e := Email(value).Normalize()
	if !e.IsValid() {
		return "", ErrInvalidEmail
	}
	return e, nil
}
