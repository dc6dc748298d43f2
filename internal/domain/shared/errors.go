// Package shared contains common domain types, errors, and value objects
// that are used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrNegativeValue   = errors.New("value cannot be negative")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// State errors
	ErrInvalidState = errors.New("invalid state")
	ErrExpired      = errors.New("expired")

	// Data store errors
	ErrDataStore          = errors.New("data store failure")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
	ErrRateLimited        = errors.New("rate limited")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "user", "workout", "recommendation"
	Op      string // Operation that failed, e.g., "GetByID", "Score"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// User domain errors
var (
	ErrUserNotFound      = NewDomainError("user", "Find", ErrNotFound, "user not found")
	ErrUserAlreadyExists = NewDomainError("user", "Create", ErrAlreadyExists, "user already exists")
	ErrUserNotActive     = NewDomainError("user", "CheckStatus", ErrInvalidState, "user account is deactivated")
	ErrInvalidUserID     = NewDomainError("user", "Validate", ErrInvalidID, "invalid user ID")
	ErrInvalidUsername   = NewDomainError("user", "Validate", ErrInvalidInput, "invalid username")
	ErrInvalidEmail      = NewDomainError("user", "Validate", ErrInvalidFormat, "invalid email address")
)

// Connection domain errors
var (
	ErrConnectionNotFound = NewDomainError("connection", "Find", ErrNotFound, "connection not found")
	ErrConnectionExists   = NewDomainError("connection", "Create", ErrAlreadyExists, "connection already exists")
	ErrSelfConnection     = NewDomainError("connection", "Create", ErrInvalidInput, "cannot connect to self")
)

// Workout domain errors
var (
	ErrWorkoutNotFound    = NewDomainError("workout", "Find", ErrNotFound, "workout not found")
	ErrInvalidWorkoutType = NewDomainError("workout", "Validate", ErrInvalidInput, "invalid workout type")
	ErrInvalidDuration    = NewDomainError("workout", "Validate", ErrValueOutOfRange, "invalid workout duration")
)

// Recommendation domain errors
var (
	ErrInvalidLimit    = NewDomainError("recommendation", "Validate", ErrValueOutOfRange, "limit must be positive")
	ErrInvalidMinScore = NewDomainError("recommendation", "Validate", ErrValueOutOfRange, "min score must be between 0 and 1")
	ErrInvalidWeights  = NewDomainError("recommendation", "Configure", ErrInvalidInput, "scoring weights must be non-negative with a positive sum")
)

// Data store errors
var (
	ErrStoreUnavailable = NewDomainError("store", "Query", ErrServiceUnavailable, "data store is unavailable")
	ErrStoreQueryFailed = NewDomainError("store", "Query", ErrDataStore, "data store query failed")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsDataStore checks if the error originates from the persistence layer.
func IsDataStore(err error) bool {
	return errors.Is(err, ErrDataStore) ||
		errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout)
}

// IsRetryable checks if the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout)
}
