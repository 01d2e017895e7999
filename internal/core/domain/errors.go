package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateUser      = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid password")
	ErrExpiredToken       = errors.New("refresh token expired")
	ErrInvalidUser        = errors.New("invalid user")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")

	ErrConfiguration  = errors.New("configuration error")
	ErrPersistence    = errors.New("persistence error")
	ErrConcurrency    = errors.New("concurrency conflict")
	ErrInvalidQuery   = errors.New("invalid query")
	ErrUnknownInclude = errors.New("unknown include")
)

// ConfigurationError reports a required setting that is missing or unusable.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("configuration: %s is required", e.Key)
	}
	return fmt.Sprintf("configuration: %s: %s", e.Key, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// PersistenceError reports a write rejected by a storage constraint.
type PersistenceError struct {
	Table      string
	Constraint string
	Err        error
}

func (e *PersistenceError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("persistence: %s violates %s: %v", e.Table, e.Constraint, e.Err)
	}
	return fmt.Sprintf("persistence: %s: %v", e.Table, e.Err)
}

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

func (e *PersistenceError) Unwrap() error { return e.Err }

// ConcurrencyError reports an update or delete that matched no current row.
type ConcurrencyError struct {
	Table string
	ID    any
}

func (e *ConcurrencyError) Error() string {
	return fmt.Sprintf("concurrency: %s row %v was modified or removed", e.Table, e.ID)
}

func (e *ConcurrencyError) Is(target error) bool { return target == ErrConcurrency }
