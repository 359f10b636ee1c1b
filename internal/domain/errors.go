package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidState       = errors.New("invalid state")
	ErrConflict           = errors.New("conflict")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrAccountLocked      = errors.New("account locked")
)

// IneligibleError carries the human-readable reason a student fails a
// scholarship's eligibility criteria.
type IneligibleError struct {
	Reason string
}

func (e *IneligibleError) Error() string {
	return "ineligible: " + e.Reason
}

// Ineligible builds an IneligibleError from a format string.
func Ineligible(format string, args ...any) error {
	return &IneligibleError{Reason: fmt.Sprintf(format, args...)}
}

// ValidationError collects field-level input problems.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// Validation builds a ValidationError, or nil when there are no messages.
func Validation(messages ...string) error {
	if len(messages) == 0 {
		return nil
	}
	return &ValidationError{Messages: messages}
}
