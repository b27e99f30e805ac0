package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrClubNotFound        = errors.New("club not found")
	ErrProposalNotFound    = errors.New("proposal not found")
	ErrAccessDenied        = errors.New("access denied")
	ErrProposalNotActive   = errors.New("proposal is not active")
	ErrProposalNotApproved = errors.New("proposal is not approved")
	ErrDeadlinePassed      = errors.New("proposal deadline has passed")
	ErrAlreadyVoted        = errors.New("already voted on this proposal")
	ErrInternal            = errors.New("internal server error")
)

// ValidationError carries one message per offending input field.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = message
}

// Err returns nil when no field failed, so callers can
// `if err := v.Err(); err != nil` after collecting checks.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e.Fields[f]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
