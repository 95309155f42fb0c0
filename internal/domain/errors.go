package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/nlescano/floordesk/internal/validation"
)

var ErrNotFound = errors.New("not found")

// ValidationError reports malformed input rejected before any calculation runs.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(e.Violations))
	for f := range e.Violations {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e.Violations[f])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func NewValidationError(v validation.Violations) *ValidationError {
	return &ValidationError{Violations: v}
}

// ConflictError reports a clash with current stored state: duplicate offer
// numbers, illegal status transitions, deleting a variant still referenced
// by a live offer.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return "conflict: " + e.Reason }

func NewConflictError(format string, args ...any) *ConflictError {
	return &ConflictError{Reason: fmt.Sprintf(format, args...)}
}

// StructuralError reports an impossible clone request: missing target or
// source and target being the same entity.
type StructuralError struct {
	Reason string
}

func (e *StructuralError) Error() string { return "structural: " + e.Reason }

func NewStructuralError(format string, args ...any) *StructuralError {
	return &StructuralError{Reason: fmt.Sprintf(format, args...)}
}
