package core

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared across services.
var (
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a purchase order's status changed between
	// the caller's last read and the transition attempt. Callers should
	// re-read and retry — the engine never retries internally.
	ErrConflict = errors.New("document changed concurrently, re-read and retry")
)

// ValidationError is a caller-correctable input problem: bad GSTIN format,
// negative quantity or rate, discount exceeding the line total, missing
// place of supply, and so on. The message is safe to show verbatim.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validationErrorf(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// StateTransitionError is returned when a purchase order transition is not
// reachable from the order's current status, including conversion attempted
// on a non-Approved order.
type StateTransitionError struct {
	OrderID int
	From    POStatus
	To      POStatus
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("purchase order %d: cannot transition from %s to %s", e.OrderID, e.From, e.To)
}

// ComplianceErrors is the full list of statutory problems found while
// validating a reporting period. It is always a list, never a single
// message, so callers can surface every problem at once. A non-empty list
// blocks report generation.
type ComplianceErrors []string

func (e ComplianceErrors) Error() string {
	return fmt.Sprintf("compliance validation failed: %s", strings.Join(e, "; "))
}
