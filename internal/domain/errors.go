package domain

import (
	"fmt"
	"strings"
)

// Error types for consistent error handling across the service.

// ErrNotFound indicates a referenced customer, order, or document does not
// exist.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrConflict indicates a unique-key collision: a company name that is
// already registered, or a batch containing one. Names carries every
// offending company name so batch callers see the full set.
type ErrConflict struct {
	Names []string
}

func (e *ErrConflict) Error() string {
	if len(e.Names) == 1 {
		return fmt.Sprintf("customer with company name %q already exists", e.Names[0])
	}
	return fmt.Sprintf("customers with company names already exist: %s", strings.Join(e.Names, ", "))
}

// ErrValidation indicates malformed input (bad enum value, out-of-range
// score, malformed phone/email/string length).
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}
