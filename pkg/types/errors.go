package types

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Specific errors below wrap one of these so callers can branch
// with errors.Is on the kind alone.
var (
	ErrNotFound             = errors.New("not found")
	ErrConflict             = errors.New("conflict")
	ErrReferentialIntegrity = errors.New("referential integrity violation")
	ErrStoreUnavailable     = errors.New("store unavailable")
)

var (
	ErrCategoryNotFound  = fmt.Errorf("category %w", ErrNotFound)
	ErrResourceNotFound  = fmt.Errorf("resource %w", ErrNotFound)
	ErrCategoryNameTaken = fmt.Errorf("category name already exists: %w", ErrConflict)
	ErrCategoryInUse     = fmt.Errorf("category is still referenced by resources: %w", ErrReferentialIntegrity)
	ErrUnknownCategory   = fmt.Errorf("category does not exist: %w", ErrReferentialIntegrity)
)

type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError carries every field-level violation of a rejected input.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		if fe.Path == "" {
			parts = append(parts, fe.Message)
			continue
		}
		parts = append(parts, fe.Path+": "+fe.Message)
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Add(path, message string) {
	e.Errors = append(e.Errors, FieldError{Path: path, Message: message})
}

// Err returns e when it holds at least one violation and nil otherwise.
func (e *ValidationError) Err() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}
