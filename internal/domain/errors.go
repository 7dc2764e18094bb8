package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrValidation one or more appointment fields are invalid (see ValidationError)
	ErrValidation = errors.New("validation failed")

	// ErrConflict the requested slot became unavailable; the caller may retry with another slot
	ErrConflict = errors.New("slot conflict")

	// ErrNotFound a referenced entity does not exist or is inactive
	ErrNotFound = errors.New("not found")

	// ErrConfiguration barbershop configuration violates its invariants
	ErrConfiguration = errors.New("invalid barbershop configuration")

	// ErrInvalidInput malformed argument (non-positive interval, unknown weekday, ...)
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError collects per-field validation reasons.
// errors.Is(err, ErrValidation) is always true; errors.Is(err, ErrNotFound) is true
// when at least one field references an unknown or inactive entity.
type ValidationError struct {
	Fields   map[string]string
	notFound bool
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records reason for field. The first reason per field wins.
func (e *ValidationError) Add(field, reason string) {
	if _, exists := e.Fields[field]; exists {
		return
	}
	e.Fields[field] = reason
}

// AddNotFound records a reason caused by an unknown or inactive reference
func (e *ValidationError) AddNotFound(field, reason string) {
	e.Add(field, reason)
	e.notFound = true
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// ErrOrNil returns e as error if it holds any field, nil otherwise
func (e *ValidationError) ErrOrNil() error {
	if !e.HasErrors() {
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
		parts = append(parts, f+": "+e.Fields[f])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation || (e.notFound && target == ErrNotFound)
}

// ConfigurationError lists every violated configuration invariant
type ConfigurationError struct {
	Reasons []string
}

func (e *ConfigurationError) Error() string {
	return ErrConfiguration.Error() + ": " + strings.Join(e.Reasons, "; ")
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}
