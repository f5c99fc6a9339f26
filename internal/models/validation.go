package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation is wrapped by every ValidationErrors value.
var ErrValidation = errors.New("validation failed")

// FieldError describes one invalid field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationErrors collects field errors for a record.
type ValidationErrors struct {
	Errors []FieldError
}

// AddMessage appends a field error.
func (v *ValidationErrors) AddMessage(field, message string) {
	v.Errors = append(v.Errors, FieldError{Field: field, Message: message})
}

// Merge appends the field errors of err under prefix when err is a
// *ValidationErrors, or records it verbatim otherwise.
func (v *ValidationErrors) Merge(prefix string, err error) {
	if err == nil {
		return
	}
	var nested *ValidationErrors
	if errors.As(err, &nested) {
		for _, fe := range nested.Errors {
			v.AddMessage(prefix+"."+fe.Field, fe.Message)
		}
		return
	}
	v.AddMessage(prefix, err.Error())
}

// Err returns nil when no errors were collected.
func (v *ValidationErrors) Err() error {
	if len(v.Errors) == 0 {
		return nil
	}
	return v
}

func (v *ValidationErrors) Error() string {
	parts := make([]string, 0, len(v.Errors))
	for _, fe := range v.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (v *ValidationErrors) Unwrap() error {
	return ErrValidation
}
