package model

import (
	"errors"
	"fmt"
)

var (
	ErrTaskNotFound          = errors.New("scheduled task not found")
	ErrConfigurationNotFound = errors.New("configuration not found")
	ErrExecutionNotFound     = errors.New("execution not found")
)

// ValidationError reports a schedule that fails a structural or range rule.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid schedule: " + e.Reason
}

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
