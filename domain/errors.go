package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotConfigured marks a call whose credential or endpoint is absent
	ErrNotConfigured = errors.New("not configured")
	// ErrNotFound marks a lookup by id that matched nothing
	ErrNotFound = errors.New("not found")
)

// ExternalCallError wraps a failure of an outside collaborator
type ExternalCallError struct {
	Service   string
	Operation string
	Err       error
}

func (e *ExternalCallError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Service, e.Operation, e.Err)
}

func (e *ExternalCallError) Unwrap() error {
	return e.Err
}

// ValidationError reports an unusable request field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NotConfigured builds an ErrNotConfigured error naming the missing setting
func NotConfigured(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotConfigured)
}

// FormatErrorForUser converts technical errors to user-friendly messages.
// This should only be called at the handler level.
func FormatErrorForUser(err error) string {
	if err == nil {
		return ""
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Error()
	}
	if errors.Is(err, ErrNotConfigured) {
		return err.Error()
	}
	if errors.Is(err, ErrNotFound) {
		return err.Error()
	}

	errStr := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errStr, "deadline exceeded"), strings.Contains(errStr, "timeout"):
		return "operation timed out"
	case strings.Contains(errStr, "unsupported deployment target"):
		return "unsupported deployment target"
	case strings.Contains(errStr, "permission denied"):
		return "permission denied"
	case strings.Contains(errStr, "connection refused"), strings.Contains(errStr, "no such host"):
		return "external service unreachable"
	default:
		return "an unexpected error occurred"
	}
}
