// Package errors provides a lightweight structured error type (WorkerError)
// for category-based classification and retry semantics in HTTP adapters and CLI.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of a worker error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Bundle and processing errors
	CategoryBundle   ErrorCategory = "bundle"
	CategoryPipeline ErrorCategory = "pipeline"

	// External system integration errors
	CategoryNetwork ErrorCategory = "network"
	CategoryStorage ErrorCategory = "storage"

	// Runtime and infrastructure errors
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// WorkerError is a structured error with category, retryability, and context
type WorkerError struct {
	Category  ErrorCategory `json:"category"`
	Severity  ErrorSeverity `json:"severity"`
	Message   string        `json:"message"`
	Cause     error         `json:"cause,omitempty"`
	Retryable bool          `json:"retryable"`
	Context   ContextFields `json:"context,omitempty"`
}

// Build returns the error itself so call sites can end a fluent chain.
func (e *WorkerError) Build() *WorkerError {
	return e
}

// ContextFields carries structured context for WorkerError
type ContextFields map[string]any

// Error implements the error interface
func (e *WorkerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *WorkerError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *WorkerError) WithContext(key string, value any) *WorkerError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new WorkerError
func New(category ErrorCategory, severity ErrorSeverity, message string) *WorkerError {
	return &WorkerError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Retryable: false,
	}
}

// Wrap creates a new WorkerError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *WorkerError {
	return &WorkerError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Cause:     err,
		Retryable: false,
	}
}

// WrapRetryable creates a new retryable WorkerError that wraps an existing error
func WrapRetryable(err error, category ErrorCategory, severity ErrorSeverity, message string) *WorkerError {
	return &WorkerError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Cause:     err,
		Retryable: true,
	}
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if we, ok := err.(*WorkerError); ok {
		return we.Category == category
	}
	return false
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	if we, ok := err.(*WorkerError); ok {
		return we.Retryable
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a WorkerError
func GetCategory(err error) ErrorCategory {
	if we, ok := err.(*WorkerError); ok {
		return we.Category
	}
	return CategoryInternal
}

// ValidationError creates a new validation error (400 Bad Request)
func ValidationError(message string) *WorkerError {
	return &WorkerError{
		Category:  CategoryValidation,
		Severity:  SeverityWarning,
		Message:   message,
		Retryable: false,
	}
}

// WrapError wraps an existing error with a new WorkerError
func WrapError(err error, category ErrorCategory, message string) *WorkerError {
	return &WorkerError{
		Category:  category,
		Severity:  SeverityError,
		Message:   message,
		Cause:     err,
		Retryable: false,
	}
}
