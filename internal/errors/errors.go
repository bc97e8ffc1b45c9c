// Package errors provides a lightweight structured error type (TopsoilError)
// for category-based classification in the build pipeline and CLI.
package errors

import (
	stdErrors "errors"
	"fmt"
)

// ErrorCategory represents the category of a Topsoil error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Site source errors
	CategoryData     ErrorCategory = "data"
	CategoryTemplate ErrorCategory = "template"

	// Build and output errors
	CategoryBuild      ErrorCategory = "build"
	CategoryFileSystem ErrorCategory = "filesystem"

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

// TopsoilError is a structured error with category, severity and context
type TopsoilError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for TopsoilError
type ContextFields map[string]any

// Error implements the error interface
func (e *TopsoilError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *TopsoilError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *TopsoilError) WithContext(key string, value any) *TopsoilError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new TopsoilError
func New(category ErrorCategory, severity ErrorSeverity, message string) *TopsoilError {
	return &TopsoilError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new TopsoilError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *TopsoilError {
	return &TopsoilError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// As returns the first TopsoilError in err's tree.
func As(err error) (*TopsoilError, bool) {
	var te *TopsoilError
	if stdErrors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if te, ok := As(err); ok {
		return te.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a TopsoilError
func GetCategory(err error) ErrorCategory {
	if te, ok := As(err); ok {
		return te.Category
	}
	return CategoryInternal
}
