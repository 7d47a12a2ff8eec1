// Package errors defines the error taxonomy for the reconciliation service.
//
// The matching core itself cannot fail given typed input; all fallibility is
// concentrated at the boundary where files are read and raw text is handed to
// the engine. Errors carry a category, a machine-readable code, an optional
// user-facing suggestion, and contextual key-value pairs, and map to process
// exit codes for the CLI.
package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Category groups errors by the subsystem that produced them.
type Category string

const (
	CategoryFile          Category = "file"
	CategoryParse         Category = "parse"
	CategoryValidation    Category = "validation"
	CategoryConfiguration Category = "configuration"
	CategoryInternal      Category = "internal"
)

// Code identifies a specific error condition within a category.
type Code string

const (
	// File errors
	CodeFileNotFound   Code = "file_not_found"
	CodeFilePermission Code = "file_permission"
	CodeFileUnreadable Code = "file_unreadable"

	// Parse errors
	CodeInvalidFormat Code = "invalid_format"
	CodeEmptyInput    Code = "empty_input"

	// Validation errors
	CodeInvalidAmount Code = "invalid_amount"
	CodeMissingField  Code = "missing_field"

	// Configuration errors
	CodeInvalidConfig Code = "invalid_config"

	// Internal errors
	CodeUnexpectedError Code = "unexpected_error"
)

// ReconcileError is the base error type for all application errors.
type ReconcileError struct {
	Category   Category          `json:"category"`
	Code       Code              `json:"code"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion,omitempty"`
	Context    Context           `json:"context,omitempty"`
	Cause      error             `json:"-"`
	StackTrace errors.StackTrace `json:"-"`
}

// Context provides additional information about the error.
type Context map[string]interface{}

// Error implements the error interface.
func (e *ReconcileError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (suggestion: %s)", e.Message, e.Suggestion)
	}
	return e.Message
}

// Unwrap returns the underlying cause error.
func (e *ReconcileError) Unwrap() error {
	return e.Cause
}

// GetExitCode returns an appropriate process exit code for the error.
func (e *ReconcileError) GetExitCode() int {
	switch e.Category {
	case CategoryFile:
		return 2
	case CategoryParse, CategoryValidation:
		return 3
	case CategoryConfiguration:
		return 4
	case CategoryInternal:
		return 5
	default:
		return 1
	}
}

// WithContext adds context information to the error.
func (e *ReconcileError) WithContext(key string, value interface{}) *ReconcileError {
	if e.Context == nil {
		e.Context = make(Context)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion for fixing the error.
func (e *ReconcileError) WithSuggestion(suggestion string) *ReconcileError {
	e.Suggestion = suggestion
	return e
}

// stackTracer is implemented by errors produced by github.com/pkg/errors.
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// New creates a new ReconcileError.
func New(category Category, code Code, message string) *ReconcileError {
	return &ReconcileError{
		Category:   category,
		Code:       code,
		Message:    message,
		StackTrace: errors.New("").(stackTracer).StackTrace(),
	}
}

// Wrap wraps an existing error with ReconcileError context.
func Wrap(err error, category Category, code Code, message string) *ReconcileError {
	if err == nil {
		return nil
	}

	return &ReconcileError{
		Category:   category,
		Code:       code,
		Message:    message,
		Cause:      err,
		StackTrace: errors.WithStack(err).(stackTracer).StackTrace(),
	}
}

// FileError creates a file-related error for the given path.
func FileError(code Code, path string, err error) *ReconcileError {
	var message string
	var suggestion string

	switch code {
	case CodeFileNotFound:
		message = fmt.Sprintf("file not found: %s", path)
		suggestion = "check if the file path is correct and the file exists"
	case CodeFilePermission:
		message = fmt.Sprintf("permission denied accessing file: %s", path)
		suggestion = "check file permissions and ensure you have read access"
	default:
		message = fmt.Sprintf("cannot read file: %s", path)
		suggestion = "verify the file is a readable CSV export"
	}

	var result *ReconcileError
	if err != nil {
		result = Wrap(err, CategoryFile, code, message)
	} else {
		result = New(CategoryFile, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("file_path", path)
}

// ParseError creates an ingestion-related error for an unusable input blob.
func ParseError(code Code, side string, err error) *ReconcileError {
	var message string
	var suggestion string

	switch code {
	case CodeEmptyInput:
		message = fmt.Sprintf("%s input contains no data rows", side)
		suggestion = "ensure the file contains a header row followed by data rows"
	default:
		message = fmt.Sprintf("%s input could not be parsed", side)
		suggestion = "check that the file is comma-delimited with the expected columns"
	}

	var result *ReconcileError
	if err != nil {
		result = Wrap(err, CategoryParse, code, message)
	} else {
		result = New(CategoryParse, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("ledger_side", side)
}

// ValidationError creates a validation-related error.
func ValidationError(code Code, field string, value interface{}, err error) *ReconcileError {
	var message string
	var suggestion string

	switch code {
	case CodeInvalidAmount:
		message = fmt.Sprintf("invalid amount in field '%s': %v", field, value)
		suggestion = "ensure amounts are valid decimal numbers (e.g., '1,234.56')"
	case CodeMissingField:
		message = fmt.Sprintf("required field '%s' is missing or empty", field)
		suggestion = "provide a value for this required field"
	default:
		message = fmt.Sprintf("validation error in field '%s': %v", field, value)
		suggestion = "check the field value and format"
	}

	var result *ReconcileError
	if err != nil {
		result = Wrap(err, CategoryValidation, code, message)
	} else {
		result = New(CategoryValidation, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("field", field).
		WithContext("value", value)
}

// ConfigurationError creates a configuration-related error.
func ConfigurationError(setting string, value interface{}, err error) *ReconcileError {
	message := fmt.Sprintf("invalid configuration for '%s': %v", setting, value)

	var result *ReconcileError
	if err != nil {
		result = Wrap(err, CategoryConfiguration, CodeInvalidConfig, message)
	} else {
		result = New(CategoryConfiguration, CodeInvalidConfig, message)
	}

	return result.
		WithSuggestion("check the configuration documentation for valid values").
		WithContext("setting", setting).
		WithContext("value", value)
}

// InternalError creates an internal error for an unexpected failure.
func InternalError(operation string, err error) *ReconcileError {
	message := fmt.Sprintf("unexpected error during %s", operation)

	var result *ReconcileError
	if err != nil {
		result = Wrap(err, CategoryInternal, CodeUnexpectedError, message)
	} else {
		result = New(CategoryInternal, CodeUnexpectedError, message)
	}

	return result.
		WithSuggestion("this is likely a bug - please report it with the error details").
		WithContext("operation", operation)
}

// IsReconcileError checks if an error is a ReconcileError.
func IsReconcileError(err error) bool {
	_, ok := err.(*ReconcileError)
	return ok
}

// AsReconcileError extracts a ReconcileError from an error chain.
func AsReconcileError(err error) (*ReconcileError, bool) {
	var reconcileErr *ReconcileError
	if errors.As(err, &reconcileErr) {
		return reconcileErr, true
	}
	return nil, false
}
