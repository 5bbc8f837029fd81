package errors

import (
	stderrors "errors"
	"fmt"
)

// ClassifiedError is an error with a category, a severity, a user-facing message and context.
type ClassifiedError struct {
	category ErrorCategory
	severity ErrorSeverity
	message  string
	cause    error
	context  ErrorContext
}

func (e *ClassifiedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.category, e.message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.category, e.message)
}

func (e *ClassifiedError) Unwrap() error { return e.cause }

// Category returns the error category.
func (e *ClassifiedError) Category() ErrorCategory { return e.category }

// Severity returns the error severity.
func (e *ClassifiedError) Severity() ErrorSeverity { return e.severity }

// Message returns the single-line message shown to the user.
func (e *ClassifiedError) Message() string { return e.message }

// Cause returns the underlying error, if any.
func (e *ClassifiedError) Cause() error { return e.cause }

// Context returns the structured context.
func (e *ClassifiedError) Context() ErrorContext { return e.context }

// IsFatal reports whether the error stops the run.
func (e *ClassifiedError) IsFatal() bool { return e.severity == SeverityFatal }

// AsClassified finds the first ClassifiedError in the chain.
func AsClassified(err error) (*ClassifiedError, bool) {
	var classified *ClassifiedError
	if stderrors.As(err, &classified) {
		return classified, true
	}
	return nil, false
}

// HasCategory checks whether the first ClassifiedError in the chain belongs to category.
func HasCategory(err error, category ErrorCategory) bool {
	if classified, ok := AsClassified(err); ok {
		return classified.category == category
	}
	return false
}
