package errors

// ErrorBuilder provides a fluent API for creating ClassifiedError instances.
type ErrorBuilder struct {
	err ClassifiedError
}

// NewError starts a builder for an error of the given category. Severity defaults to error.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{err: ClassifiedError{
		category: category,
		severity: SeverityError,
		message:  message,
		context:  make(ErrorContext),
	}}
}

// WithCategory overrides the category chosen at construction.
func (b *ErrorBuilder) WithCategory(category ErrorCategory) *ErrorBuilder {
	b.err.category = category
	return b
}

// WithSeverity sets the error severity.
func (b *ErrorBuilder) WithSeverity(severity ErrorSeverity) *ErrorBuilder {
	b.err.severity = severity
	return b
}

// WithCause records the underlying error.
func (b *ErrorBuilder) WithCause(err error) *ErrorBuilder {
	b.err.cause = err
	return b
}

// WithContext adds a context key-value pair.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.err.context = b.err.context.Set(key, value)
	return b
}

// Build returns the ClassifiedError. The builder must not be reused afterwards.
func (b *ErrorBuilder) Build() *ClassifiedError {
	out := b.err
	return &out
}

func fatal(category ErrorCategory, message string) *ErrorBuilder {
	return NewError(category, message).WithSeverity(SeverityFatal)
}

// ConfigError reports a missing batch file or a bad environment value or flag.
func ConfigError(message string) *ErrorBuilder { return fatal(CategoryConfig, message) }

// ValidationError reports a malformed batch file line.
func ValidationError(message string) *ErrorBuilder { return fatal(CategoryValidation, message) }

// GitError reports a clone failure.
func GitError(message string) *ErrorBuilder { return fatal(CategoryGit, message) }

// NotFoundError reports a missing branch or subpath.
func NotFoundError(message string) *ErrorBuilder { return fatal(CategoryNotFound, message) }

// AlreadyExistsError reports a destination conflict.
func AlreadyExistsError(message string) *ErrorBuilder { return fatal(CategoryAlreadyExists, message) }

// FileSystemError reports a local copy or temp directory failure.
func FileSystemError(message string) *ErrorBuilder { return fatal(CategoryFileSystem, message) }

// RuntimeError reports an interrupted run.
func RuntimeError(message string) *ErrorBuilder { return fatal(CategoryRuntime, message) }
