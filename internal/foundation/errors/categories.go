package errors

// ErrorCategory is the broad class of a run-terminating condition. It selects the exit code.
type ErrorCategory string

const (
	// User input: the batch file, the environment and the flags.
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryAuth       ErrorCategory = "auth"

	// Remote side.
	CategoryNetwork  ErrorCategory = "network"
	CategoryGit      ErrorCategory = "git"
	CategoryNotFound ErrorCategory = "not_found"

	// Local side.
	CategoryAlreadyExists ErrorCategory = "already_exists"
	CategoryFileSystem    ErrorCategory = "filesystem"

	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// exitCodes maps categories to process exit codes. Anything unlisted exits with 1.
var exitCodes = map[ErrorCategory]int{
	CategoryValidation:    2,
	CategoryAuth:          5,
	CategoryConfig:        7,
	CategoryNetwork:       8,
	CategoryGit:           8,
	CategoryNotFound:      8,
	CategoryAlreadyExists: 9,
	CategoryInternal:      10,
	CategoryFileSystem:    11,
	CategoryRuntime:       12,
}

// ExitCode returns the process exit code for the category.
func (c ErrorCategory) ExitCode() int {
	if code, ok := exitCodes[c]; ok {
		return code
	}
	return 1
}

// ErrorSeverity decides the level a classified error is logged at.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal" // stops the run
	SeverityError   ErrorSeverity = "error"
	SeverityWarning ErrorSeverity = "warning"
)

// ErrorContext carries structured key/value pairs that are logged with the error.
type ErrorContext map[string]any

// Set adds or updates a context value.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}

// Get retrieves a context value.
func (c ErrorContext) Get(key string) (any, bool) {
	value, ok := c[key]
	return value, ok
}
