package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"git.home.luguber.info/inful/gitbatch/internal/logging"
)

// CLIErrorAdapter handles error presentation and exit code determination for the command line.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

// NewCLIErrorAdapter creates a new CLI error adapter. A nil logger means slog.Default.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{verbose: verbose, logger: logger}
}

// ExitCodeFor determines the exit code for an error: 0 for nil, 1 for unclassified errors.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	if classified, ok := AsClassified(err); ok {
		return classified.Category().ExitCode()
	}
	return 1
}

// FormatError formats an error as a single human-readable line.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	classified, ok := AsClassified(err)
	if !ok {
		return fmt.Sprintf("Error: %v", err)
	}
	if a.verbose && classified.Cause() != nil {
		return fmt.Sprintf("%s: %v", classified.Message(), classified.Cause())
	}
	return classified.Message()
}

// Report logs err and, when w is not nil, writes the user-facing message to it.
// It returns the exit code.
func (a *CLIErrorAdapter) Report(err error, w io.Writer) int {
	if err == nil {
		return 0
	}
	a.logError(err)
	if w != nil {
		_, _ = fmt.Fprintln(w, a.FormatError(err))
	}
	return a.ExitCodeFor(err)
}

func (a *CLIErrorAdapter) logError(err error) {
	classified, ok := AsClassified(err)
	if !ok {
		logging.Critical(a.logger, err.Error())
		return
	}

	attrs := []slog.Attr{slog.String("category", string(classified.Category()))}
	for k, v := range classified.Context() {
		attrs = append(attrs, slog.Any(k, v))
	}
	if a.verbose && classified.Cause() != nil {
		attrs = append(attrs, slog.String("cause", classified.Cause().Error()))
	}
	a.logger.LogAttrs(context.Background(), levelFor(classified.Severity()), classified.Message(), attrs...)
}

func levelFor(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityWarning:
		return slog.LevelWarn
	case SeverityError:
		return slog.LevelError
	default:
		return logging.LevelCritical
	}
}
