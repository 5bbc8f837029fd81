// Package errors provides the classified error type used for every run-terminating
// condition in gitbatch, and the adapter that turns one into a log line and an exit code.
//
//	err := errors.GitError("Git error: " + msg).
//		WithContext("url", spec.URL).
//		WithCause(cloneErr).
//		Build()
//	os.Exit(errors.NewCLIErrorAdapter(false, logger).Report(err, nil))
package errors
