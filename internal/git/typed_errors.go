package git

import "fmt"

// BranchNotFoundError reports that the requested branch does not exist on the remote.
type BranchNotFoundError struct {
	URL, Branch string
	Err         error
}

func (e *BranchNotFoundError) Error() string {
	return fmt.Sprintf("remote branch %s not found in upstream %s: %v", e.Branch, e.URL, e.Err)
}
func (e *BranchNotFoundError) Unwrap() error { return e.Err }

// AlreadyExistsError reports that the clone target is not an empty directory.
type AlreadyExistsError struct {
	Dir string
	Err error
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("destination path '%s' already exists and is not an empty directory", e.Dir)
}
func (e *AlreadyExistsError) Unwrap() error { return e.Err }

// TransientError wraps failures that may succeed when retried.
type TransientError struct {
	URL string
	Err error
}

func (e *TransientError) Error() string { return fmt.Sprintf("clone %s: %v", e.URL, e.Err) }
func (e *TransientError) Unwrap() error { return e.Err }

// CloneError is any other clone failure.
type CloneError struct {
	URL string
	Err error
}

func (e *CloneError) Error() string { return fmt.Sprintf("clone %s: %v", e.URL, e.Err) }
func (e *CloneError) Unwrap() error { return e.Err }
