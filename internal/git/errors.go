package git

import (
	"errors"
	"io/fs"
	"net"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	ferrors "git.home.luguber.info/inful/gitbatch/internal/foundation/errors"
)

// classifyCloneError wraps go-git errors into one of the typed clone errors.
func classifyCloneError(req CloneRequest, err error) error {
	if err == nil {
		return nil
	}
	var (
		branchErr *BranchNotFoundError
		existsErr *AlreadyExistsError
	)
	if errors.As(err, &branchErr) || errors.As(err, &existsErr) {
		return err
	}
	switch {
	case errors.Is(err, gogit.ErrRepositoryAlreadyExists), errors.Is(err, fs.ErrExist):
		return &AlreadyExistsError{Dir: req.Dir, Err: err}
	case isMissingBranch(err):
		return &BranchNotFoundError{URL: req.URL, Branch: req.Branch, Err: err}
	case isTransient(err):
		return &TransientError{URL: req.URL, Err: err}
	default:
		return &CloneError{URL: req.URL, Err: err}
	}
}

func isMissingBranch(err error) bool {
	if errors.Is(err, gogit.NoMatchingRefSpecError{}) || errors.Is(err, plumbing.ErrReferenceNotFound) {
		return true
	}
	l := strings.ToLower(err.Error())
	return strings.Contains(l, "couldn't find remote ref") || strings.Contains(l, "reference not found")
}

func isTransient(err error) bool {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}
	l := strings.ToLower(err.Error())
	for _, s := range []string{"timeout", "connection reset", "remote hung up", "unexpected eof", "connection refused", "temporary failure"} {
		if strings.Contains(l, s) {
			return true
		}
	}
	return false
}

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	var terr *TransientError
	return errors.As(err, &terr)
}

// Classify turns a typed clone error into a ClassifiedError carrying message.
// The category follows the error class: missing branch is not_found,
// an occupied target is already_exists, everything else is git.
func Classify(err error, message string) error {
	if err == nil {
		return nil
	}
	if _, ok := ferrors.AsClassified(err); ok {
		return err
	}
	var (
		branchErr *BranchNotFoundError
		existsErr *AlreadyExistsError
	)
	switch {
	case errors.As(err, &branchErr):
		return ferrors.NotFoundError(message).WithCause(err).
			WithContext("url", branchErr.URL).WithContext("branch", branchErr.Branch).Build()
	case errors.As(err, &existsErr):
		return ferrors.AlreadyExistsError(message).WithCause(err).Build()
	case IsTransient(err):
		return ferrors.GitError(message).WithCategory(ferrors.CategoryNetwork).WithCause(err).Build()
	default:
		return ferrors.GitError(message).WithCause(err).Build()
	}
}
