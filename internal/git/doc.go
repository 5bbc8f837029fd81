// Package git clones exactly one branch of a repository into a directory using go-git.
//
// Clone failures are surfaced as typed errors so callers can tell the three
// classes that matter apart without parsing git output:
//   - *BranchNotFoundError: the remote has no such branch
//   - *AlreadyExistsError: the target directory already holds content
//   - anything else (*CloneError, *TransientError): the clone failed
//
// Transient failures (timeouts, dropped connections) are retried according to
// a retry.Policy; every other class fails on the first attempt.
package git
