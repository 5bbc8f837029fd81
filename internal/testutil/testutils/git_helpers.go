// Package helpers provides fixtures shared by the gitbatch tests.
package helpers

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Origin is an on-disk repository that tests clone from by path.
type Origin struct {
	t        *testing.T
	Dir      string
	Repo     *git.Repository
	Worktree *git.Worktree
}

// NewOrigin initializes a repository named name in a temporary directory with HEAD on main.
func NewOrigin(t *testing.T, name string) *Origin {
	t.Helper()

	dir := filepath.Join(t.TempDir(), name)
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("failed to initialize git repo: %v", err)
	}
	head := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName("main"))
	if err := repo.Storer.SetReference(head); err != nil {
		t.Fatalf("failed to point HEAD at main: %v", err)
	}

	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("failed to get worktree: %v", err)
	}
	return &Origin{t: t, Dir: dir, Repo: repo, Worktree: w}
}

// Commit writes files (relative path to content) and commits them on the current branch.
func (o *Origin) Commit(files map[string]string, msg string) plumbing.Hash {
	o.t.Helper()

	for name, content := range files {
		full := filepath.Join(o.Dir, name)
		if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
			o.t.Fatalf("failed to create %s: %v", filepath.Dir(full), err)
		}
		if err := os.WriteFile(full, []byte(content), 0o600); err != nil {
			o.t.Fatalf("failed to write %s: %v", full, err)
		}
		if _, err := o.Worktree.Add(name); err != nil {
			o.t.Fatalf("failed to stage %s: %v", name, err)
		}
	}

	hash, err := o.Worktree.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "tester@example.com", When: time.Now()},
	})
	if err != nil {
		o.t.Fatalf("failed to commit: %v", err)
	}
	return hash
}

// Checkout switches to branch, creating it from the current commit.
func (o *Origin) Checkout(branch string) {
	o.t.Helper()
	err := o.Worktree.Checkout(&git.CheckoutOptions{Branch: plumbing.NewBranchReferenceName(branch), Create: true})
	if err != nil {
		o.t.Fatalf("failed to check out %s: %v", branch, err)
	}
}

// SetBranch points branch at hash without touching the worktree.
func (o *Origin) SetBranch(branch string, hash plumbing.Hash) {
	o.t.Helper()
	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(branch), hash)
	if err := o.Repo.Storer.SetReference(ref); err != nil {
		o.t.Fatalf("failed to set %s: %v", branch, err)
	}
}
