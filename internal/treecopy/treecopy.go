package treecopy

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// IgnoreFunc receives a source directory and the names of its direct entries and
// returns the names to skip, together with everything below them.
type IgnoreFunc func(dir string, names []string) []string

// Options control a tree copy.
type Options struct {
	// Symlinks recreates symbolic links at the destination instead of copying
	// what they point to.
	Symlinks bool
	// Ignore selects entries to leave out. Nil copies everything.
	Ignore IgnoreFunc
	// IgnoreDanglingSymlinks silently skips links whose target does not exist
	// when Symlinks is false.
	IgnoreDanglingSymlinks bool
	// DirsExistOK allows destination directories to exist already.
	DirsExistOK bool
}

// Failure records one entry that could not be copied.
type Failure struct {
	Src    string
	Dst    string
	Reason string
}

// Error aggregates every Failure of a tree copy.
type Error struct {
	Failures []Failure
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s -> %s: %s", f.Src, f.Dst, f.Reason))
	}
	return fmt.Sprintf("copy failed for %d entries: %s", len(e.Failures), strings.Join(parts, "; "))
}

// IgnoreNames ignores entries whose name matches one of the shell patterns.
func IgnoreNames(patterns ...string) IgnoreFunc {
	return func(_ string, names []string) []string {
		var ignored []string
		for _, name := range names {
			for _, pattern := range patterns {
				if ok, _ := filepath.Match(pattern, name); ok {
					ignored = append(ignored, name)
					break
				}
			}
		}
		return ignored
	}
}

// Copy copies the tree rooted at src to dst.
//
// dst is created with its parents. If dst already exists and opts.DirsExistOK is
// false an error wrapping fs.ErrExist is returned before anything is copied.
func Copy(src, dst string, opts Options) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	return copyTree(entries, src, dst, opts)
}

func copyTree(entries []os.DirEntry, src, dst string, opts Options) error {
	ignored := map[string]struct{}{}
	if opts.Ignore != nil {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		for _, name := range opts.Ignore(src, names) {
			ignored[name] = struct{}{}
		}
	}

	if err := makeDirs(dst, opts.DirsExistOK); err != nil {
		return err
	}

	var failures []Failure
	for _, entry := range entries {
		if _, skip := ignored[entry.Name()]; skip {
			continue
		}
		srcName := filepath.Join(src, entry.Name())
		dstName := filepath.Join(dst, entry.Name())

		if err := copyEntry(entry, srcName, dstName, opts); err != nil {
			var nested *Error
			if errors.As(err, &nested) {
				failures = append(failures, nested.Failures...)
			} else {
				failures = append(failures, Failure{Src: srcName, Dst: dstName, Reason: err.Error()})
			}
		}
	}

	if err := copyStat(src, dst); err != nil {
		failures = append(failures, Failure{Src: src, Dst: dst, Reason: err.Error()})
	}

	if len(failures) > 0 {
		return &Error{Failures: failures}
	}
	return nil
}

func copyEntry(entry os.DirEntry, srcName, dstName string, opts Options) error {
	if entry.Type()&fs.ModeSymlink != 0 {
		linkTo, err := os.Readlink(srcName)
		if err != nil {
			return err
		}
		if opts.Symlinks {
			return os.Symlink(linkTo, dstName)
		}

		target := linkTo
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(srcName), target)
		}
		if _, err := os.Stat(target); errors.Is(err, fs.ErrNotExist) && opts.IgnoreDanglingSymlinks {
			return nil
		}

		if info, err := os.Stat(srcName); err == nil && info.IsDir() {
			return Copy(srcName, dstName, opts)
		}
		return CopyFile(srcName, dstName)
	}

	if entry.IsDir() {
		return Copy(srcName, dstName, opts)
	}
	return CopyFile(srcName, dstName)
}

// CopyFile copies the content and permission bits of src to dst, followed by its
// access and modification times. Symlinks in src are followed. If dst is an
// existing directory the file is copied into it.
func CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("`%s` is not a regular file", src)
	}

	if dstInfo, statErr := os.Stat(dst); statErr == nil && dstInfo.IsDir() {
		dst = filepath.Join(dst, filepath.Base(src))
	}

	in, err := os.Open(src) // #nosec G304 -- src comes from a directory listing
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm()) // #nosec G304 -- dst mirrors src
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return copyStat(src, dst)
}

// copyStat sets the permission bits and access/modification times of dst from src.
func copyStat(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if err := os.Chtimes(dst, accessTime(info), info.ModTime()); err != nil {
		return err
	}
	return os.Chmod(dst, info.Mode().Perm())
}

func makeDirs(dst string, existOK bool) error {
	if !existOK {
		if _, err := os.Lstat(dst); err == nil {
			return &fs.PathError{Op: "mkdir", Path: dst, Err: fs.ErrExist}
		}
	}
	return os.MkdirAll(dst, 0o750)
}
