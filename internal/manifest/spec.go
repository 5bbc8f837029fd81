package manifest

import (
	"net/url"
	"path/filepath"
	"strings"
)

// Spec describes one repository to materialize. Specs are not modified after parsing.
type Spec struct {
	URL    string
	Branch string
	// Path is the subdirectory to extract, relative to the repository root.
	// Empty means the whole repository.
	Path string
	// Name is the final path segment of the URL, including any ".git" suffix.
	Name string
	// RelDest is the destination exactly as written in the batch file.
	RelDest string
	// Dest is the normalized absolute destination.
	Dest string
	// Line is the 1-based line number the spec was read from.
	Line int
}

// HasPath reports whether only a subdirectory of the repository is requested.
func (s Spec) HasPath() bool { return s.Path != "" }

// DisplayDest returns the destination for human-readable messages.
func (s Spec) DisplayDest() string {
	if s.RelDest != "" {
		return s.RelDest
	}
	return "./" + s.Name
}

// NameFromURL returns the last segment of the URL path. Scp-like addresses
// (git@host:org/repo.git) that do not parse as URLs are split as plain paths.
func NameFromURL(raw string) string {
	p := raw
	if u, err := url.Parse(raw); err == nil {
		p = u.Path
	}
	return p[strings.LastIndex(p, "/")+1:]
}

// relativeSubpath strips any volume or root marker so the result is always
// relative to the clone root. "." and "" both mean the repository root.
func relativeSubpath(raw string) string {
	p := strings.TrimPrefix(raw, filepath.VolumeName(raw))
	p = strings.TrimLeft(filepath.FromSlash(p), string(filepath.Separator))
	if p == "" {
		return ""
	}
	p = filepath.Clean(p)
	if p == "." {
		return ""
	}
	return p
}
