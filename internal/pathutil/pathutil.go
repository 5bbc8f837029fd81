// Package pathutil resolves user-entered path strings into absolute, cleaned paths.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Normalize expands environment variables and a leading "~" in p and returns the
// absolute, cleaned result. An empty input yields an empty result and no error.
// Unset variables are left in place rather than collapsed to the empty string.
func Normalize(p string) (string, error) {
	if p == "" {
		return "", nil
	}

	expanded := os.Expand(p, func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return "$" + key
	})

	expanded, err := expandHome(expanded)
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", p, err)
	}
	return abs, nil
}

// MustRelative returns p relative to the working directory when possible,
// falling back to p itself. Used for human-readable messages only.
func MustRelative(p string) string {
	wd, err := os.Getwd()
	if err != nil {
		return p
	}
	rel, err := filepath.Rel(wd, p)
	if err != nil {
		return p
	}
	return rel
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~"+string(filepath.Separator)) && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expand home in %q: %w", p, err)
	}
	return filepath.Join(home, p[1:]), nil
}
