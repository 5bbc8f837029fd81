package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	cause := errors.New("connection reset by peer")
	err := GitError("Git error: connection reset").
		WithCategory(CategoryNetwork).
		WithContext("url", "https://example.com/r.git").
		WithCause(cause).
		Build()

	assert.Equal(t, CategoryNetwork, err.Category())
	assert.True(t, err.IsFatal())
	assert.Equal(t, "Git error: connection reset", err.Message())
	assert.ErrorIs(t, err, cause)
	url, ok := err.Context().Get("url")
	require.True(t, ok)
	assert.Equal(t, "https://example.com/r.git", url)
	assert.Equal(t, "[network] Git error: connection reset: connection reset by peer", err.Error())
}

func TestNewErrorDefaults(t *testing.T) {
	err := NewError(CategoryInternal, "unexpected state").Build()
	assert.Equal(t, SeverityError, err.Severity())
	assert.False(t, err.IsFatal())
	assert.Nil(t, err.Cause())
	assert.Equal(t, "[internal] unexpected state", err.Error())
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		builder  *ErrorBuilder
		category ErrorCategory
		exit     int
	}{
		{ConfigError("x"), CategoryConfig, 7},
		{ValidationError("x"), CategoryValidation, 2},
		{GitError("x"), CategoryGit, 8},
		{NotFoundError("x"), CategoryNotFound, 8},
		{AlreadyExistsError("x"), CategoryAlreadyExists, 9},
		{FileSystemError("x"), CategoryFileSystem, 11},
		{RuntimeError("x"), CategoryRuntime, 12},
	}
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			err := tt.builder.Build()
			assert.Equal(t, tt.category, err.Category())
			assert.True(t, err.IsFatal())
			assert.Equal(t, tt.exit, err.Category().ExitCode())
		})
	}
}

func TestExitCodeUnknownCategory(t *testing.T) {
	assert.Equal(t, 1, ErrorCategory("other").ExitCode())
	assert.Equal(t, 5, CategoryAuth.ExitCode())
	assert.Equal(t, 10, CategoryInternal.ExitCode())
}

func TestContextGet(t *testing.T) {
	b := ConfigError("bad value").WithContext("env", "GIT_BATCH_LOG_FORMAT")
	first := b.Build()

	_, ok := first.Context().Get("env")
	assert.True(t, ok)
	_, ok = first.Context().Get("missing")
	assert.False(t, ok)
}

func TestAsClassifiedFindsWrapped(t *testing.T) {
	inner := NotFoundError("directory 'docs' not found in repository 'r.git'").Build()
	wrapped := fmt.Errorf("materialize: %w", inner)

	got, ok := AsClassified(wrapped)
	require.True(t, ok)
	assert.Same(t, inner, got)
	assert.True(t, HasCategory(wrapped, CategoryNotFound))
	assert.False(t, HasCategory(wrapped, CategoryGit))
	assert.False(t, HasCategory(errors.New("plain"), CategoryNotFound))

	_, ok = AsClassified(errors.New("plain"))
	assert.False(t, ok)
}
