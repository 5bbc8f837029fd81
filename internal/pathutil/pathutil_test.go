package pathutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmpty(t *testing.T) {
	got, err := Normalize("")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNormalize(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("GITBATCH_TEST_DIR", "nested")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "relative", in: "./out", want: filepath.Join(wd, "out")},
		{name: "dot dot cleaned", in: "a/../b", want: filepath.Join(wd, "b")},
		{name: "absolute", in: "/tmp/x/", want: "/tmp/x"},
		{name: "home", in: "~/repos", want: filepath.Join(home, "repos")},
		{name: "bare home", in: "~", want: home},
		{name: "env var", in: "$GITBATCH_TEST_DIR/x", want: filepath.Join(wd, "nested", "x")},
		{name: "braced env var", in: "${GITBATCH_TEST_DIR}", want: filepath.Join(wd, "nested")},
		{name: "unset var kept", in: "$GITBATCH_UNSET_VAR_FOR_TEST", want: filepath.Join(wd, "$GITBATCH_UNSET_VAR_FOR_TEST")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMustRelative(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, ".batchfile", MustRelative(filepath.Join(wd, ".batchfile")))
}
