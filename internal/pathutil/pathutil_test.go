package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Valid(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "a/b.txt", "a/b.txt"},
		{"empty is root", "", "."},
		{"dot is root", ".", "."},
		{"dot slash is root", "./", "."},
		{"current dir segments", "./a/./b", "a/b"},
		{"repeated separators", "a//b///c", "a/b/c"},
		{"resolvable dotdot", "a/b/../c", "a/c"},
		{"dotdot to root", "a/..", "."},
		{"trailing separator preserved", "dir/sub/", "dir/sub/"},
		{"trailing separator after dotdot", "a/b/../", "a/"},
		{"backslashes normalized", "a\\b\\c", "a/b/c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_Absolute(t *testing.T) {
	for _, in := range []string{"/", "/etc/passwd", "/a/../b"} {
		t.Run(in, func(t *testing.T) {
			_, err := Normalize(in)
			assert.ErrorIs(t, err, ErrAbsolute)
		})
	}
}

func TestNormalize_Traversal(t *testing.T) {
	for _, in := range []string{"..", "../x", "a/../..", "a/../../b", "./../x"} {
		t.Run(in, func(t *testing.T) {
			_, err := Normalize(in)
			assert.ErrorIs(t, err, ErrTraversal)
		})
	}
}

func TestEnsureDirectory(t *testing.T) {
	assert.Equal(t, "a/", EnsureDirectory("a"))
	assert.Equal(t, "a/", EnsureDirectory("a/"))
	assert.Equal(t, ".", EnsureDirectory("."))
}

func TestTrimDirectory(t *testing.T) {
	assert.Equal(t, "a", TrimDirectory("a/"))
	assert.Equal(t, "a", TrimDirectory("a"))
	assert.Equal(t, ".", TrimDirectory("."))
}
