package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strrl/claude-chats/internal/encoding"
)

func TestResolve_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	r := NewWithHome(t.TempDir())

	got := r.Resolve(encoding.Encode(dir))
	assert.Equal(t, dir, got, "resolving a directory's own encoded name should return it")
}

func TestResolve_SpecialCharacterSegments(t *testing.T) {
	base := t.TempDir()
	real := filepath.Join(base, "my cool_project.v2")
	require.NoError(t, os.MkdirAll(real, 0o755))

	// Direct decode cannot work: the space and dot are gone from the token.
	got := NewWithHome(t.TempDir()).Resolve(encoding.Encode(real))
	assert.Equal(t, real, got)
}

func TestResolve_NestedSpecialSegments(t *testing.T) {
	base := t.TempDir()
	real := filepath.Join(base, "top level", "sub dir")
	require.NoError(t, os.MkdirAll(real, 0o755))

	got := NewWithHome(t.TempDir()).Resolve(encoding.Encode(real))
	assert.Equal(t, real, got)
}

func TestResolve_LongestRunWins(t *testing.T) {
	base := t.TempDir()
	// Both siblings re-encode to prefixes of the target token; the longer
	// real match must win over the shorter one.
	require.NoError(t, os.MkdirAll(filepath.Join(base, "My-Project"), 0o755))
	long := filepath.Join(base, "My Project X")
	require.NoError(t, os.MkdirAll(long, 0o755))

	got := NewWithHome(t.TempDir()).Resolve(encoding.Encode(long))
	assert.Equal(t, long, got)
}

func TestResolve_HomePrefixFallback(t *testing.T) {
	home := t.TempDir()
	r := NewWithHome(home)

	// The encoded token points under home, but nothing matching exists on
	// disk anywhere: the home directory is the path of last resort.
	encoded := encoding.Separator + encoding.HomePrefix(home) + "-no-such-project"
	assert.Equal(t, home, r.Resolve(encoded))
}

func TestResolve_NeverFails(t *testing.T) {
	home := t.TempDir()
	r := NewWithHome(home)

	for _, encoded := range []string{"", "-", "---", "no-root-anchor", "-zzz-definitely-missing-qqq"} {
		got := r.Resolve(encoded)
		assert.NotEmpty(t, got, "Resolve(%q) must return some path", encoded)
	}
}

func TestResolve_HomeItself(t *testing.T) {
	home := t.TempDir()
	r := NewWithHome(home)
	assert.Equal(t, home, r.Resolve(encoding.Encode(home)))
}
