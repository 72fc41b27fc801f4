package csvfs

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func rel(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		r, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(r))
	}
	return out
}

func TestDiscover_OrderAndFilter(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "b.csv"))
	touch(t, filepath.Join(root, "a", "2.CSV"))
	touch(t, filepath.Join(root, "a", "1.csv"))
	touch(t, filepath.Join(root, "a", "notes.txt"))
	touch(t, filepath.Join(root, "a", "deep", "z.csv"))
	touch(t, filepath.Join(root, "c.csv.bak"))

	got := NewDiscoverer().Discover(root)

	assert.Equal(t, []string{"a/1.csv", "a/2.CSV", "a/deep/z.csv", "b.csv"}, rel(t, root, got.Files))
	assert.Empty(t, got.Skipped)
}

func TestDiscover_Deterministic(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"x/3.csv", "x/1.csv", "y/2.csv", "0.csv"} {
		touch(t, filepath.Join(root, name))
	}

	d := NewDiscoverer()
	assert.Equal(t, d.Discover(root).Files, d.Discover(root).Files)
}

func TestDiscover_MissingRoot(t *testing.T) {
	got := NewDiscoverer().Discover(filepath.Join(t.TempDir(), "nope"))
	assert.Empty(t, got.Files)
	require.Len(t, got.Skipped, 1)
	assert.Error(t, got.Skipped[0].Err)
}

func TestDiscover_EmptyRoot(t *testing.T) {
	got := NewDiscoverer().Discover(t.TempDir())
	assert.Empty(t, got.Files)
	assert.Empty(t, got.Skipped)
}

func TestDiscover_UnreadableSubdirectory(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	root := t.TempDir()
	touch(t, filepath.Join(root, "locked", "hidden.csv"))
	touch(t, filepath.Join(root, "open", "seen.csv"))
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	got := NewDiscoverer().Discover(root)

	assert.Equal(t, []string{"open/seen.csv"}, rel(t, root, got.Files))
	require.Len(t, got.Skipped, 1)
	assert.Equal(t, locked, got.Skipped[0].Path)
}

func TestDiscover_FollowsSymlinkedDirectories(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need extra privileges")
	}
	root := t.TempDir()
	outside := t.TempDir()
	touch(t, filepath.Join(root, "a", "x.csv"))
	touch(t, filepath.Join(outside, "y.csv"))
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "ext")))
	// Same target as a: walked once only.
	require.NoError(t, os.Symlink(filepath.Join(root, "a"), filepath.Join(root, "z_alias")))
	// Cycle back to the root.
	require.NoError(t, os.Symlink(root, filepath.Join(root, "a", "loop")))

	got := NewDiscoverer().Discover(root)

	assert.Equal(t, []string{"a/x.csv", "ext/y.csv"}, rel(t, root, got.Files))
	assert.Empty(t, got.Skipped)
}

func TestDiscover_BrokenSymlinkIsNotADirectory(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need extra privileges")
	}
	root := t.TempDir()
	touch(t, filepath.Join(root, "ok.csv"))
	require.NoError(t, os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "gone")))

	got := NewDiscoverer().Discover(root)
	assert.Equal(t, []string{"ok.csv"}, rel(t, root, got.Files))
	assert.Empty(t, got.Skipped)
}
