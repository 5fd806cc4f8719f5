package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdtree/pkg/fsutil"
)

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.yml")

	err := fsutil.WriteAtomic(context.Background(), path, []byte("flavor: gfm\n"), 0o644)
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "flavor: gfm\n", string(got))
}

func TestWriteAtomicReplacesExisting(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.yml")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o644))

	err := fsutil.WriteAtomic(context.Background(), path, []byte("new\n"), 0o644)
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new\n", string(got))
}

func TestWriteAtomicDefaultMode(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}

	path := filepath.Join(t.TempDir(), "out.yml")
	require.NoError(t, fsutil.WriteAtomic(context.Background(), path, []byte("x\n"), 0))

	stat, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, fsutil.DefaultFileMode, stat.Mode().Perm())
}

func TestWriteAtomicLeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "out.yml")
	require.NoError(t, fsutil.WriteAtomic(context.Background(), path, []byte("x\n"), 0o644))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out.yml", entries[0].Name())
}

func TestWriteAtomicCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := filepath.Join(t.TempDir(), "out.yml")
	err := fsutil.WriteAtomic(ctx, path, []byte("x\n"), 0o644)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, path)
}

func TestWriteAtomicIfChanged(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.yml")

	wrote, err := fsutil.WriteAtomicIfChanged(context.Background(), path, []byte("a\n"), 0o644)
	require.NoError(t, err)
	assert.True(t, wrote, "first write creates the file")

	wrote, err = fsutil.WriteAtomicIfChanged(context.Background(), path, []byte("a\n"), 0o644)
	require.NoError(t, err)
	assert.False(t, wrote, "identical content is skipped")

	wrote, err = fsutil.WriteAtomicIfChanged(context.Background(), path, []byte("b\n"), 0o644)
	require.NoError(t, err)
	assert.True(t, wrote, "changed content is written")

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "b\n", string(got))
}
