package filesystem

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/stagehand/pkg/errors"
	"github.com/arthur-debert/stagehand/pkg/types"
)

// runWithBothFS runs fn against the OS filesystem (rooted in a temp dir)
// and the in-memory filesystem, so the primitives behave identically on
// both variants.
func runWithBothFS(t *testing.T, fn func(t *testing.T, fsys types.FS, base string)) {
	t.Run("os", func(t *testing.T) {
		fn(t, NewOS(), t.TempDir())
	})
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemory(), "/base")
	})
}

func TestCreateFolderIdempotent(t *testing.T) {
	runWithBothFS(t, func(t *testing.T, fsys types.FS, base string) {
		dir := filepath.Join(base, "a", "b", "c")

		require.NoError(t, CreateFolder(fsys, dir))
		require.NoError(t, CreateFolder(fsys, dir), "second create must succeed")

		info, err := fsys.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})
}

func TestDeleteFolderAbsentIsSuccess(t *testing.T) {
	runWithBothFS(t, func(t *testing.T, fsys types.FS, base string) {
		dir := filepath.Join(base, "never-created")

		require.NoError(t, DeleteFolder(fsys, dir))
	})
}

func TestDeleteFolderRecursive(t *testing.T) {
	runWithBothFS(t, func(t *testing.T, fsys types.FS, base string) {
		dir := filepath.Join(base, "tree")
		require.NoError(t, WriteFile(fsys, filepath.Join(dir, "sub", "f.txt"), "x"))

		require.NoError(t, DeleteFolder(fsys, dir))
		assert.False(t, Exists(fsys, dir))

		// Deleting again is still fine.
		require.NoError(t, DeleteFolder(fsys, dir))
	})
}

func TestWriteFileRoundTrip(t *testing.T) {
	runWithBothFS(t, func(t *testing.T, fsys types.FS, base string) {
		path := filepath.Join(base, "nested", "dir", "file.txt")
		content := "line one\nline two\n"

		require.NoError(t, WriteFile(fsys, path, content))

		got, err := ReadFile(fsys, path)
		require.NoError(t, err)
		assert.Equal(t, content, got)
	})
}

func TestWriteFileOverwrites(t *testing.T) {
	runWithBothFS(t, func(t *testing.T, fsys types.FS, base string) {
		path := filepath.Join(base, "file.txt")

		require.NoError(t, WriteFile(fsys, path, "first"))
		require.NoError(t, WriteFile(fsys, path, "second"))

		got, err := ReadFile(fsys, path)
		require.NoError(t, err)
		assert.Equal(t, "second", got)
	})
}

func TestReadFileMissing(t *testing.T) {
	runWithBothFS(t, func(t *testing.T, fsys types.FS, base string) {
		_, err := ReadFile(fsys, filepath.Join(base, "missing.txt"))
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrFileRead))
	})
}

func TestDeleteFile(t *testing.T) {
	runWithBothFS(t, func(t *testing.T, fsys types.FS, base string) {
		path := filepath.Join(base, "file.txt")
		require.NoError(t, WriteFile(fsys, path, "x"))

		require.NoError(t, DeleteFile(fsys, path))
		assert.False(t, Exists(fsys, path))

		// Absent file is not an error.
		require.NoError(t, DeleteFile(fsys, path))
	})
}

func TestChmodFile(t *testing.T) {
	// Chmod semantics on MemMapFs differ from the OS; only the OS
	// variant is load-bearing here.
	fsys := NewOS()
	path := filepath.Join(t.TempDir(), "script.sh")
	require.NoError(t, WriteFile(fsys, path, "#!/bin/sh\n"))

	require.NoError(t, ChmodFile(fsys, path, 0755))

	info, err := fsys.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, "-rwxr-xr-x", info.Mode().String())
}

func TestExists(t *testing.T) {
	runWithBothFS(t, func(t *testing.T, fsys types.FS, base string) {
		path := filepath.Join(base, "f")
		assert.False(t, Exists(fsys, path))

		require.NoError(t, WriteFile(fsys, path, ""))
		assert.True(t, Exists(fsys, path))
	})
}
