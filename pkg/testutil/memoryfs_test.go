package testutil

import (
	"errors"
	"io/fs"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFS_BasicOperations(t *testing.T) {
	mfs := NewMemoryFS()
	require.NoError(t, mfs.MkdirAll("/base/separated", 0755))

	t.Run("WriteAndRead", func(t *testing.T) {
		require.NoError(t, mfs.WriteFile("/base/separated/a.json", []byte("null\n"), 0644))

		got, err := mfs.ReadFile("/base/separated/a.json")
		require.NoError(t, err)
		assert.Equal(t, "null\n", string(got))
	})

	t.Run("WriteWithoutParent", func(t *testing.T) {
		err := mfs.WriteFile("/missing/a.json", nil, 0644)
		assert.True(t, errors.Is(err, fs.ErrNotExist))
	})

	t.Run("StatDirectory", func(t *testing.T) {
		info, err := mfs.Stat("/base/separated")
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("ReadDirSorted", func(t *testing.T) {
		require.NoError(t, mfs.WriteFile("/base/separated/c.json", nil, 0644))
		require.NoError(t, mfs.WriteFile("/base/separated/b.json", nil, 0644))

		entries, err := mfs.ReadDir("/base/separated")
		require.NoError(t, err)
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		assert.Equal(t, []string{"a.json", "b.json", "c.json"}, names)
	})

	t.Run("Remove", func(t *testing.T) {
		require.NoError(t, mfs.Remove("/base/separated/c.json"))
		_, err := mfs.Stat("/base/separated/c.json")
		assert.True(t, os.IsNotExist(err))

		err = mfs.Remove("/base/separated/c.json")
		assert.True(t, errors.Is(err, fs.ErrNotExist))
	})
}

func TestMemoryFS_OpenFileAndRename(t *testing.T) {
	mfs := NewMemoryFS()
	require.NoError(t, mfs.MkdirAll("/dir", 0755))
	require.NoError(t, mfs.WriteFile("/dir/target", []byte("old"), 0644))

	f, err := mfs.OpenFile("/dir/target.tmp", os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	require.NoError(t, err)
	_, err = f.Write([]byte("new"))
	require.NoError(t, err)
	require.NoError(t, f.Sync())
	require.NoError(t, f.Close())
	assert.ErrorIs(t, f.Close(), os.ErrClosed)

	require.NoError(t, mfs.Rename("/dir/target.tmp", "/dir/target"))

	got, err := mfs.ReadFile("/dir/target")
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))

	_, err = mfs.Stat("/dir/target.tmp")
	assert.True(t, os.IsNotExist(err))

	_, _, renames := mfs.Stats()
	assert.Equal(t, 1, renames)
}

func TestMemoryFS_Faults(t *testing.T) {
	boom := errors.New("boom")

	t.Run("TornWrite", func(t *testing.T) {
		mfs := NewMemoryFS()
		require.NoError(t, mfs.MkdirAll("/dir", 0755))
		mfs.FailOn(OpWrite, "/dir/f.tmp", boom)

		f, err := mfs.OpenFile("/dir/f.tmp", os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		require.NoError(t, err)
		n, err := f.Write([]byte("abcd"))
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 2, n)

		got, err := mfs.ReadFile("/dir/f.tmp")
		require.NoError(t, err)
		assert.Equal(t, "ab", string(got))
	})

	t.Run("RenameFailureKeepsTarget", func(t *testing.T) {
		mfs := NewMemoryFS()
		require.NoError(t, mfs.MkdirAll("/dir", 0755))
		require.NoError(t, mfs.WriteFile("/dir/f", []byte("old"), 0644))
		require.NoError(t, mfs.WriteFile("/dir/f.tmp", []byte("new"), 0644))
		mfs.FailOn(OpRename, "/dir/f", boom)

		err := mfs.Rename("/dir/f.tmp", "/dir/f")
		assert.ErrorIs(t, err, boom)

		got, err := mfs.ReadFile("/dir/f")
		require.NoError(t, err)
		assert.Equal(t, "old", string(got))

		mfs.ClearFaults()
		assert.NoError(t, mfs.Rename("/dir/f.tmp", "/dir/f"))
	})

	t.Run("WithError", func(t *testing.T) {
		mfs := NewMemoryFS().WithError("/locked", fs.ErrPermission)
		_, err := mfs.ReadDir("/locked")
		assert.ErrorIs(t, err, fs.ErrPermission)
	})
}
