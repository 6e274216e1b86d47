package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalFSRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")

	file, err := Default.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)

	_, err = file.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, file.Sync())
	require.NoError(t, file.Close())

	data, err := Default.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))

	entries, err := Default.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "f.txt", entries[0].Name())

	require.NoError(t, Default.Remove(path))
	_, err = Default.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestFaultyFSWriteLimit(t *testing.T) {
	dir := t.TempDir()
	ffs := NewFaultyFS(nil)
	ffs.AddRule("limited", Fault{FailAfterBytes: 4})

	file, err := ffs.OpenFile(filepath.Join(dir, "limited.bin"), os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)

	n, err := file.Write([]byte("abcd"))
	require.NoError(t, err)
	require.Equal(t, 4, n)

	_, err = file.Write([]byte("e"))
	require.ErrorIs(t, err, ErrInjected)
}

func TestFaultyFSOpenAndClose(t *testing.T) {
	dir := t.TempDir()
	ffs := NewFaultyFS(nil)
	ffs.AddRule("no-open", Fault{FailOnOpen: true, FailAfterBytes: -1})
	ffs.AddRule("no-close", Fault{FailOnClose: true, FailAfterBytes: -1})

	_, err := ffs.OpenFile(filepath.Join(dir, "no-open.bin"), os.O_RDWR|os.O_CREATE, 0o644)
	require.ErrorIs(t, err, ErrInjected)

	file, err := ffs.OpenFile(filepath.Join(dir, "no-close.bin"), os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)
	require.ErrorIs(t, file.Close(), ErrInjected)

	// Unmatched files pass through untouched.
	file, err = ffs.OpenFile(filepath.Join(dir, "clean.bin"), os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)
	require.NoError(t, file.Close())
}
