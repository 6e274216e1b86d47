package opfstest

import (
	"context"
	"errors"
	"io"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/opfsgo"
)

// Factory returns a fresh, empty root directory for one test.
type Factory func(t *testing.T) opfsgo.Directory

// Profile declares backend-specific behavior the suite must account for.
type Profile struct {
	// TruncatesOnWrite is true when a cursor write drops previous content
	// past the written range, as the reference in-memory backend does.
	// Backends writing through a real descriptor preserve the tail instead.
	TruncatesOnWrite bool
}

// Run exercises the full capability contract against the backend produced by
// newRoot.
func Run(t *testing.T, newRoot Factory, profile Profile) {
	t.Helper()

	t.Run("LookupMissingFile", func(t *testing.T) {
		ctx := context.Background()
		root := newRoot(t)

		_, err := root.GetFileHandle(ctx, "missing.txt", opfsgo.GetFileHandleOptions{})
		require.ErrorIs(t, err, opfsgo.ErrNotFound)

		_, err = root.GetDirectoryHandle(ctx, "missing", opfsgo.GetDirectoryHandleOptions{})
		require.ErrorIs(t, err, opfsgo.ErrNotFound)
	})

	t.Run("CreateThenLookup", func(t *testing.T) {
		ctx := context.Background()
		root := newRoot(t)

		_, err := root.GetFileHandle(ctx, "a.txt", opfsgo.GetFileHandleOptions{Create: true})
		require.NoError(t, err)

		file, err := root.GetFileHandle(ctx, "a.txt", opfsgo.GetFileHandleOptions{})
		require.NoError(t, err)

		size, err := file.Size(ctx)
		require.NoError(t, err)
		require.Equal(t, int64(0), size)
	})

	t.Run("WrongKind", func(t *testing.T) {
		ctx := context.Background()
		root := newRoot(t)

		_, err := root.GetDirectoryHandle(ctx, "dir", opfsgo.GetDirectoryHandleOptions{Create: true})
		require.NoError(t, err)
		_, err = root.GetFileHandle(ctx, "file", opfsgo.GetFileHandleOptions{Create: true})
		require.NoError(t, err)

		_, err = root.GetFileHandle(ctx, "dir", opfsgo.GetFileHandleOptions{Create: true})
		require.ErrorIs(t, err, opfsgo.ErrWrongKind)

		_, err = root.GetDirectoryHandle(ctx, "file", opfsgo.GetDirectoryHandleOptions{Create: true})
		require.ErrorIs(t, err, opfsgo.ErrWrongKind)
	})

	t.Run("WriteRoundTrip", func(t *testing.T) {
		ctx := context.Background()
		root := newRoot(t)

		file, err := root.GetFileHandle(ctx, "round.txt", opfsgo.GetFileHandleOptions{Create: true})
		require.NoError(t, err)

		payload := []byte("payload bytes")
		w, err := file.CreateWritable(ctx, opfsgo.CreateWritableOptions{})
		require.NoError(t, err)
		require.NoError(t, w.Write(ctx, payload))
		require.NoError(t, w.Close(ctx))

		got, err := file.Read(ctx)
		require.NoError(t, err)
		require.Equal(t, payload, got)

		size, err := file.Size(ctx)
		require.NoError(t, err)
		require.Equal(t, int64(len(payload)), size)
	})

	t.Run("CursorOverwritePolicy", func(t *testing.T) {
		ctx := context.Background()
		root := newRoot(t)

		file, err := root.GetFileHandle(ctx, "cursor.txt", opfsgo.GetFileHandleOptions{Create: true})
		require.NoError(t, err)

		w, err := file.CreateWritable(ctx, opfsgo.CreateWritableOptions{})
		require.NoError(t, err)
		require.NoError(t, w.Write(ctx, []byte("Hello")))
		require.NoError(t, w.Seek(ctx, 0))
		require.NoError(t, w.Write(ctx, []byte("Hi")))
		require.NoError(t, w.Close(ctx))

		got, err := file.Read(ctx)
		require.NoError(t, err)

		if profile.TruncatesOnWrite {
			require.Equal(t, "Hi", string(got))
		} else {
			require.Equal(t, "Hillo", string(got))
		}
	})

	t.Run("KeepExistingData", func(t *testing.T) {
		ctx := context.Background()
		root := newRoot(t)

		file, err := root.GetFileHandle(ctx, "keep.txt", opfsgo.GetFileHandleOptions{Create: true})
		require.NoError(t, err)

		w, err := file.CreateWritable(ctx, opfsgo.CreateWritableOptions{})
		require.NoError(t, err)
		require.NoError(t, w.Write(ctx, []byte("Hello")))
		require.NoError(t, w.Close(ctx))

		// Cursor starts at 0 with keep=true; appending needs an explicit
		// seek to the prior size.
		w, err = file.CreateWritable(ctx, opfsgo.CreateWritableOptions{KeepExistingData: true})
		require.NoError(t, err)
		require.NoError(t, w.Seek(ctx, 5))
		require.NoError(t, w.Write(ctx, []byte(" World")))
		require.NoError(t, w.Close(ctx))

		got, err := file.Read(ctx)
		require.NoError(t, err)
		require.Equal(t, "Hello World", string(got))
	})

	t.Run("TruncateOnCreateWritable", func(t *testing.T) {
		ctx := context.Background()
		root := newRoot(t)

		file, err := root.GetFileHandle(ctx, "trunc.txt", opfsgo.GetFileHandleOptions{Create: true})
		require.NoError(t, err)

		w, err := file.CreateWritable(ctx, opfsgo.CreateWritableOptions{})
		require.NoError(t, err)
		require.NoError(t, w.Write(ctx, []byte("Hello World")))
		require.NoError(t, w.Close(ctx))

		w, err = file.CreateWritable(ctx, opfsgo.CreateWritableOptions{})
		require.NoError(t, err)
		require.NoError(t, w.Write(ctx, []byte("Hi")))
		require.NoError(t, w.Close(ctx))

		got, err := file.Read(ctx)
		require.NoError(t, err)
		require.Equal(t, "Hi", string(got))
	})

	t.Run("SeekBounds", func(t *testing.T) {
		ctx := context.Background()
		root := newRoot(t)

		file, err := root.GetFileHandle(ctx, "seek.txt", opfsgo.GetFileHandleOptions{Create: true})
		require.NoError(t, err)

		w, err := file.CreateWritable(ctx, opfsgo.CreateWritableOptions{})
		require.NoError(t, err)
		require.NoError(t, w.Write(ctx, []byte("12345")))

		require.ErrorIs(t, w.Seek(ctx, 10), opfsgo.ErrOutOfRange)
		require.NoError(t, w.Seek(ctx, 5))
		require.NoError(t, w.Seek(ctx, 2))
		require.NoError(t, w.Close(ctx))
	})

	t.Run("RemoveEntry", func(t *testing.T) {
		ctx := context.Background()
		root := newRoot(t)

		_, err := root.GetFileHandle(ctx, "f.txt", opfsgo.GetFileHandleOptions{Create: true})
		require.NoError(t, err)

		require.NoError(t, root.RemoveEntry(ctx, "f.txt", opfsgo.RemoveEntryOptions{}))
		_, err = root.GetFileHandle(ctx, "f.txt", opfsgo.GetFileHandleOptions{})
		require.ErrorIs(t, err, opfsgo.ErrNotFound)

		require.ErrorIs(t, root.RemoveEntry(ctx, "f.txt", opfsgo.RemoveEntryOptions{}), opfsgo.ErrNotFound)
	})

	t.Run("RemoveDirectory", func(t *testing.T) {
		ctx := context.Background()
		root := newRoot(t)

		sub, err := root.GetDirectoryHandle(ctx, "sub", opfsgo.GetDirectoryHandleOptions{Create: true})
		require.NoError(t, err)
		_, err = sub.GetFileHandle(ctx, "child", opfsgo.GetFileHandleOptions{Create: true})
		require.NoError(t, err)

		require.ErrorIs(t, root.RemoveEntry(ctx, "sub", opfsgo.RemoveEntryOptions{}), opfsgo.ErrNotEmpty)
		require.NoError(t, root.RemoveEntry(ctx, "sub", opfsgo.RemoveEntryOptions{Recursive: true}))

		_, err = root.GetDirectoryHandle(ctx, "sub", opfsgo.GetDirectoryHandleOptions{})
		require.ErrorIs(t, err, opfsgo.ErrNotFound)
	})

	t.Run("Enumeration", func(t *testing.T) {
		ctx := context.Background()
		root := newRoot(t)

		require.Empty(t, drain(t, ctx, root))

		_, err := root.GetFileHandle(ctx, "a", opfsgo.GetFileHandleOptions{Create: true})
		require.NoError(t, err)
		_, err = root.GetFileHandle(ctx, "b", opfsgo.GetFileHandleOptions{Create: true})
		require.NoError(t, err)

		var names []string
		for _, e := range drain(t, ctx, root) {
			names = append(names, e.Name)
		}
		sort.Strings(names)
		require.Equal(t, []string{"a", "b"}, names)
	})
}

func drain(t *testing.T, ctx context.Context, dir opfsgo.Directory) []opfsgo.Entry {
	t.Helper()

	it, err := dir.Entries(ctx)
	require.NoError(t, err)

	var out []opfsgo.Entry
	for {
		e, err := it.Next(ctx)
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, e)
	}
}
