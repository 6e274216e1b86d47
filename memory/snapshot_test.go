package memory

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/opfsgo"
)

func buildFixtureTree(t *testing.T, ctx context.Context) DirectoryHandle {
	t.Helper()

	root := NewDirectory()

	file, err := root.GetFileHandle(ctx, "readme.txt", opfsgo.GetFileHandleOptions{Create: true})
	require.NoError(t, err)
	writeString(t, ctx, file, "hello snapshot", false)

	sub, err := root.GetDirectoryHandle(ctx, "nested", opfsgo.GetDirectoryHandleOptions{Create: true})
	require.NoError(t, err)

	data, err := sub.GetFileHandle(ctx, "data.bin", opfsgo.GetFileHandleOptions{Create: true})
	require.NoError(t, err)
	writeString(t, ctx, data, string(bytes.Repeat([]byte{0xAB}, 4096)), false)

	empty, err := sub.GetFileHandle(ctx, "empty", opfsgo.GetFileHandleOptions{Create: true})
	require.NoError(t, err)
	_ = empty

	_, err = root.GetDirectoryHandle(ctx, "hollow", opfsgo.GetDirectoryHandleOptions{Create: true})
	require.NoError(t, err)

	return root
}

func TestSnapshotRoundTrip(t *testing.T) {
	tests := []struct {
		name        string
		compression Compression
	}{
		{name: "none", compression: CompressionNone},
		{name: "zstd", compression: CompressionZstd},
		{name: "lz4", compression: CompressionLZ4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			root := buildFixtureTree(t, ctx)

			var buf bytes.Buffer
			require.NoError(t, root.Snapshot(ctx, &buf, WithCompression(tt.compression)))

			restored, err := Restore(ctx, bytes.NewReader(buf.Bytes()))
			require.NoError(t, err)

			file, err := restored.GetFileHandle(ctx, "readme.txt", opfsgo.GetFileHandleOptions{})
			require.NoError(t, err)
			got, err := file.Read(ctx)
			require.NoError(t, err)
			require.Equal(t, "hello snapshot", string(got))

			sub, err := restored.GetDirectoryHandle(ctx, "nested", opfsgo.GetDirectoryHandleOptions{})
			require.NoError(t, err)

			data, err := sub.GetFileHandle(ctx, "data.bin", opfsgo.GetFileHandleOptions{})
			require.NoError(t, err)
			raw, err := data.Read(ctx)
			require.NoError(t, err)
			require.Equal(t, bytes.Repeat([]byte{0xAB}, 4096), raw)

			empty, err := sub.GetFileHandle(ctx, "empty", opfsgo.GetFileHandleOptions{})
			require.NoError(t, err)
			size, err := empty.Size(ctx)
			require.NoError(t, err)
			require.Equal(t, int64(0), size)

			hollow, err := restored.GetDirectoryHandle(ctx, "hollow", opfsgo.GetDirectoryHandleOptions{})
			require.NoError(t, err)
			require.Empty(t, collectEntries(t, ctx, hollow))
		})
	}
}

func TestSnapshotPreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	root := NewDirectory()

	names := []string{"zeta", "alpha", "mid"}
	for _, name := range names {
		_, err := root.GetFileHandle(ctx, name, opfsgo.GetFileHandleOptions{Create: true})
		require.NoError(t, err)
	}

	var buf bytes.Buffer
	require.NoError(t, root.Snapshot(ctx, &buf))

	restored, err := Restore(ctx, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	var got []string
	for _, e := range collectEntries(t, ctx, restored) {
		got = append(got, e.Name)
	}
	require.Equal(t, names, got)
}

func TestRestoreRejectsBadMagic(t *testing.T) {
	ctx := context.Background()

	_, err := Restore(ctx, bytes.NewReader([]byte("NOPE\x01\x00trailing")))
	require.ErrorIs(t, err, ErrCorruptSnapshot)
}

func TestRestoreRejectsUnknownVersion(t *testing.T) {
	ctx := context.Background()

	_, err := Restore(ctx, bytes.NewReader([]byte{'O', 'P', 'F', 'S', 99, 0, 0}))
	require.ErrorIs(t, err, ErrCorruptSnapshot)
}

func TestRestoreRejectsOverDeepNesting(t *testing.T) {
	ctx := context.Background()

	// A chain of single-entry nested directories costs only a few bytes per
	// level; without a depth cap the decoder would recurse once per level.
	var buf bytes.Buffer
	buf.Write([]byte{'O', 'P', 'F', 'S', snapshotVersion, byte(CompressionNone)})
	for i := 0; i < maxSnapshotDepth+10; i++ {
		buf.WriteByte(1)   // entry count
		buf.WriteByte(1)   // name length
		buf.WriteByte('d') // name
		buf.WriteByte(byte(opfsgo.KindDirectory))
	}
	buf.WriteByte(0) // innermost directory is empty

	_, err := Restore(ctx, bytes.NewReader(buf.Bytes()))
	require.ErrorIs(t, err, ErrCorruptSnapshot)
}

func TestSnapshotRejectsOverDeepTree(t *testing.T) {
	ctx := context.Background()
	root := NewDirectory()

	dir := opfsgo.Directory(root)
	for i := 0; i < maxSnapshotDepth+10; i++ {
		sub, err := dir.GetDirectoryHandle(ctx, "d", opfsgo.GetDirectoryHandleOptions{Create: true})
		require.NoError(t, err)
		dir = sub
	}

	var buf bytes.Buffer
	require.Error(t, root.Snapshot(ctx, &buf))
}

func TestRestoreRejectsTruncatedPayload(t *testing.T) {
	ctx := context.Background()
	root := buildFixtureTree(t, ctx)

	var buf bytes.Buffer
	require.NoError(t, root.Snapshot(ctx, &buf))

	_, err := Restore(ctx, bytes.NewReader(buf.Bytes()[:buf.Len()/2]))
	require.Error(t, err)
}
