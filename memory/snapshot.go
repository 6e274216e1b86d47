package memory

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/opfsgo"
)

// Compression selects the codec applied to snapshot payloads.
type Compression uint8

const (
	// CompressionNone stores the payload uncompressed.
	CompressionNone Compression = iota
	// CompressionZstd compresses with zstd. Good default for fixture trees.
	CompressionZstd
	// CompressionLZ4 compresses with lz4. Faster, lighter compression.
	CompressionLZ4
)

// ErrCorruptSnapshot is returned when a snapshot stream fails validation.
var ErrCorruptSnapshot = errors.New("corrupt snapshot")

var snapshotMagic = [4]byte{'O', 'P', 'F', 'S'}

const (
	snapshotVersion = 1

	// Decode-side sanity caps. Real trees never get close; anything above is
	// treated as corruption rather than ballooning allocations. The depth cap
	// also bounds decoder recursion, so a crafted chain of nested directories
	// cannot blow the stack.
	maxSnapshotName    = 1 << 12
	maxSnapshotEntries = 1 << 24
	maxSnapshotData    = 1 << 31
	maxSnapshotDepth   = 1 << 10
)

type snapshotOptions struct {
	compression Compression
}

// SnapshotOption configures Snapshot and Restore.
type SnapshotOption func(*snapshotOptions)

// WithCompression selects the payload codec. Restore reads the codec from the
// header, so it only needs this option when re-encoding.
func WithCompression(c Compression) SnapshotOption {
	return func(o *snapshotOptions) {
		o.compression = c
	}
}

// Snapshot serializes the directory tree rooted at d to w.
//
// Each directory is captured atomically under its read lock, but the tree as
// a whole is not a single atomic snapshot: concurrent mutations to not-yet-
// visited subtrees may or may not be included.
func (d DirectoryHandle) Snapshot(ctx context.Context, w io.Writer, optFns ...SnapshotOption) error {
	var o snapshotOptions
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	header := append(snapshotMagic[:], snapshotVersion, byte(o.compression))
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("write snapshot header: %w", err)
	}

	payload, closer, err := compressionWriter(w, o.compression)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(payload)
	entries, err := encodeDir(bw, d.node, 0)
	if err == nil {
		err = bw.Flush()
	}
	if err == nil && closer != nil {
		err = closer.Close()
	}

	d.backend.logger.LogSnapshot(ctx, "save", entries, err)
	return err
}

// Restore rebuilds a directory tree from a snapshot produced by Snapshot.
// It returns a fresh root; the snapshot stream fully determines the content.
func Restore(ctx context.Context, r io.Reader, optFns ...Option) (DirectoryHandle, error) {
	root := NewDirectory(optFns...)

	var header [6]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return DirectoryHandle{}, fmt.Errorf("read snapshot header: %w", err)
	}
	if [4]byte(header[:4]) != snapshotMagic {
		return DirectoryHandle{}, fmt.Errorf("%w: bad magic", ErrCorruptSnapshot)
	}
	if header[4] != snapshotVersion {
		return DirectoryHandle{}, fmt.Errorf("%w: unsupported version %d", ErrCorruptSnapshot, header[4])
	}

	payload, err := compressionReader(r, Compression(header[5]))
	if err != nil {
		return DirectoryHandle{}, err
	}

	br := bufio.NewReader(payload)
	entries, err := decodeDir(br, root.node, 0)
	root.backend.logger.LogSnapshot(ctx, "restore", entries, err)
	if err != nil {
		return DirectoryHandle{}, err
	}
	return root, nil
}

func compressionWriter(w io.Writer, c Compression) (io.Writer, io.Closer, error) {
	switch c {
	case CompressionNone:
		return w, nil, nil
	case CompressionZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, nil, fmt.Errorf("zstd writer: %w", err)
		}
		return zw, zw, nil
	case CompressionLZ4:
		lw := lz4.NewWriter(w)
		return lw, lw, nil
	default:
		return nil, nil, fmt.Errorf("unknown compression codec %d", c)
	}
}

func compressionReader(r io.Reader, c Compression) (io.Reader, error) {
	switch c {
	case CompressionNone:
		return r, nil
	case CompressionZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		return zr.IOReadCloser(), nil
	case CompressionLZ4:
		return lz4.NewReader(r), nil
	default:
		return nil, fmt.Errorf("%w: unknown compression codec %d", ErrCorruptSnapshot, c)
	}
}

// encodeDir writes one directory level: entry count, then per entry the name,
// kind tag and payload. Returns the number of entries written in the subtree.
func encodeDir(w *bufio.Writer, d *dirNode, depth int) (int, error) {
	if depth > maxSnapshotDepth {
		return 0, fmt.Errorf("directory tree deeper than %d levels", maxSnapshotDepth)
	}

	d.mu.RLock()
	type pair struct {
		name string
		n    *node
	}
	snapshot := make([]pair, 0, len(d.order))
	for _, name := range d.order {
		snapshot = append(snapshot, pair{name: name, n: d.entries[name]})
	}
	d.mu.RUnlock()

	total := len(snapshot)
	if err := writeUvarint(w, uint64(len(snapshot))); err != nil {
		return total, err
	}

	for _, p := range snapshot {
		if err := writeUvarint(w, uint64(len(p.name))); err != nil {
			return total, err
		}
		if _, err := w.WriteString(p.name); err != nil {
			return total, err
		}
		if err := w.WriteByte(byte(p.n.kind)); err != nil {
			return total, err
		}

		switch p.n.kind {
		case opfsgo.KindFile:
			p.n.file.mu.RLock()
			data := make([]byte, len(p.n.file.data))
			copy(data, p.n.file.data)
			p.n.file.mu.RUnlock()

			if err := writeUvarint(w, uint64(len(data))); err != nil {
				return total, err
			}
			if _, err := w.Write(data); err != nil {
				return total, err
			}
		case opfsgo.KindDirectory:
			sub, err := encodeDir(w, p.n.dir, depth+1)
			total += sub
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

func decodeDir(r *bufio.Reader, d *dirNode, depth int) (int, error) {
	if depth > maxSnapshotDepth {
		return 0, fmt.Errorf("%w: nesting deeper than %d levels", ErrCorruptSnapshot, maxSnapshotDepth)
	}

	count, err := binary.ReadUvarint(r)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	if count > maxSnapshotEntries {
		return 0, fmt.Errorf("%w: implausible entry count %d", ErrCorruptSnapshot, count)
	}

	total := int(count)
	for i := uint64(0); i < count; i++ {
		nameLen, err := binary.ReadUvarint(r)
		if err != nil {
			return total, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
		}
		if nameLen == 0 || nameLen > maxSnapshotName {
			return total, fmt.Errorf("%w: invalid name length %d", ErrCorruptSnapshot, nameLen)
		}
		nameBuf := make([]byte, nameLen)
		if _, err := io.ReadFull(r, nameBuf); err != nil {
			return total, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
		}
		name := string(nameBuf)
		if _, ok := d.entries[name]; ok {
			return total, fmt.Errorf("%w: duplicate entry %q", ErrCorruptSnapshot, name)
		}

		kindByte, err := r.ReadByte()
		if err != nil {
			return total, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
		}

		switch opfsgo.EntryKind(kindByte) {
		case opfsgo.KindFile:
			dataLen, err := binary.ReadUvarint(r)
			if err != nil {
				return total, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
			}
			if dataLen > maxSnapshotData {
				return total, fmt.Errorf("%w: implausible file size %d", ErrCorruptSnapshot, dataLen)
			}
			data := make([]byte, dataLen)
			if _, err := io.ReadFull(r, data); err != nil {
				return total, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
			}
			d.insert(name, &node{kind: opfsgo.KindFile, file: &fileNode{data: data}})
		case opfsgo.KindDirectory:
			child := newDirNode()
			sub, err := decodeDir(r, child, depth+1)
			total += sub
			if err != nil {
				return total, err
			}
			d.insert(name, &node{kind: opfsgo.KindDirectory, dir: child})
		default:
			return total, fmt.Errorf("%w: unknown entry kind %d", ErrCorruptSnapshot, kindByte)
		}
	}
	return total, nil
}

func writeUvarint(w *bufio.Writer, v uint64) error {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], v)
	_, err := w.Write(buf[:n])
	return err
}
