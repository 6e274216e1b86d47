package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hupe1980/opfsgo"
)

// WritableFileStream is a single-writer cursor over an in-memory file.
//
// State machine: Open(cursor) -> Closed, no reopening. Operations after Close
// fail with opfsgo.ErrClosed.
type WritableFileStream struct {
	backend *backend
	node    *fileNode

	mu     sync.Mutex
	cursor int64
	closed bool
}

var _ opfsgo.WritableFileStream = (*WritableFileStream)(nil)

// Write implements opfsgo.WritableFileStream.
//
// The buffer is rebuilt as data[:cursor] ++ p: any previous content past the
// cursor is dropped, matching "truncate at cursor, then append" semantics.
func (w *WritableFileStream) Write(ctx context.Context, p []byte) error {
	start := time.Now()
	err := w.write(p)
	w.backend.metrics.RecordWrite(len(p), time.Since(start), err)
	w.backend.logger.LogWrite(ctx, len(p), w.Cursor(), err)
	return err
}

func (w *WritableFileStream) write(p []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return opfsgo.ErrClosed
	}

	w.node.mu.Lock()
	defer w.node.mu.Unlock()

	// Another stream over the same file may have truncated it below our
	// cursor in the meantime; clamp the preserved prefix to what is left.
	prefix := w.cursor
	if size := int64(len(w.node.data)); prefix > size {
		prefix = size
	}

	// Replace wholesale so concurrent readers never observe a torn buffer.
	rebuilt := make([]byte, 0, prefix+int64(len(p)))
	rebuilt = append(rebuilt, w.node.data[:prefix]...)
	rebuilt = append(rebuilt, p...)
	w.node.data = rebuilt

	w.cursor = prefix + int64(len(p))
	return nil
}

// Seek implements opfsgo.WritableFileStream. Seeking to exactly the current
// length is legal; anything past it fails with ErrOutOfRange.
func (w *WritableFileStream) Seek(_ context.Context, offset int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return opfsgo.ErrClosed
	}

	w.node.mu.RLock()
	size := int64(len(w.node.data))
	w.node.mu.RUnlock()

	if offset < 0 || offset > size {
		return &opfsgo.ErrSeekOutOfRange{Offset: offset, Size: size}
	}
	w.cursor = offset
	return nil
}

// Close implements opfsgo.WritableFileStream. The in-memory backend has
// nothing to flush; Close only seals the stream.
func (w *WritableFileStream) Close(_ context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return opfsgo.ErrClosed
	}
	w.closed = true
	return nil
}

// Cursor returns the current cursor position. Mainly useful in tests.
func (w *WritableFileStream) Cursor() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cursor
}
