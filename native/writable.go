package native

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/hupe1980/opfsgo"
	ifs "github.com/hupe1980/opfsgo/internal/fs"
)

// WritableFileStream is a single-writer cursor over an open file descriptor.
//
// Writes land in place: unlike the in-memory backend, content past the
// written range survives.
type WritableFileStream struct {
	backend *backend

	mu     sync.Mutex
	file   ifs.File
	cursor int64
	closed bool
}

var _ opfsgo.WritableFileStream = (*WritableFileStream)(nil)

// Write implements opfsgo.WritableFileStream: seek to the cursor, write the
// bytes, advance the cursor.
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

	if _, err := w.file.Seek(w.cursor, io.SeekStart); err != nil {
		return err
	}
	n, err := w.file.Write(p)
	w.cursor += int64(n)
	return err
}

// Seek implements opfsgo.WritableFileStream. The offset is validated against
// the file's current size; the descriptor itself would allow sparse seeks,
// but the contract does not.
func (w *WritableFileStream) Seek(_ context.Context, offset int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return opfsgo.ErrClosed
	}

	info, err := w.file.Stat()
	if err != nil {
		return err
	}
	if offset < 0 || offset > info.Size() {
		return &opfsgo.ErrSeekOutOfRange{Offset: offset, Size: info.Size()}
	}
	w.cursor = offset
	return nil
}

// Close implements opfsgo.WritableFileStream. It flushes to stable storage
// and releases the descriptor.
func (w *WritableFileStream) Close(_ context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return opfsgo.ErrClosed
	}
	w.closed = true

	if err := w.file.Sync(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}

// Cursor returns the current cursor position. Mainly useful in tests.
func (w *WritableFileStream) Cursor() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cursor
}
