package s3

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/hupe1980/opfsgo"
)

// WritableFileStream buffers writes locally and uploads the full object on
// Close. The cursor semantics match the reference in-memory backend: a write
// rebuilds the buffer at the cursor and drops any tail.
type WritableFileStream struct {
	backend *backend
	key     string

	mu     sync.Mutex
	buf    []byte
	cursor int64
	closed bool
}

var _ opfsgo.WritableFileStream = (*WritableFileStream)(nil)

// Write implements opfsgo.WritableFileStream.
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

	rebuilt := make([]byte, 0, w.cursor+int64(len(p)))
	rebuilt = append(rebuilt, w.buf[:w.cursor]...)
	rebuilt = append(rebuilt, p...)
	w.buf = rebuilt

	w.cursor += int64(len(p))
	return nil
}

// Seek implements opfsgo.WritableFileStream.
func (w *WritableFileStream) Seek(_ context.Context, offset int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return opfsgo.ErrClosed
	}
	if offset < 0 || offset > int64(len(w.buf)) {
		return &opfsgo.ErrSeekOutOfRange{Offset: offset, Size: int64(len(w.buf))}
	}
	w.cursor = offset
	return nil
}

// Close implements opfsgo.WritableFileStream. This is where the object is
// actually written; until Close succeeds, readers see the previous content.
func (w *WritableFileStream) Close(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return opfsgo.ErrClosed
	}
	w.closed = true

	uploader := manager.NewUploader(w.backend.client)
	_, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(w.backend.bucket),
		Key:    aws.String(w.key),
		Body:   bytes.NewReader(w.buf),
	})
	return err
}

// Cursor returns the current cursor position. Mainly useful in tests.
func (w *WritableFileStream) Cursor() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cursor
}
