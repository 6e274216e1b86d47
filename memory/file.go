package memory

import (
	"context"
	"time"

	"github.com/hupe1980/opfsgo"
)

// FileHandle is a handle to an in-memory file. Copies alias the same buffer.
type FileHandle struct {
	backend *backend
	node    *fileNode
}

var _ opfsgo.File = FileHandle{}

// CreateWritable implements opfsgo.File.
//
// With KeepExistingData=false the buffer is cleared here, not on the first
// write. The cursor starts at 0 in both modes; append requires an explicit
// Seek to the prior size.
func (f FileHandle) CreateWritable(_ context.Context, opts opfsgo.CreateWritableOptions) (opfsgo.WritableFileStream, error) {
	if !opts.KeepExistingData {
		f.node.mu.Lock()
		f.node.data = nil
		f.node.mu.Unlock()
	}
	return &WritableFileStream{backend: f.backend, node: f.node}, nil
}

// Read implements opfsgo.File. The returned slice is a copy; mutating it does
// not affect the file.
func (f FileHandle) Read(_ context.Context) ([]byte, error) {
	start := time.Now()

	f.node.mu.RLock()
	data := make([]byte, len(f.node.data))
	copy(data, f.node.data)
	f.node.mu.RUnlock()

	f.backend.metrics.RecordRead(len(data), time.Since(start), nil)
	return data, nil
}

// Size implements opfsgo.File.
func (f FileHandle) Size(_ context.Context) (int64, error) {
	f.node.mu.RLock()
	defer f.node.mu.RUnlock()
	return int64(len(f.node.data)), nil
}
