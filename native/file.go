package native

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/hupe1980/opfsgo"
)

// FileHandle is a path-based handle to a real file.
type FileHandle struct {
	backend *backend
	path    string
}

var _ opfsgo.File = FileHandle{}

// Path returns the path the handle points at.
func (f FileHandle) Path() string { return f.path }

// CreateWritable implements opfsgo.File. With KeepExistingData=false the file
// is opened with O_TRUNC, clearing it before any write.
func (f FileHandle) CreateWritable(_ context.Context, opts opfsgo.CreateWritableOptions) (opfsgo.WritableFileStream, error) {
	flag := os.O_RDWR | os.O_CREATE
	if !opts.KeepExistingData {
		flag |= os.O_TRUNC
	}

	file, err := f.backend.fsys.OpenFile(f.path, flag, 0o644)
	if err != nil {
		return nil, err
	}
	return &WritableFileStream{backend: f.backend, file: file}, nil
}

// Read implements opfsgo.File.
func (f FileHandle) Read(_ context.Context) ([]byte, error) {
	start := time.Now()
	data, err := f.backend.fsys.ReadFile(f.path)
	f.backend.metrics.RecordRead(len(data), time.Since(start), err)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, opfsgo.NotFoundError(f.path)
		}
		return nil, err
	}
	return data, nil
}

// Size implements opfsgo.File.
func (f FileHandle) Size(_ context.Context) (int64, error) {
	info, err := f.backend.fsys.Stat(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, opfsgo.NotFoundError(f.path)
		}
		return 0, err
	}
	return info.Size(), nil
}
