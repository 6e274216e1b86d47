//go:build js && wasm

package web

import (
	"context"
	"fmt"
	"io"
	"syscall/js"

	"github.com/hupe1980/opfsgo"
)

// DirectoryHandle wraps a host FileSystemDirectoryHandle.
type DirectoryHandle struct {
	v js.Value
}

var _ opfsgo.Directory = DirectoryHandle{}

// NewDirectoryHandle wraps an existing host directory handle.
func NewDirectoryHandle(v js.Value) DirectoryHandle {
	return DirectoryHandle{v: v}
}

// Root returns the origin-private root directory
// (navigator.storage.getDirectory()).
func Root(ctx context.Context) (DirectoryHandle, error) {
	navigator := js.Global().Get("navigator")
	if navigator.IsUndefined() {
		return DirectoryHandle{}, fmt.Errorf("no navigator object")
	}

	v, err := await(ctx, navigator.Get("storage").Call("getDirectory"))
	if err != nil {
		return DirectoryHandle{}, err
	}
	return DirectoryHandle{v: v}, nil
}

// GetFileHandle implements opfsgo.Directory.
func (d DirectoryHandle) GetFileHandle(ctx context.Context, name string, opts opfsgo.GetFileHandleOptions) (opfsgo.File, error) {
	v, err := await(ctx, d.v.Call("getFileHandle", name, map[string]any{"create": opts.Create}))
	if err != nil {
		return nil, err
	}
	return FileHandle{v: v}, nil
}

// GetDirectoryHandle implements opfsgo.Directory.
func (d DirectoryHandle) GetDirectoryHandle(ctx context.Context, name string, opts opfsgo.GetDirectoryHandleOptions) (opfsgo.Directory, error) {
	v, err := await(ctx, d.v.Call("getDirectoryHandle", name, map[string]any{"create": opts.Create}))
	if err != nil {
		return nil, err
	}
	return DirectoryHandle{v: v}, nil
}

// RemoveEntry implements opfsgo.Directory.
func (d DirectoryHandle) RemoveEntry(ctx context.Context, name string, opts opfsgo.RemoveEntryOptions) error {
	_, err := await(ctx, d.v.Call("removeEntry", name, map[string]any{"recursive": opts.Recursive}))
	return err
}

// Entries implements opfsgo.Directory by adapting the host async iterator.
// The sequence is non-restartable by construction.
func (d DirectoryHandle) Entries(_ context.Context) (opfsgo.EntryIterator, error) {
	return &entryIterator{it: d.v.Call("entries")}, nil
}

type entryIterator struct {
	it   js.Value
	done bool
}

func (it *entryIterator) Next(ctx context.Context) (opfsgo.Entry, error) {
	if it.done {
		return opfsgo.Entry{}, io.EOF
	}

	step, err := await(ctx, it.it.Call("next"))
	if err != nil {
		// Element-level failure; the sequence itself continues.
		return opfsgo.Entry{}, err
	}
	if step.Get("done").Bool() {
		it.done = true
		return opfsgo.Entry{}, io.EOF
	}

	pair := step.Get("value")
	name := pair.Index(0).String()
	handle := pair.Index(1)

	e := opfsgo.Entry{Name: name}
	if handle.Get("kind").String() == "directory" {
		e.Kind = opfsgo.KindDirectory
		e.Directory = DirectoryHandle{v: handle}
	} else {
		e.Kind = opfsgo.KindFile
		e.File = FileHandle{v: handle}
	}
	return e, nil
}

// FileHandle wraps a host FileSystemFileHandle.
type FileHandle struct {
	v js.Value
}

var _ opfsgo.File = FileHandle{}

// CreateWritable implements opfsgo.File.
func (f FileHandle) CreateWritable(ctx context.Context, opts opfsgo.CreateWritableOptions) (opfsgo.WritableFileStream, error) {
	v, err := await(ctx, f.v.Call("createWritable", map[string]any{"keepExistingData": opts.KeepExistingData}))
	if err != nil {
		return nil, err
	}
	return &WritableFileStream{v: v}, nil
}

// Read implements opfsgo.File.
func (f FileHandle) Read(ctx context.Context) ([]byte, error) {
	blob, err := await(ctx, f.v.Call("getFile"))
	if err != nil {
		return nil, err
	}
	buf, err := await(ctx, blob.Call("arrayBuffer"))
	if err != nil {
		return nil, err
	}
	return fromArrayBuffer(buf), nil
}

// Size implements opfsgo.File.
func (f FileHandle) Size(ctx context.Context) (int64, error) {
	blob, err := await(ctx, f.v.Call("getFile"))
	if err != nil {
		return 0, err
	}
	return int64(blob.Get("size").Float()), nil
}

// WritableFileStream wraps a host FileSystemWritableFileStream. The cursor
// lives on the Go side; each write is issued with an explicit position.
type WritableFileStream struct {
	v      js.Value
	cursor int64
}

var _ opfsgo.WritableFileStream = (*WritableFileStream)(nil)

// Write implements opfsgo.WritableFileStream.
func (w *WritableFileStream) Write(ctx context.Context, p []byte) error {
	_, err := await(ctx, w.v.Call("write", map[string]any{
		"type":     "write",
		"position": w.cursor,
		"data":     toUint8Array(p),
	}))
	if err != nil {
		return err
	}
	w.cursor += int64(len(p))
	return nil
}

// Seek implements opfsgo.WritableFileStream.
func (w *WritableFileStream) Seek(ctx context.Context, offset int64) error {
	if offset < 0 {
		return &opfsgo.ErrSeekOutOfRange{Offset: offset, Size: w.cursor}
	}
	_, err := await(ctx, w.v.Call("seek", offset))
	if err != nil {
		return err
	}
	w.cursor = offset
	return nil
}

// Close implements opfsgo.WritableFileStream. The host flushes the staged
// content into the file here.
func (w *WritableFileStream) Close(ctx context.Context) error {
	_, err := await(ctx, w.v.Call("close"))
	return err
}
