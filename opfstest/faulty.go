package opfstest

import (
	"context"
	"errors"

	"github.com/hupe1980/opfsgo"
)

// ErrInjected is returned by fault hooks that want a recognizable failure.
var ErrInjected = errors.New("injected failure")

// FaultHook inspects an operation about to run and may return an error to
// inject in its place. The op names are "lookup", "remove", "entries",
// "writable", "read", "size", "write", "seek", "close" and "next".
type FaultHook func(op, name string) error

// WithFaults wraps dir so every operation consults hook first. A nil return
// lets the operation through untouched; a nil hook injects nothing.
func WithFaults(dir opfsgo.Directory, hook FaultHook) opfsgo.Directory {
	if hook == nil {
		hook = func(string, string) error { return nil }
	}
	return &faultyDirectory{dir: dir, hook: hook}
}

type faultyDirectory struct {
	dir  opfsgo.Directory
	hook FaultHook
}

func (d *faultyDirectory) GetFileHandle(ctx context.Context, name string, opts opfsgo.GetFileHandleOptions) (opfsgo.File, error) {
	if err := d.hook("lookup", name); err != nil {
		return nil, err
	}

	file, err := d.dir.GetFileHandle(ctx, name, opts)
	if err != nil {
		return nil, err
	}

	return &faultyFile{file: file, name: name, hook: d.hook}, nil
}

func (d *faultyDirectory) GetDirectoryHandle(ctx context.Context, name string, opts opfsgo.GetDirectoryHandleOptions) (opfsgo.Directory, error) {
	if err := d.hook("lookup", name); err != nil {
		return nil, err
	}

	sub, err := d.dir.GetDirectoryHandle(ctx, name, opts)
	if err != nil {
		return nil, err
	}

	return &faultyDirectory{dir: sub, hook: d.hook}, nil
}

func (d *faultyDirectory) RemoveEntry(ctx context.Context, name string, opts opfsgo.RemoveEntryOptions) error {
	if err := d.hook("remove", name); err != nil {
		return err
	}

	return d.dir.RemoveEntry(ctx, name, opts)
}

func (d *faultyDirectory) Entries(ctx context.Context) (opfsgo.EntryIterator, error) {
	if err := d.hook("entries", ""); err != nil {
		return nil, err
	}

	it, err := d.dir.Entries(ctx)
	if err != nil {
		return nil, err
	}

	return &faultyIterator{it: it, hook: d.hook}, nil
}

type faultyFile struct {
	file opfsgo.File
	name string
	hook FaultHook
}

func (f *faultyFile) CreateWritable(ctx context.Context, opts opfsgo.CreateWritableOptions) (opfsgo.WritableFileStream, error) {
	if err := f.hook("writable", f.name); err != nil {
		return nil, err
	}

	w, err := f.file.CreateWritable(ctx, opts)
	if err != nil {
		return nil, err
	}

	return &faultyStream{stream: w, name: f.name, hook: f.hook}, nil
}

func (f *faultyFile) Read(ctx context.Context) ([]byte, error) {
	if err := f.hook("read", f.name); err != nil {
		return nil, err
	}

	return f.file.Read(ctx)
}

func (f *faultyFile) Size(ctx context.Context) (int64, error) {
	if err := f.hook("size", f.name); err != nil {
		return 0, err
	}

	return f.file.Size(ctx)
}

type faultyStream struct {
	stream opfsgo.WritableFileStream
	name   string
	hook   FaultHook
}

func (s *faultyStream) Write(ctx context.Context, p []byte) error {
	if err := s.hook("write", s.name); err != nil {
		return err
	}

	return s.stream.Write(ctx, p)
}

func (s *faultyStream) Seek(ctx context.Context, offset int64) error {
	if err := s.hook("seek", s.name); err != nil {
		return err
	}

	return s.stream.Seek(ctx, offset)
}

func (s *faultyStream) Close(ctx context.Context) error {
	if err := s.hook("close", s.name); err != nil {
		return err
	}

	return s.stream.Close(ctx)
}

type faultyIterator struct {
	it   opfsgo.EntryIterator
	hook FaultHook
}

func (i *faultyIterator) Next(ctx context.Context) (opfsgo.Entry, error) {
	if err := i.hook("next", ""); err != nil {
		return opfsgo.Entry{}, err
	}

	return i.it.Next(ctx)
}
