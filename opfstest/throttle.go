package opfstest

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/hupe1980/opfsgo"
)

// Throttle wraps dir so every operation first waits on limiter. Handles and
// streams obtained through the wrapper are throttled too. Useful for
// exercising consumers against quota-limited or slow hosts.
func Throttle(dir opfsgo.Directory, limiter *rate.Limiter) opfsgo.Directory {
	return &throttledDirectory{dir: dir, limiter: limiter}
}

type throttledDirectory struct {
	dir     opfsgo.Directory
	limiter *rate.Limiter
}

func (d *throttledDirectory) GetFileHandle(ctx context.Context, name string, opts opfsgo.GetFileHandleOptions) (opfsgo.File, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	file, err := d.dir.GetFileHandle(ctx, name, opts)
	if err != nil {
		return nil, err
	}

	return &throttledFile{file: file, limiter: d.limiter}, nil
}

func (d *throttledDirectory) GetDirectoryHandle(ctx context.Context, name string, opts opfsgo.GetDirectoryHandleOptions) (opfsgo.Directory, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	sub, err := d.dir.GetDirectoryHandle(ctx, name, opts)
	if err != nil {
		return nil, err
	}

	return &throttledDirectory{dir: sub, limiter: d.limiter}, nil
}

func (d *throttledDirectory) RemoveEntry(ctx context.Context, name string, opts opfsgo.RemoveEntryOptions) error {
	if err := d.limiter.Wait(ctx); err != nil {
		return err
	}

	return d.dir.RemoveEntry(ctx, name, opts)
}

func (d *throttledDirectory) Entries(ctx context.Context) (opfsgo.EntryIterator, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	it, err := d.dir.Entries(ctx)
	if err != nil {
		return nil, err
	}

	return &throttledIterator{it: it, limiter: d.limiter}, nil
}

type throttledFile struct {
	file    opfsgo.File
	limiter *rate.Limiter
}

func (f *throttledFile) CreateWritable(ctx context.Context, opts opfsgo.CreateWritableOptions) (opfsgo.WritableFileStream, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	w, err := f.file.CreateWritable(ctx, opts)
	if err != nil {
		return nil, err
	}

	return &throttledStream{stream: w, limiter: f.limiter}, nil
}

func (f *throttledFile) Read(ctx context.Context) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	return f.file.Read(ctx)
}

func (f *throttledFile) Size(ctx context.Context) (int64, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	return f.file.Size(ctx)
}

type throttledStream struct {
	stream  opfsgo.WritableFileStream
	limiter *rate.Limiter
}

func (s *throttledStream) Write(ctx context.Context, p []byte) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	return s.stream.Write(ctx, p)
}

func (s *throttledStream) Seek(ctx context.Context, offset int64) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	return s.stream.Seek(ctx, offset)
}

func (s *throttledStream) Close(ctx context.Context) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	return s.stream.Close(ctx)
}

type throttledIterator struct {
	it      opfsgo.EntryIterator
	limiter *rate.Limiter
}

func (i *throttledIterator) Next(ctx context.Context) (opfsgo.Entry, error) {
	if err := i.limiter.Wait(ctx); err != nil {
		return opfsgo.Entry{}, err
	}

	return i.it.Next(ctx)
}
