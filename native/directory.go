package native

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/hupe1980/opfsgo"
)

// DirectoryHandle is a path-based handle to a real directory.
type DirectoryHandle struct {
	backend *backend
	path    string
}

var _ opfsgo.Directory = DirectoryHandle{}

// Path returns the absolute or relative path the handle points at.
func (d DirectoryHandle) Path() string { return d.path }

// GetFileHandle implements opfsgo.Directory.
func (d DirectoryHandle) GetFileHandle(ctx context.Context, name string, opts opfsgo.GetFileHandleOptions) (opfsgo.File, error) {
	start := time.Now()
	fh, created, err := d.getFile(name, opts.Create)
	d.backend.metrics.RecordLookup(opfsgo.KindFile, time.Since(start), err)
	d.backend.logger.LogLookup(ctx, opfsgo.KindFile, name, created, err)
	if err != nil {
		return nil, err
	}
	return fh, nil
}

func (d DirectoryHandle) getFile(name string, create bool) (FileHandle, bool, error) {
	if err := validateName(name); err != nil {
		return FileHandle{}, false, err
	}
	path := filepath.Join(d.path, name)

	info, err := d.backend.fsys.Stat(path)
	switch {
	case err == nil:
		if info.IsDir() {
			return FileHandle{}, false, &opfsgo.ErrEntryKind{Name: name, Kind: opfsgo.KindDirectory}
		}
		return FileHandle{backend: d.backend, path: path}, false, nil
	case errors.Is(err, fs.ErrNotExist):
		if !create {
			return FileHandle{}, false, opfsgo.NotFoundError(name)
		}
		f, err := d.backend.fsys.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
		if err != nil {
			return FileHandle{}, false, err
		}
		if err := f.Close(); err != nil {
			return FileHandle{}, false, err
		}
		return FileHandle{backend: d.backend, path: path}, true, nil
	default:
		return FileHandle{}, false, err
	}
}

// GetDirectoryHandle implements opfsgo.Directory.
func (d DirectoryHandle) GetDirectoryHandle(ctx context.Context, name string, opts opfsgo.GetDirectoryHandleOptions) (opfsgo.Directory, error) {
	start := time.Now()
	dh, created, err := d.getDir(name, opts.Create)
	d.backend.metrics.RecordLookup(opfsgo.KindDirectory, time.Since(start), err)
	d.backend.logger.LogLookup(ctx, opfsgo.KindDirectory, name, created, err)
	if err != nil {
		return nil, err
	}
	return dh, nil
}

func (d DirectoryHandle) getDir(name string, create bool) (DirectoryHandle, bool, error) {
	if err := validateName(name); err != nil {
		return DirectoryHandle{}, false, err
	}
	path := filepath.Join(d.path, name)

	info, err := d.backend.fsys.Stat(path)
	switch {
	case err == nil:
		if !info.IsDir() {
			return DirectoryHandle{}, false, &opfsgo.ErrEntryKind{Name: name, Kind: opfsgo.KindFile}
		}
		return DirectoryHandle{backend: d.backend, path: path}, false, nil
	case errors.Is(err, fs.ErrNotExist):
		if !create {
			return DirectoryHandle{}, false, opfsgo.NotFoundError(name)
		}
		if err := d.backend.fsys.MkdirAll(path, 0o755); err != nil {
			return DirectoryHandle{}, false, err
		}
		return DirectoryHandle{backend: d.backend, path: path}, true, nil
	default:
		return DirectoryHandle{}, false, err
	}
}

// RemoveEntry implements opfsgo.Directory.
func (d DirectoryHandle) RemoveEntry(ctx context.Context, name string, opts opfsgo.RemoveEntryOptions) error {
	start := time.Now()
	err := d.remove(name, opts.Recursive)
	d.backend.metrics.RecordRemove(time.Since(start), err)
	d.backend.logger.LogRemove(ctx, name, opts.Recursive, err)
	return err
}

func (d DirectoryHandle) remove(name string, recursive bool) error {
	if err := validateName(name); err != nil {
		return err
	}
	path := filepath.Join(d.path, name)

	info, err := d.backend.fsys.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return opfsgo.NotFoundError(name)
		}
		return err
	}

	if info.IsDir() && recursive {
		return d.backend.fsys.RemoveAll(path)
	}

	if err := d.backend.fsys.Remove(path); err != nil {
		if isNotEmpty(err) {
			return &opfsgo.ErrDirectoryNotEmpty{Name: name}
		}
		return err
	}
	return nil
}

// Entries implements opfsgo.Directory. The directory listing is snapshotted
// eagerly; entries that are neither regular files nor directories are
// skipped.
func (d DirectoryHandle) Entries(ctx context.Context) (opfsgo.EntryIterator, error) {
	start := time.Now()

	dirents, err := d.backend.fsys.ReadDir(d.path)
	d.backend.metrics.RecordEnumerate(len(dirents), time.Since(start), err)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, opfsgo.NotFoundError(d.path)
		}
		return nil, err
	}

	entries := make([]opfsgo.Entry, 0, len(dirents))
	for _, de := range dirents {
		if skipIrregular(de.Type()) {
			continue
		}

		path := filepath.Join(d.path, de.Name())
		e := opfsgo.Entry{Name: de.Name()}
		if de.IsDir() {
			e.Kind = opfsgo.KindDirectory
			e.Directory = DirectoryHandle{backend: d.backend, path: path}
		} else {
			e.Kind = opfsgo.KindFile
			e.File = FileHandle{backend: d.backend, path: path}
		}
		entries = append(entries, e)
	}

	return &entryIterator{entries: entries}, nil
}

type entryIterator struct {
	entries []opfsgo.Entry
	pos     int
}

func (it *entryIterator) Next(_ context.Context) (opfsgo.Entry, error) {
	if it.pos >= len(it.entries) {
		return opfsgo.Entry{}, io.EOF
	}
	e := it.entries[it.pos]
	it.pos++
	return e, nil
}
