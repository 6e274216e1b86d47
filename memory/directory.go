package memory

import (
	"context"
	"io"
	"time"

	"github.com/hupe1980/opfsgo"
)

// DirectoryHandle is a handle to an in-memory directory. The zero value is
// not usable; obtain handles from NewDirectory, Restore or another handle.
type DirectoryHandle struct {
	backend *backend
	node    *dirNode
}

var _ opfsgo.Directory = DirectoryHandle{}

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
	d.node.mu.Lock()
	defer d.node.mu.Unlock()

	if n, ok := d.node.entries[name]; ok {
		if n.kind != opfsgo.KindFile {
			return FileHandle{}, false, &opfsgo.ErrEntryKind{Name: name, Kind: n.kind}
		}
		return FileHandle{backend: d.backend, node: n.file}, false, nil
	}
	if !create {
		return FileHandle{}, false, opfsgo.NotFoundError(name)
	}

	f := &fileNode{}
	d.node.insert(name, &node{kind: opfsgo.KindFile, file: f})
	return FileHandle{backend: d.backend, node: f}, true, nil
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
	d.node.mu.Lock()
	defer d.node.mu.Unlock()

	if n, ok := d.node.entries[name]; ok {
		if n.kind != opfsgo.KindDirectory {
			return DirectoryHandle{}, false, &opfsgo.ErrEntryKind{Name: name, Kind: n.kind}
		}
		return DirectoryHandle{backend: d.backend, node: n.dir}, false, nil
	}
	if !create {
		return DirectoryHandle{}, false, opfsgo.NotFoundError(name)
	}

	child := newDirNode()
	d.node.insert(name, &node{kind: opfsgo.KindDirectory, dir: child})
	return DirectoryHandle{backend: d.backend, node: child}, true, nil
}

// RemoveEntry implements opfsgo.Directory.
//
// The removed subtree is detached in one step; live handles to it keep
// working on the now-orphaned state.
func (d DirectoryHandle) RemoveEntry(ctx context.Context, name string, opts opfsgo.RemoveEntryOptions) error {
	start := time.Now()
	err := d.remove(name, opts.Recursive)
	d.backend.metrics.RecordRemove(time.Since(start), err)
	d.backend.logger.LogRemove(ctx, name, opts.Recursive, err)
	return err
}

func (d DirectoryHandle) remove(name string, recursive bool) error {
	d.node.mu.Lock()
	defer d.node.mu.Unlock()

	n, ok := d.node.entries[name]
	if !ok {
		return opfsgo.NotFoundError(name)
	}
	if n.kind == opfsgo.KindDirectory && !recursive {
		n.dir.mu.RLock()
		empty := len(n.dir.entries) == 0
		n.dir.mu.RUnlock()
		if !empty {
			return &opfsgo.ErrDirectoryNotEmpty{Name: name}
		}
	}
	d.node.remove(name)
	return nil
}

// Entries implements opfsgo.Directory. The snapshot is taken eagerly under a
// read lock; the returned iterator yields it lazily in insertion order.
func (d DirectoryHandle) Entries(ctx context.Context) (opfsgo.EntryIterator, error) {
	start := time.Now()

	d.node.mu.RLock()
	snapshot := make([]opfsgo.Entry, 0, len(d.node.order))
	for _, name := range d.node.order {
		n := d.node.entries[name]
		e := opfsgo.Entry{Name: name, Kind: n.kind}
		switch n.kind {
		case opfsgo.KindDirectory:
			e.Directory = DirectoryHandle{backend: d.backend, node: n.dir}
		case opfsgo.KindFile:
			e.File = FileHandle{backend: d.backend, node: n.file}
		}
		snapshot = append(snapshot, e)
	}
	d.node.mu.RUnlock()

	d.backend.metrics.RecordEnumerate(len(snapshot), time.Since(start), nil)
	return &entryIterator{entries: snapshot}, nil
}

// entryIterator yields a pre-taken snapshot. Exhausted once, never restarted.
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
