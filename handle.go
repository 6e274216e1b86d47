package opfsgo

import (
	"context"
)

// GetFileHandleOptions configures Directory.GetFileHandle.
type GetFileHandleOptions struct {
	// Create creates the file when no entry with the given name exists.
	Create bool
}

// GetDirectoryHandleOptions configures Directory.GetDirectoryHandle.
type GetDirectoryHandleOptions struct {
	// Create creates the directory when no entry with the given name exists.
	Create bool
}

// RemoveEntryOptions configures Directory.RemoveEntry.
type RemoveEntryOptions struct {
	// Recursive allows removal of non-empty directories.
	Recursive bool
}

// CreateWritableOptions configures File.CreateWritable.
type CreateWritableOptions struct {
	// KeepExistingData preserves the file content when the stream is created.
	// When false the file is truncated to zero length immediately, not on the
	// first write. The cursor starts at 0 either way.
	KeepExistingData bool
}

// EntryKind distinguishes the two entry variants of a directory.
// An entry's kind never changes in place; rebinding a name to the other kind
// requires removing and recreating it.
type EntryKind uint8

const (
	// KindFile marks an entry backed by a file.
	KindFile EntryKind = iota
	// KindDirectory marks an entry backed by a directory.
	KindDirectory
)

func (k EntryKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	default:
		return "unknown"
	}
}

// Entry is a named child of a directory, tagged as file or directory.
// Exactly one of Directory and File is non-nil, matching Kind.
type Entry struct {
	Name      string
	Kind      EntryKind
	Directory Directory
	File      File
}

// EntryIterator is a lazy, finite, non-restartable sequence of directory
// entries representing a point-in-time snapshot.
//
// Next returns io.EOF once the sequence is exhausted. An element may fail
// individually (for example an entry that disappeared under a concurrent
// removal) without terminating the sequence; callers should keep iterating
// after an element-level error.
type EntryIterator interface {
	Next(ctx context.Context) (Entry, error)
}

// Directory is a handle to a mutable mapping from entry names to files and
// subdirectories. Implementations must be safe for concurrent use.
type Directory interface {
	// GetFileHandle resolves name to a file handle. It fails with ErrNotFound
	// when the name is absent and opts.Create is false, and with ErrWrongKind
	// when the name is bound to a directory.
	GetFileHandle(ctx context.Context, name string, opts GetFileHandleOptions) (File, error)

	// GetDirectoryHandle resolves name to a directory handle, with rules
	// symmetric to GetFileHandle.
	GetDirectoryHandle(ctx context.Context, name string, opts GetDirectoryHandleOptions) (Directory, error)

	// RemoveEntry removes the named entry. It fails with ErrNotFound when the
	// name is absent and with ErrNotEmpty when the entry is a non-empty
	// directory and opts.Recursive is false.
	RemoveEntry(ctx context.Context, name string, opts RemoveEntryOptions) error

	// Entries returns a snapshot sequence of the directory's children.
	// Ordering is unspecified but stable for the duration of one enumeration.
	Entries(ctx context.Context) (EntryIterator, error)
}

// File is a handle to a single content buffer.
type File interface {
	// CreateWritable opens a writable stream over the file.
	CreateWritable(ctx context.Context, opts CreateWritableOptions) (WritableFileStream, error)

	// Read returns the full current content.
	Read(ctx context.Context) ([]byte, error)

	// Size returns the current content length in bytes, independent of any
	// open stream's cursor.
	Size(ctx context.Context) (int64, error)
}

// WritableFileStream is a transient single-writer view over a file with a
// private cursor. It must be closed; backends may flush or finalize on Close.
// Calling Close twice is undefined by the contract.
type WritableFileStream interface {
	// Write writes p at the current cursor position and advances the cursor
	// by len(p), extending the file as needed.
	Write(ctx context.Context, p []byte) error

	// Seek repositions the cursor. It fails with ErrOutOfRange when offset
	// exceeds the current length; offset == length is legal.
	Seek(ctx context.Context, offset int64) error

	// Close finalizes the stream.
	Close(ctx context.Context) error
}
