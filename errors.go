package opfsgo

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrNotFound is returned when a required entry does not exist.
	//
	// It aliases fs.ErrNotExist so that errors.Is(err, fs.ErrNotExist) works
	// across backends.
	ErrNotFound = fs.ErrNotExist

	// ErrWrongKind is returned when an entry exists but is the wrong variant,
	// e.g. GetFileHandle on a name bound to a directory.
	ErrWrongKind = errors.New("entry is the wrong kind")

	// ErrNotEmpty is returned when a non-empty directory is removed without
	// the recursive option.
	ErrNotEmpty = errors.New("directory not empty")

	// ErrOutOfRange is returned when a seek targets an offset beyond the
	// current length.
	ErrOutOfRange = errors.New("offset out of range")

	// ErrClosed is returned by the reference backend for operations on a
	// closed writable stream. Other backends may surface their own errors;
	// the contract leaves use-after-close undefined.
	ErrClosed = errors.New("writable stream closed")
)

// ErrEntryKind reports that a name resolved to an entry of the wrong kind.
//
// errors.Is(err, ErrWrongKind) matches it.
type ErrEntryKind struct {
	Name string
	Kind EntryKind // the kind the entry actually has
}

func (e *ErrEntryKind) Error() string {
	return fmt.Sprintf("%q is a %s", e.Name, e.Kind)
}

func (e *ErrEntryKind) Unwrap() error { return ErrWrongKind }

// ErrSeekOutOfRange reports a seek beyond the end of the stream.
//
// errors.Is(err, ErrOutOfRange) matches it.
type ErrSeekOutOfRange struct {
	Offset int64
	Size   int64
}

func (e *ErrSeekOutOfRange) Error() string {
	return fmt.Sprintf("cannot seek to %d: content is only %d bytes long", e.Offset, e.Size)
}

func (e *ErrSeekOutOfRange) Unwrap() error { return ErrOutOfRange }

// ErrDirectoryNotEmpty reports a non-recursive removal of a populated
// directory.
//
// errors.Is(err, ErrNotEmpty) matches it.
type ErrDirectoryNotEmpty struct {
	Name string
}

func (e *ErrDirectoryNotEmpty) Error() string {
	return fmt.Sprintf("directory %q is not empty", e.Name)
}

func (e *ErrDirectoryNotEmpty) Unwrap() error { return ErrNotEmpty }

// NotFoundError wraps ErrNotFound with the entry name for context.
func NotFoundError(name string) error {
	return fmt.Errorf("%w: %q", ErrNotFound, name)
}
