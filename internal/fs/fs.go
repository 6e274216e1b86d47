package fs

import (
	"io"
	"os"
)

// File is an open file handle.
type File interface {
	io.Reader
	io.Writer
	io.Seeker
	io.Closer

	// Stat returns metadata for the open file.
	Stat() (os.FileInfo, error)

	// Sync flushes buffered writes to stable storage.
	Sync() error
}

// FileSystem abstracts the filesystem operations used by the native backend.
type FileSystem interface {
	OpenFile(name string, flag int, perm os.FileMode) (File, error)
	Stat(name string) (os.FileInfo, error)
	Remove(name string) error
	RemoveAll(name string) error
	MkdirAll(path string, perm os.FileMode) error
	ReadDir(name string) ([]os.DirEntry, error)
	ReadFile(name string) ([]byte, error)
}

// LocalFS is the production FileSystem backed by the os package.
type LocalFS struct{}

// Default is the FileSystem used unless one is injected.
var Default FileSystem = LocalFS{}

func (LocalFS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	return os.OpenFile(name, flag, perm)
}

func (LocalFS) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (LocalFS) Remove(name string) error {
	return os.Remove(name)
}

func (LocalFS) RemoveAll(name string) error {
	return os.RemoveAll(name)
}

func (LocalFS) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (LocalFS) ReadDir(name string) ([]os.DirEntry, error) {
	return os.ReadDir(name)
}

func (LocalFS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}
