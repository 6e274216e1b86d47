package fsutil

import (
	"context"
	"errors"
	"io"

	"github.com/hupe1980/opfsgo"
)

// ReadFile returns the content of the named file in dir.
func ReadFile(ctx context.Context, dir opfsgo.Directory, name string) ([]byte, error) {
	file, err := dir.GetFileHandle(ctx, name, opfsgo.GetFileHandleOptions{})
	if err != nil {
		return nil, err
	}

	return file.Read(ctx)
}

// WriteFile replaces the content of the named file in dir, creating it if
// missing.
func WriteFile(ctx context.Context, dir opfsgo.Directory, name string, data []byte) error {
	file, err := dir.GetFileHandle(ctx, name, opfsgo.GetFileHandleOptions{Create: true})
	if err != nil {
		return err
	}

	w, err := file.CreateWritable(ctx, opfsgo.CreateWritableOptions{})
	if err != nil {
		return err
	}

	if err := w.Write(ctx, data); err != nil {
		_ = w.Close(ctx)
		return err
	}

	return w.Close(ctx)
}

// AppendFile appends data to the named file in dir, creating it if missing.
func AppendFile(ctx context.Context, dir opfsgo.Directory, name string, data []byte) error {
	file, err := dir.GetFileHandle(ctx, name, opfsgo.GetFileHandleOptions{Create: true})
	if err != nil {
		return err
	}

	size, err := file.Size(ctx)
	if err != nil {
		return err
	}

	w, err := file.CreateWritable(ctx, opfsgo.CreateWritableOptions{KeepExistingData: true})
	if err != nil {
		return err
	}

	if err := w.Seek(ctx, size); err != nil {
		_ = w.Close(ctx)
		return err
	}

	if err := w.Write(ctx, data); err != nil {
		_ = w.Close(ctx)
		return err
	}

	return w.Close(ctx)
}

// SkipDir can be returned by a WalkFunc to prune the walk, with the same
// meaning as io/fs.SkipDir: for a directory entry it skips descending into
// it, for a file entry it skips the remaining entries of the containing
// directory. It is never surfaced as an error by WalkDir.
var SkipDir = errors.New("skip this directory")

// WalkFunc is invoked by WalkDir for every entry. path is slash-joined and
// relative to the walk root.
type WalkFunc func(path string, entry opfsgo.Entry) error

// WalkDir walks the tree rooted at dir in enumeration order, calling fn for
// each entry. Directories are descended into after their own callback unless
// fn returns SkipDir.
func WalkDir(ctx context.Context, dir opfsgo.Directory, fn WalkFunc) error {
	return walk(ctx, dir, "", fn)
}

func walk(ctx context.Context, dir opfsgo.Directory, prefix string, fn WalkFunc) error {
	it, err := dir.Entries(ctx)
	if err != nil {
		return err
	}

	for {
		entry, err := it.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		path := entry.Name
		if prefix != "" {
			path = prefix + "/" + entry.Name
		}

		if err := fn(path, entry); err != nil {
			if errors.Is(err, SkipDir) {
				if entry.Kind == opfsgo.KindDirectory {
					// Skip descending into this directory only.
					continue
				}
				// On a file, skip the remainder of the containing directory.
				return nil
			}

			return err
		}

		if entry.Kind == opfsgo.KindDirectory {
			if err := walk(ctx, entry.Directory, path, fn); err != nil {
				return err
			}
		}
	}
}
