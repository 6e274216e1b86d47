package fsutil

import (
	"context"
	"errors"
	"io"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/opfsgo"
)

// CopyDirectoryOptions configures CopyDirectory.
type CopyDirectoryOptions struct {
	// Concurrency bounds the number of files copied in parallel. Zero means
	// one worker per CPU.
	Concurrency int
}

// CopyDirectory copies the tree rooted at src into dst. The two directories
// may belong to different backends. Directory structure is created
// synchronously; file contents are copied by a bounded worker group. Existing
// files in dst are overwritten, extra entries are left alone.
func CopyDirectory(ctx context.Context, src, dst opfsgo.Directory, opts CopyDirectoryOptions) error {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	if err := copyLevel(gctx, g, src, dst); err != nil {
		_ = g.Wait()
		return err
	}

	return g.Wait()
}

func copyLevel(ctx context.Context, g *errgroup.Group, src, dst opfsgo.Directory) error {
	it, err := src.Entries(ctx)
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

		switch entry.Kind {
		case opfsgo.KindDirectory:
			sub, err := dst.GetDirectoryHandle(ctx, entry.Name, opfsgo.GetDirectoryHandleOptions{Create: true})
			if err != nil {
				return err
			}

			if err := copyLevel(ctx, g, entry.Directory, sub); err != nil {
				return err
			}
		case opfsgo.KindFile:
			srcFile := entry.File
			name := entry.Name

			g.Go(func() error {
				data, err := srcFile.Read(ctx)
				if err != nil {
					return err
				}

				return WriteFile(ctx, dst, name, data)
			})
		}
	}
}
