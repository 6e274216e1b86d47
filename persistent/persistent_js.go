//go:build js && wasm

package persistent

import (
	"context"

	"github.com/hupe1980/opfsgo/web"
)

// Handle types of the selected backend.
type (
	DirectoryHandle    = web.DirectoryHandle
	FileHandle         = web.FileHandle
	WritableFileStream = web.WritableFileStream
)

// AppSpecificDir returns the origin-private root directory.
func AppSpecificDir(ctx context.Context) (DirectoryHandle, error) {
	return web.Root(ctx)
}
