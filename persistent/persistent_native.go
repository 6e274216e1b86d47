//go:build !js

package persistent

import (
	"context"
	"fmt"
	"os"

	"github.com/adrg/xdg"

	"github.com/hupe1980/opfsgo/native"
)

// Handle types of the selected backend.
type (
	DirectoryHandle    = native.DirectoryHandle
	FileHandle         = native.FileHandle
	WritableFileStream = native.WritableFileStream
)

// AppSpecificDir returns a directory handle for app-specific data storage,
// rooted at the user's data directory (e.g. ~/.local/share on Linux). The
// directory is created if missing.
//
// For logger or metrics wiring, use native.NewDirectory directly.
func AppSpecificDir(_ context.Context) (DirectoryHandle, error) {
	dataDir := xdg.DataHome
	if dataDir == "" {
		return DirectoryHandle{}, fmt.Errorf("could not find user data directory")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return DirectoryHandle{}, fmt.Errorf("create user data directory: %w", err)
	}
	return native.NewDirectory(dataDir)
}
