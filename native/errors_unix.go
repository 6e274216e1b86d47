//go:build unix

package native

import (
	"errors"

	"golang.org/x/sys/unix"
)

// isNotEmpty reports whether err is the OS's non-empty-directory error.
// Some systems report EEXIST instead of ENOTEMPTY (SUSv3 allows both).
func isNotEmpty(err error) bool {
	return errors.Is(err, unix.ENOTEMPTY) || errors.Is(err, unix.EEXIST)
}
