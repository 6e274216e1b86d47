// Package fs provides the filesystem seam behind the native backend.
//
// The package defines two interfaces:
//
//   - [File]: an open file with read/write/seek/sync capabilities
//   - [FileSystem]: the filesystem operations the native backend needs
//     (open, stat, remove, mkdir, readdir)
//
// # Implementations
//
//   - [LocalFS]: production implementation using the standard os package
//   - [FaultyFS]: test utility for fault injection (simulate I/O errors)
//
// Production code should use fs.Default (which is [LocalFS]); tests inject
// [FaultyFS] to exercise the native backend's error paths without touching a
// real broken disk.
//
// # Design Notes
//
// This package intentionally does NOT include context.Context parameters.
// Local filesystem operations are fast and non-interruptible at the syscall
// level; cancellation is handled one layer up, at the capability contract.
package fs
