// Package memory provides the reference in-memory backend for the opfsgo
// capability contract.
//
// It implements the full contract over an in-process hierarchical namespace
// with no underlying filesystem: directories are insertion-ordered maps,
// files are byte buffers, and writable streams carry a private cursor.
//
// # Sharing
//
// Handles are cheap copies that alias shared, lock-guarded state. Removing an
// entry from its parent does not invalidate live handles to it; the orphaned
// file or directory stays usable until the last handle is dropped.
//
// # Write Policy
//
// A stream write rebuilds the buffer as content[:cursor] followed by the
// written bytes. Content past the written range is dropped — "truncate at
// cursor, then append" — which differs from the native backend's in-place
// write. See the native package documentation for the divergence.
//
// # Snapshots
//
// The whole tree can be serialized with [DirectoryHandle.Snapshot] and
// rebuilt with [Restore], optionally compressed with zstd or lz4. Snapshots
// exist for tests and for carrying fixture trees between processes; the
// in-memory backend itself has no persistence.
package memory
