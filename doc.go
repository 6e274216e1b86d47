// Package opfsgo provides a virtual file-storage abstraction modeled after the
// browser's Origin Private File System (OPFS).
//
// A small capability contract — [Directory], [File] and [WritableFileStream] —
// is implemented by interchangeable backends:
//
//   - memory: the reference in-memory backend (tests, ephemeral storage)
//   - native: real filesystem, path-based handles
//   - web: browser OPFS via syscall/js (js/wasm builds only)
//   - s3: object storage over an S3 bucket prefix
//
// The persistent package selects native or web at build time and resolves the
// app-specific root directory.
//
// # Quick Start
//
//	ctx := context.Background()
//	root := memory.NewDirectory()
//
//	file, err := root.GetFileHandle(ctx, "example.txt", opfsgo.GetFileHandleOptions{Create: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	w, err := file.CreateWritable(ctx, opfsgo.CreateWritableOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := w.Write(ctx, []byte("Hello, world!")); err != nil {
//	    log.Fatal(err)
//	}
//	if err := w.Close(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	data, _ := file.Read(ctx)
//	fmt.Println(string(data))
//
// # Handles
//
// Handles are cheap, copyable references to shared state. Copying a handle
// never copies the underlying directory map or file buffer; mutations made
// through one handle are visible through every alias. A handle stays valid
// for as long as any alias of the underlying entry is alive, even after the
// entry has been removed from its parent (the orphaned state is simply no
// longer reachable by name).
//
// # Writable Streams
//
// A [WritableFileStream] is a single-writer view over a file with a private
// cursor. The cursor starts at 0 even when existing data is kept; callers who
// want append semantics must Seek to the prior size first. See the package
// documentation of each backend for its write-at-cursor policy: the reference
// backend truncates everything past the written range, the native backend
// does not. Cross-backend code should not depend on the tail behavior of
// overlapping writes.
//
// # Errors
//
// Contract failures map onto four sentinels — [ErrNotFound], [ErrWrongKind],
// [ErrNotEmpty], [ErrOutOfRange] — matchable with errors.Is. Everything below
// the contract (host I/O failures, quota, permissions) is passed through
// opaquely. There are no retries and no partial success: every operation
// either fully applies or has no effect. Enumeration is the one exception:
// individual elements may fail without failing the sequence.
package opfsgo
