// Package native implements the opfsgo capability contract over the real
// filesystem with path-based handles.
//
// All calls are thin delegations to the operating system; the backend adds
// only error translation onto the contract taxonomy (ErrNotFound,
// ErrWrongKind, ErrNotEmpty, ErrOutOfRange) and name validation. Atomicity is
// whatever the underlying syscalls provide.
//
// # Write Policy Divergence
//
// A stream write goes through a real file descriptor: seek to the cursor,
// write the bytes. Unlike the reference in-memory backend, content past the
// written range is NOT truncated. After
//
//	write "Hello"; seek 0; write "Hi"
//
// the native backend reads back "Hillo" where the memory backend reads "Hi".
// Cross-backend code must not depend on the tail behavior of overlapping
// writes.
package native
