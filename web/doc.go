// Package web implements the opfsgo capability contract over the browser's
// Origin Private File System API. It only builds for js/wasm targets.
//
// Every operation is a thin forwarder to the host handle via syscall/js; the
// package adds promise bridging, byte-slice conversion and translation of
// DOMException names (NotFoundError, TypeMismatchError,
// InvalidModificationError) onto the contract taxonomy. Atomicity and write
// policy are whatever the host provides.
package web
