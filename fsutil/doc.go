// Package fsutil provides convenience helpers on top of the opfsgo
// capability contract: one-shot file reads and writes, recursive directory
// walking, and copying trees between backends.
//
// All helpers operate purely through the contract interfaces, so they work
// the same against any backend combination, e.g. seeding an in-memory tree
// from disk or mirroring a local directory into a bucket.
package fsutil
