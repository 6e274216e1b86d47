// Package persistent exposes the platform's persistent storage backend under
// one set of names: native on regular targets, the browser OPFS backend on
// js/wasm. Code written against this package compiles unchanged for both.
//
// AppSpecificDir returns the root directory for app-private data: the user
// data directory on native platforms, the origin-private root on the web.
package persistent
