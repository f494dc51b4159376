// Package state persists local client state: session credentials in the
// secure partition, and scan history, product overrides, and the selected
// list id in the general partition. Everything is backed by a single
// SQLite key-value file; stores never retry, failures surface as
// types.StorageError.
package state
