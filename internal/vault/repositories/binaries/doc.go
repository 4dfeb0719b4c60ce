// Package binaries persists content-addressed blobs and their live bindings.
//
// The binaries table is keyed by the SHA-256 hex digest of the raw bytes, so
// identical content always maps to one row. The item_binaries table binds
// blobs to items by hash and filename only; snapshot bindings live in the
// snapshots aggregate but are consulted here by the orphan sweep.
package binaries
