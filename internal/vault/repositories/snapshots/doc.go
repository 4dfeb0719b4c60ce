// Package snapshots persists the immutable history of item states.
//
// It owns the item_snapshots table (append-only JSON payloads) and the
// snapshot_binaries table freezing attachment bindings into history. Snapshot
// rows are never updated; they disappear only as a cascade of a permanent
// item delete.
package snapshots
