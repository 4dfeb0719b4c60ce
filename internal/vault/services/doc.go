// Package services implements the vault operations on top of the repository
// layer: group tree management with trash semantics, item lifecycle with
// append-only snapshots, and content-addressed binary storage with orphan
// cleanup. Multi-statement mutations run inside a single transaction.
package services
