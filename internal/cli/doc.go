// Package cli implements the interactive haexpass shell: a small REPL over
// the vault services for browsing groups, managing items, attaching files
// and running maintenance tasks.
package cli
