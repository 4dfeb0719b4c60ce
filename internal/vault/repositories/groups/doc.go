// Package groups persists the group tree and group membership rows.
//
// It owns two tables: the groups table (a self-referencing forest via
// parent_id) and the group_items table binding items to at most one group.
// Structural rules — trash reparenting, cascade deletes, cycle-safe
// traversal — live in the services layer; this package only issues the
// corresponding statements.
package groups
