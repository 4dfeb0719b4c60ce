// Package items persists password items and their key-value extension rows.
//
// It owns the item_details and item_key_values tables. Group membership,
// attachments and snapshots are separate aggregates; the services layer joins
// them into the full item view.
package items
