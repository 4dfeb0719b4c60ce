// Package models defines the persisted vault entities: the group tree,
// password items with their key-value extension fields, content-addressed
// binaries and their bindings, and immutable item snapshots.
package models

import "time"

// TimeLayout is the storage layout for timestamps. It is fixed width and UTC,
// so lexicographic order on the stored text equals chronological order.
const TimeLayout = "2006-01-02 15:04:05.000000000"

// Now returns the current UTC time formatted with TimeLayout.
func Now() string {
	return time.Now().UTC().Format(TimeLayout)
}

// Group is a node in the organizational tree. ParentID == nil means the group
// is a root. One well-known id (services.TrashID) is reserved for the trash
// root.
type Group struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Color       string
	Order       *int
	ParentID    *string
	CreatedAt   string
	UpdatedAt   string
}

// ItemDetails is the core secret record.
type ItemDetails struct {
	ID        string
	Title     string
	Username  string
	Password  string
	Note      string
	Icon      string
	Tags      string
	URL       string
	OtpSecret string
	CreatedAt string
	UpdatedAt string
}

// KeyValue is a free-form extension field attached to an item.
type KeyValue struct {
	ID        string
	ItemID    string
	Key       string
	Value     string
	UpdatedAt string
}

// GroupItem records group membership. An item has at most one row; a nil
// GroupID means the item is ungrouped.
type GroupItem struct {
	ItemID  string
	GroupID *string
}

// Binary is a content-addressed blob. Hash is the SHA-256 hex digest of the
// raw bytes and serves as the primary key; Data holds the bytes encoded as
// base64 text.
type Binary struct {
	Hash      string
	Data      string
	Size      int64
	CreatedAt string
}

// ItemBinary binds a binary to an item as a live attachment. Multiple
// bindings may reference the same Binary row.
type ItemBinary struct {
	ID         string
	ItemID     string
	BinaryHash string
	FileName   string
}

// Snapshot is an immutable point-in-time copy of an item's full field set,
// serialized as JSON in SnapshotData. Snapshots are append-only.
type Snapshot struct {
	ID           string
	ItemID       string
	SnapshotData string
	CreatedAt    string
	ModifiedAt   string
}

// SnapshotBinary freezes an attachment binding into a snapshot. Like
// ItemBinary it stores only hash and filename, never the bytes.
type SnapshotBinary struct {
	ID         string
	SnapshotID string
	BinaryHash string
	FileName   string
}

// Attachment is the read projection of an ItemBinary joined with its Binary
// row, surfacing the deduplicated blob size.
type Attachment struct {
	ID         string
	ItemID     string
	BinaryHash string
	FileName   string
	Size       int64
}
