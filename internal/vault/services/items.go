package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/haexhub/haexpass/internal/common"
	"github.com/haexhub/haexpass/internal/dbx"
	"github.com/haexhub/haexpass/internal/vault/equality"
	"github.com/haexhub/haexpass/internal/logging"
	"github.com/haexhub/haexpass/internal/vault/models"
	"github.com/haexhub/haexpass/internal/vault/repositories/binaries"
	"github.com/haexhub/haexpass/internal/vault/repositories/groups"
	"github.com/haexhub/haexpass/internal/vault/repositories/items"
	"github.com/haexhub/haexpass/internal/vault/repositories/snapshots"
	"github.com/haexhub/haexpass/internal/vault/schema"
)

// ItemService manages the item lifecycle: creation with an initial snapshot,
// reads joined with history and attachments, snapshot-first updates and the
// two-stage delete.
type ItemService struct {
	db    *sql.DB
	t     schema.Tables
	log   logging.Logger
	cache cacheMarker
}

// ItemView is the full read projection of one item.
type ItemView struct {
	Details     models.ItemDetails
	KeyValues   []models.KeyValue
	Snapshots   []models.Snapshot
	Attachments []models.Attachment
}

// ItemUpdate describes one edit of an item. Existing key-values and
// attachment bindings are matched by id; entries in the Add slices get fresh
// ids, entries in the Delete slices are removed.
type ItemUpdate struct {
	Details models.ItemDetails
	GroupID *string

	KeyValues       []models.KeyValue
	KeyValuesAdd    []models.KeyValue
	KeyValuesDelete []models.KeyValue

	Attachments       []models.ItemBinary
	AttachmentsAdd    []models.ItemBinary
	AttachmentsDelete []models.ItemBinary
}

func (s *ItemService) guard() error {
	if s == nil || s.db == nil {
		return common.ErrNotInitialized
	}
	return nil
}

// AddItem persists a new item inside one transaction: the details row, the
// group membership, the key-values and the initial snapshot. An empty icon
// falls back to the icon of the containing group. Returns the item id.
func (s *ItemService) AddItem(ctx context.Context, details models.ItemDetails, keyValues []models.KeyValue, group *models.Group) (string, error) {
	if err := s.guard(); err != nil {
		return "", err
	}
	if details.ID == "" {
		details.ID = uuid.NewString()
	}
	if details.Icon == "" && group != nil {
		details.Icon = group.Icon
	}
	now := models.Now()
	details.CreatedAt = now
	details.UpdatedAt = now

	var groupID *string
	if group != nil {
		groupID = &group.ID
	}

	kvs := make([]models.KeyValue, 0, len(keyValues))
	for _, kv := range keyValues {
		kv.ID = uuid.NewString()
		kv.ItemID = details.ID
		kv.UpdatedAt = now
		kvs = append(kvs, kv)
	}

	data, err := models.NewSnapshotData(details, kvs).Marshal()
	if err != nil {
		return "", fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		ir := items.NewSQLiteRepository(tx, s.t)
		gr := groups.NewSQLiteRepository(tx, s.t)
		sr := snapshots.NewSQLiteRepository(tx, s.t)

		if err := ir.InsertDetails(ctx, &details); err != nil {
			return err
		}
		if err := gr.InsertGroupItem(ctx, &models.GroupItem{ItemID: details.ID, GroupID: groupID}); err != nil {
			return err
		}
		for i := range kvs {
			if err := ir.InsertKeyValue(ctx, &kvs[i]); err != nil {
				return err
			}
		}
		return sr.Insert(ctx, &models.Snapshot{
			ID:           uuid.NewString(),
			ItemID:       details.ID,
			SnapshotData: data,
			CreatedAt:    now,
			ModifiedAt:   now,
		})
	})
	if err != nil {
		return "", persistence(err)
	}
	s.markStale()
	return details.ID, nil
}

// ReadItem returns the full projection of an item, or nil if it does not
// exist.
func (s *ItemService) ReadItem(ctx context.Context, id string) (*ItemView, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	ir := items.NewSQLiteRepository(s.db, s.t)
	d, err := ir.GetDetailsByID(ctx, id)
	if err != nil {
		return nil, persistence(err)
	}
	if d == nil {
		return nil, nil
	}
	kvs, err := ir.GetKeyValuesByItemID(ctx, id)
	if err != nil {
		return nil, persistence(err)
	}
	snaps, err := snapshots.NewSQLiteRepository(s.db, s.t).GetByItemID(ctx, id)
	if err != nil {
		return nil, persistence(err)
	}
	atts, err := binaries.NewSQLiteRepository(s.db, s.t).GetAttachmentsByItemID(ctx, id)
	if err != nil {
		return nil, persistence(err)
	}
	return &ItemView{Details: *d, KeyValues: kvs, Snapshots: snaps, Attachments: atts}, nil
}

// ReadItemsByGroup returns the items bound to a group; nil selects the
// ungrouped items.
func (s *ItemService) ReadItemsByGroup(ctx context.Context, groupID *string) ([]models.ItemDetails, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	is, err := items.NewSQLiteRepository(s.db, s.t).GetByGroupID(ctx, groupID)
	if err != nil {
		return nil, persistence(err)
	}
	return is, nil
}

// UpdateItem applies one edit. An empty item id is a silent no-op, and so is
// an edit that leaves the merged state equal to what is stored. Otherwise a
// snapshot of the post-edit state is written first, the current attachment
// set is frozen into it, and then details, membership, key-values and
// attachment bindings are updated, all in one transaction.
func (s *ItemService) UpdateItem(ctx context.Context, upd ItemUpdate) error {
	if err := s.guard(); err != nil {
		return err
	}
	itemID := upd.Details.ID
	if itemID == "" {
		return nil
	}

	ir := items.NewSQLiteRepository(s.db, s.t)
	gr := groups.NewSQLiteRepository(s.db, s.t)
	br := binaries.NewSQLiteRepository(s.db, s.t)

	current, err := ir.GetDetailsByID(ctx, itemID)
	if err != nil {
		return persistence(err)
	}
	if current == nil {
		return fmt.Errorf("item %q does not exist: %w", itemID, common.ErrValidation)
	}
	currentKVs, err := ir.GetKeyValuesByItemID(ctx, itemID)
	if err != nil {
		return persistence(err)
	}
	membership, err := gr.GetGroupItemByItemID(ctx, itemID)
	if err != nil {
		return persistence(err)
	}
	currentBindings, err := br.GetItemBinariesByItemID(ctx, itemID)
	if err != nil {
		return persistence(err)
	}

	now := models.Now()
	merged, adds := mergeKeyValues(itemID, now, currentKVs, upd)

	groupUnchanged := membership != nil && optionalEqual(membership.GroupID, upd.GroupID)
	bindingsUnchanged := len(upd.Attachments) == 0 && len(upd.AttachmentsAdd) == 0 && len(upd.AttachmentsDelete) == 0
	if groupUnchanged && bindingsUnchanged &&
		equality.ItemDetailsEqual(*current, upd.Details) &&
		equality.KeyValuesEqual(currentKVs, merged) {
		return nil
	}

	newBindings := mergeBindings(itemID, currentBindings, upd)

	details := upd.Details
	details.CreatedAt = current.CreatedAt
	details.UpdatedAt = now
	data, err := models.NewSnapshotData(details, merged).Marshal()
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		tir := items.NewSQLiteRepository(tx, s.t)
		tgr := groups.NewSQLiteRepository(tx, s.t)
		tbr := binaries.NewSQLiteRepository(tx, s.t)
		tsr := snapshots.NewSQLiteRepository(tx, s.t)

		snap := models.Snapshot{
			ID:           uuid.NewString(),
			ItemID:       itemID,
			SnapshotData: data,
			CreatedAt:    now,
			ModifiedAt:   now,
		}
		if err := tsr.Insert(ctx, &snap); err != nil {
			return err
		}
		for _, b := range newBindings {
			err := tsr.InsertSnapshotBinary(ctx, &models.SnapshotBinary{
				ID:         uuid.NewString(),
				SnapshotID: snap.ID,
				BinaryHash: b.BinaryHash,
				FileName:   b.FileName,
			})
			if err != nil {
				return err
			}
		}

		if err := tir.UpdateDetails(ctx, &details); err != nil {
			return err
		}
		if err := tgr.UpdateGroupItemGroupID(ctx, itemID, upd.GroupID); err != nil {
			return err
		}

		for _, kv := range upd.KeyValues {
			kv.ItemID = itemID
			kv.UpdatedAt = now
			if err := tir.UpdateKeyValue(ctx, &kv); err != nil {
				return err
			}
		}
		for i := range adds {
			if err := tir.InsertKeyValue(ctx, &adds[i]); err != nil {
				return err
			}
		}
		for _, kv := range upd.KeyValuesDelete {
			if err := tir.DeleteKeyValueByID(ctx, kv.ID); err != nil {
				return err
			}
		}

		for _, ib := range upd.Attachments {
			ib.ItemID = itemID
			if err := tbr.UpdateItemBinary(ctx, &ib); err != nil {
				return err
			}
		}
		for _, ib := range upd.AttachmentsAdd {
			bound := newBindingByFile(newBindings, ib)
			if err := tbr.InsertItemBinary(ctx, &bound); err != nil {
				return err
			}
		}
		for _, ib := range upd.AttachmentsDelete {
			if err := tbr.DeleteItemBinaryByID(ctx, ib.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return persistence(err)
	}
	s.markStale()
	return nil
}

// DeleteItem removes an item. Without final it is regrouped under the trash
// root, which is created on demand. With final the details, key-values, full
// snapshot history with its frozen bindings, attachment bindings and group
// membership are removed in one transaction. Blob rows stay until
// CleanupOrphanedBinaries runs.
func (s *ItemService) DeleteItem(ctx context.Context, id string, final bool) error {
	if err := s.guard(); err != nil {
		return err
	}
	if !final {
		gr := groups.NewSQLiteRepository(s.db, s.t)
		if _, err := ensureTrash(ctx, gr); err != nil {
			return err
		}
		trash := TrashID
		if err := gr.UpdateGroupItemGroupID(ctx, id, &trash); err != nil {
			return persistence(err)
		}
		s.markStale()
		return nil
	}
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return deleteItemCascade(ctx, tx, s.t, id)
	})
	if err != nil {
		return persistence(err)
	}
	s.markStale()
	return nil
}

// DeleteKeyValue removes a single key-value row by id.
func (s *ItemService) DeleteKeyValue(ctx context.Context, id string) error {
	if err := s.guard(); err != nil {
		return err
	}
	if err := items.NewSQLiteRepository(s.db, s.t).DeleteKeyValueByID(ctx, id); err != nil {
		return persistence(err)
	}
	return nil
}

// ReadGroupID returns the current group binding of an item; nil when the
// item is ungrouped or unknown.
func (s *ItemService) ReadGroupID(ctx context.Context, itemID string) (*string, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	gi, err := groups.NewSQLiteRepository(s.db, s.t).GetGroupItemByItemID(ctx, itemID)
	if err != nil {
		return nil, persistence(err)
	}
	if gi == nil {
		return nil, nil
	}
	return gi.GroupID, nil
}

// ReadKeyValues returns the key-values of an item.
func (s *ItemService) ReadKeyValues(ctx context.Context, itemID string) ([]models.KeyValue, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	kvs, err := items.NewSQLiteRepository(s.db, s.t).GetKeyValuesByItemID(ctx, itemID)
	if err != nil {
		return nil, persistence(err)
	}
	return kvs, nil
}

// ReadSnapshots returns the history of an item, oldest first.
func (s *ItemService) ReadSnapshots(ctx context.Context, itemID string) ([]models.Snapshot, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	snaps, err := snapshots.NewSQLiteRepository(s.db, s.t).GetByItemID(ctx, itemID)
	if err != nil {
		return nil, persistence(err)
	}
	return snaps, nil
}

// ReadAttachments returns the live attachments of an item with their blob
// sizes.
func (s *ItemService) ReadAttachments(ctx context.Context, itemID string) ([]models.Attachment, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	atts, err := binaries.NewSQLiteRepository(s.db, s.t).GetAttachmentsByItemID(ctx, itemID)
	if err != nil {
		return nil, persistence(err)
	}
	return atts, nil
}

func (s *ItemService) markStale() {
	if s.cache != nil {
		s.cache.MarkStale()
	}
}

// mergeKeyValues computes the post-edit key-value set: existing rows with
// updates applied by id, deletes removed, adds appended with fresh ids. The
// prepared adds are returned separately so the insert statements reuse the
// same ids.
func mergeKeyValues(itemID, now string, existing []models.KeyValue, upd ItemUpdate) (merged, adds []models.KeyValue) {
	updates := make(map[string]models.KeyValue, len(upd.KeyValues))
	for _, kv := range upd.KeyValues {
		updates[kv.ID] = kv
	}
	deletes := make(map[string]bool, len(upd.KeyValuesDelete))
	for _, kv := range upd.KeyValuesDelete {
		deletes[kv.ID] = true
	}

	for _, kv := range existing {
		if deletes[kv.ID] {
			continue
		}
		if u, ok := updates[kv.ID]; ok {
			kv.Key = u.Key
			kv.Value = u.Value
			kv.UpdatedAt = now
		}
		merged = append(merged, kv)
	}
	for _, kv := range upd.KeyValuesAdd {
		kv.ID = uuid.NewString()
		kv.ItemID = itemID
		kv.UpdatedAt = now
		adds = append(adds, kv)
		merged = append(merged, kv)
	}
	return merged, adds
}

// mergeBindings computes the post-edit attachment bindings the same way,
// assigning fresh ids to additions.
func mergeBindings(itemID string, existing []models.ItemBinary, upd ItemUpdate) []models.ItemBinary {
	updates := make(map[string]models.ItemBinary, len(upd.Attachments))
	for _, ib := range upd.Attachments {
		updates[ib.ID] = ib
	}
	deletes := make(map[string]bool, len(upd.AttachmentsDelete))
	for _, ib := range upd.AttachmentsDelete {
		deletes[ib.ID] = true
	}

	var result []models.ItemBinary
	for _, ib := range existing {
		if deletes[ib.ID] {
			continue
		}
		if u, ok := updates[ib.ID]; ok {
			ib.BinaryHash = u.BinaryHash
			ib.FileName = u.FileName
		}
		result = append(result, ib)
	}
	for _, ib := range upd.AttachmentsAdd {
		ib.ID = uuid.NewString()
		ib.ItemID = itemID
		result = append(result, ib)
	}
	return result
}

// newBindingByFile finds the prepared binding for an addition so the insert
// uses the id already frozen into the snapshot.
func newBindingByFile(prepared []models.ItemBinary, add models.ItemBinary) models.ItemBinary {
	for _, p := range prepared {
		if p.BinaryHash == add.BinaryHash && p.FileName == add.FileName {
			return p
		}
	}
	return add
}

// deleteItemCascade permanently removes one item and every row hanging off
// it. The caller supplies the transaction.
func deleteItemCascade(ctx context.Context, tx dbx.DBTX, t schema.Tables, itemID string) error {
	ir := items.NewSQLiteRepository(tx, t)
	if err := ir.DeleteKeyValuesByItemID(ctx, itemID); err != nil {
		return err
	}
	if err := snapshots.NewSQLiteRepository(tx, t).DeleteByItemID(ctx, itemID); err != nil {
		return err
	}
	if err := binaries.NewSQLiteRepository(tx, t).DeleteItemBinariesByItemID(ctx, itemID); err != nil {
		return err
	}
	if err := groups.NewSQLiteRepository(tx, t).DeleteGroupItemByItemID(ctx, itemID); err != nil {
		return err
	}
	return ir.DeleteDetailsByID(ctx, itemID)
}
