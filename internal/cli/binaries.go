package cli

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/haexhub/haexpass/internal/filex"
	"github.com/haexhub/haexpass/internal/vault/models"
	"github.com/haexhub/haexpass/internal/vault/services"
)

// Attach reads a file from disk, stores it in the binary store and binds it
// to an item.
func (a *App) Attach(ctx context.Context) error {
	itemID, err := getSimpleText(a.reader, "Item id", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}
	path, err := getSimpleText(a.reader, "File path", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	view, err := a.vault.Items.ReadItem(ctx, itemID)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}
	if view == nil {
		fmt.Fprintln(a.out, "Item not found.")
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	hash, err := a.vault.Binaries.AddBinary(ctx, data)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	groupID, err := a.vault.Items.ReadGroupID(ctx, itemID)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	err = a.vault.Items.UpdateItem(ctx, services.ItemUpdate{
		Details: view.Details,
		GroupID: groupID,
		AttachmentsAdd: []models.ItemBinary{
			{BinaryHash: hash, FileName: filepath.Base(path)},
		},
	})
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}
	fmt.Fprintf(a.out, "Attached %s (%s)\n", filepath.Base(path), hash)
	return nil
}

// Export writes an attachment of an item into an "attachments" subdirectory
// of the working directory.
func (a *App) Export(ctx context.Context) error {
	itemID, err := getSimpleText(a.reader, "Item id", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}
	atts, err := a.vault.Items.ReadAttachments(ctx, itemID)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}
	if len(atts) == 0 {
		fmt.Fprintln(a.out, "No attachments.")
		return nil
	}

	dir, err := filex.EnsureSubDir("attachments")
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	for _, att := range atts {
		b, err := a.vault.Binaries.ReadBinary(ctx, att.BinaryHash)
		if err != nil {
			fmt.Fprintln(a.out, err.Error())
			return err
		}
		if b == nil {
			fmt.Fprintf(a.out, "Missing blob for %s, skipping.\n", att.FileName)
			continue
		}
		raw, err := base64.StdEncoding.DecodeString(b.Data)
		if err != nil {
			fmt.Fprintln(a.out, err.Error())
			return err
		}
		target := filepath.Join(dir, att.FileName)
		if err := os.WriteFile(target, raw, 0o600); err != nil {
			fmt.Fprintln(a.out, err.Error())
			return err
		}
		fmt.Fprintf(a.out, "Wrote %s\n", target)
	}
	return nil
}

// Cleanup removes every binary no longer referenced by an attachment or a
// snapshot.
func (a *App) Cleanup(ctx context.Context) error {
	removed, err := a.vault.Binaries.CleanupOrphanedBinaries(ctx)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}
	fmt.Fprintf(a.out, "Removed %d orphaned binar(y/ies).\n", removed)
	return nil
}
