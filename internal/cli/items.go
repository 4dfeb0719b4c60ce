package cli

import (
	"context"
	"fmt"

	"github.com/haexhub/haexpass/internal/vault/models"
)

// List prints the cached item listing.
func (a *App) List(ctx context.Context) error {
	l, err := a.vault.Listings(ctx)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}
	if len(l.Items) == 0 {
		fmt.Fprintln(a.out, "No items yet.")
		return nil
	}
	for _, it := range l.Items {
		fmt.Fprintf(a.out, "%s  %s (%s)\n", it.ID, it.Title, it.Username)
	}
	return nil
}

// AddItem creates an item from interactive input.
func (a *App) AddItem(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}
	url, err := getSimpleText(a.reader, "URL", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}
	note, err := getMultiline(a.reader, "Note", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}
	kvs, err := getKeyValues(a.reader, a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}
	groupID, err := getSimpleText(a.reader, "Group id (empty for none)", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	var group *models.Group
	if groupID != "" {
		group, err = a.vault.Groups.ReadGroup(ctx, groupID)
		if err != nil {
			fmt.Fprintln(a.out, err.Error())
			return err
		}
		if group == nil {
			fmt.Fprintf(a.out, "Group %s does not exist.\n", groupID)
			return nil
		}
	}

	details := models.ItemDetails{
		Title:    title,
		Username: username,
		Password: string(password),
		URL:      url,
		Note:     note,
	}
	id, err := a.vault.Items.AddItem(ctx, details, kvs, group)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}
	fmt.Fprintf(a.out, "Created item %s\n", id)
	return nil
}

// Show prints one item with its fields, attachments and history length.
func (a *App) Show(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Item id", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}
	view, err := a.vault.Items.ReadItem(ctx, id)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}
	if view == nil {
		fmt.Fprintln(a.out, "Item not found.")
		return nil
	}

	d := view.Details
	fmt.Fprintf(a.out, "Title:    %s\n", d.Title)
	fmt.Fprintf(a.out, "Username: %s\n", d.Username)
	fmt.Fprintf(a.out, "Password: %s\n", d.Password)
	fmt.Fprintf(a.out, "URL:      %s\n", d.URL)
	if d.Note != "" {
		fmt.Fprintf(a.out, "Note:     %s\n", d.Note)
	}
	for _, kv := range view.KeyValues {
		fmt.Fprintf(a.out, "%s = %s\n", kv.Key, kv.Value)
	}
	for _, att := range view.Attachments {
		fmt.Fprintf(a.out, "Attachment: %s (%d bytes) %s\n", att.FileName, att.Size, att.ID)
	}
	fmt.Fprintf(a.out, "History:  %d snapshot(s)\n", len(view.Snapshots))
	return nil
}

// History prints the snapshot history of an item, oldest first.
func (a *App) History(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Item id", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}
	snaps, err := a.vault.Items.ReadSnapshots(ctx, id)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}
	if len(snaps) == 0 {
		fmt.Fprintln(a.out, "No history.")
		return nil
	}
	for i, snap := range snaps {
		data, err := models.UnmarshalSnapshotData(snap.SnapshotData)
		if err != nil {
			fmt.Fprintln(a.out, err.Error())
			return err
		}
		fmt.Fprintf(a.out, "#%d %s  title=%q username=%q fields=%d\n",
			i+1, snap.CreatedAt, data.Title, data.Username, len(data.KeyValues))
	}
	return nil
}

// DeleteItem moves an item to trash, or removes it permanently when the user
// confirms.
func (a *App) DeleteItem(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Item id", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}
	final, err := a.confirmFinal()
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}
	if err := a.vault.Items.DeleteItem(ctx, id, final); err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}
	if final {
		fmt.Fprintln(a.out, "Deleted permanently.")
	} else {
		fmt.Fprintln(a.out, "Moved to trash.")
	}
	return nil
}
