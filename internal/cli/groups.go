package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/haexhub/haexpass/internal/vault/models"
)

// Test seams for interactive input.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
	getKeyValues  = GetKeyValues
)

// Groups prints the full group tree, roots first.
func (a *App) Groups(ctx context.Context) error {
	gs, err := a.vault.Groups.ReadGroups(ctx)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}
	if len(gs) == 0 {
		fmt.Fprintln(a.out, "No groups yet.")
		return nil
	}
	a.printTree(gs, nil, 0)
	return nil
}

func (a *App) printTree(all []models.Group, parentID *string, depth int) {
	for _, g := range all {
		if !sameParent(g.ParentID, parentID) {
			continue
		}
		fmt.Fprintf(a.out, "%s%s  %s\n", strings.Repeat("  ", depth), g.ID, g.Name)
		id := g.ID
		a.printTree(all, &id, depth+1)
	}
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// AddGroup creates a group from interactive input.
func (a *App) AddGroup(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Group name", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}
	parent, err := getSimpleText(a.reader, "Parent group id (empty for root)", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	g := models.Group{Name: name}
	if parent != "" {
		g.ParentID = &parent
	}
	created, err := a.vault.Groups.AddGroup(ctx, g)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}
	fmt.Fprintf(a.out, "Created group %s\n", created.ID)
	return nil
}

// DeleteGroup moves a group to trash, or removes it permanently when the
// user confirms.
func (a *App) DeleteGroup(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Group id", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}
	final, err := a.confirmFinal()
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}
	if err := a.vault.Groups.DeleteGroup(ctx, id, final); err != nil {
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

func (a *App) confirmFinal() (bool, error) {
	answer, err := getSimpleText(a.reader, "Delete permanently? (y/N)", a.out)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(answer, "y"), nil
}
