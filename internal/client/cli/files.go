package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rolandocepedadev/ccat/internal/client/listing"
)

// resolve turns a row number of the last listing, or a raw id, into a file id.
func (a *App) resolve(ref string) (string, error) {
	if n, err := strconv.Atoi(strings.TrimPrefix(ref, "#")); err == nil {
		if n < 1 || n > len(a.rows) {
			return "", fmt.Errorf("no row %d, run 'ls' first", n)
		}
		return a.rows[n-1], nil
	}
	if _, ok := a.view.Get(ref); !ok {
		return "", fmt.Errorf("file %s not found", ref)
	}
	return ref, nil
}

func (a *App) resolveAll(refs []string) ([]string, error) {
	ids := make([]string, 0, len(refs))
	for _, r := range refs {
		id, err := a.resolve(r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (a *App) oneRef(args []string, usage string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("usage: %s", usage)
	}
	return a.resolve(args[0])
}

// List refreshes the records from the server and prints them.
func (a *App) List(ctx context.Context, _ []string) error {
	files, err := a.api.ListFiles(ctx)
	if err != nil {
		return err
	}
	a.view.Replace(files)
	a.printFiles()
	return nil
}

func (a *App) Find(_ context.Context, args []string) error {
	a.view.SetQuery(strings.Join(args, " "))
	a.printFiles()
	return nil
}

func (a *App) Sort(_ context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: sort name|size|date")
	}
	col, err := listing.ParseSortColumn(args[0])
	if err != nil {
		return err
	}
	a.view.ToggleSort(col)
	a.printFiles()
	return nil
}

func (a *App) View(_ context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: view list|grid")
	}
	switch m := listing.Mode(strings.ToLower(args[0])); m {
	case listing.ModeList, listing.ModeGrid:
		a.view.SetMode(m)
	default:
		return fmt.Errorf("unknown view %q", args[0])
	}
	a.printFiles()
	return nil
}

func (a *App) Select(_ context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: select <n>...|all|none")
	}

	switch args[0] {
	case "all":
		a.view.SelectAll()
	case "none":
		a.view.ClearSelection()
	default:
		ids, err := a.resolveAll(args)
		if err != nil {
			return err
		}
		for _, id := range ids {
			a.view.Toggle(id)
		}
	}
	a.printf("%d selected\n", len(a.view.Selected()))
	return nil
}

// Delete removes the given rows, or the current selection without
// arguments. Rows that fail stay listed and selected.
func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) > 0 {
		ids, err := a.resolveAll(args)
		if err != nil {
			return err
		}
		a.view.ClearSelection()
		for _, id := range ids {
			a.view.Toggle(id)
		}
	}

	if len(a.view.Selected()) == 0 {
		return errors.New("nothing selected")
	}

	deleted, err := a.view.BulkDelete(ctx, a.api)
	if len(deleted) > 0 {
		a.printf("Deleted %d file(s)\n", len(deleted))
	}
	if err != nil {
		return fmt.Errorf("some files were not deleted: %w", err)
	}
	return nil
}

func (a *App) Star(ctx context.Context, args []string) error {
	id, err := a.oneRef(args, "star <n>")
	if err != nil {
		return err
	}
	starred, err := a.view.ToggleStar(ctx, id, a.api)
	if err != nil {
		return err
	}

	f, _ := a.view.Get(id)
	if starred {
		a.printf("Starred %s\n", f.Name)
	} else {
		a.printf("Removed star from %s\n", f.Name)
	}
	return nil
}

func (a *App) Get(ctx context.Context, args []string) error {
	id, err := a.oneRef(args, "get <n>")
	if err != nil {
		return err
	}
	path, err := a.api.Download(ctx, id, a.config.DownloadDir)
	if err != nil {
		return err
	}
	a.printf("Saved to %s\n", path)
	return nil
}

func (a *App) URL(ctx context.Context, args []string) error {
	id, err := a.oneRef(args, "url <n>")
	if err != nil {
		return err
	}
	u, err := a.api.SignedURL(ctx, id)
	if err != nil {
		return err
	}
	a.printf("%s\n(valid until %s)\n", u.URL, u.ExpiresAt.Local().Format("Jan 2 15:04"))
	return nil
}
