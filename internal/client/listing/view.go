// Package listing holds the client-side state of the file list: search,
// sorting, selection and view mode over the current set of records, plus
// the star and bulk-delete actions that keep that state in step with the
// server.
package listing

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rolandocepedadev/ccat/internal/client/models"
)

type SortColumn string

const (
	SortName    SortColumn = "name"
	SortSize    SortColumn = "size"
	SortCreated SortColumn = "created_at"
)

// ParseSortColumn accepts the column names used on the command line.
func ParseSortColumn(s string) (SortColumn, error) {
	switch strings.ToLower(s) {
	case "name":
		return SortName, nil
	case "size":
		return SortSize, nil
	case "created_at", "created", "date":
		return SortCreated, nil
	}
	return "", fmt.Errorf("unknown sort column %q", s)
}

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

type Mode string

const (
	ModeList Mode = "list"
	ModeGrid Mode = "grid"
)

// Starrer persists the starred flag of a record.
type Starrer interface {
	SetStarred(ctx context.Context, id string, starred bool) (*models.File, error)
}

// Deleter removes a record and its object.
type Deleter interface {
	DeleteFile(ctx context.Context, id string) error
}

type View struct {
	mu       sync.Mutex
	files    []models.File
	query    string
	column   SortColumn
	dir      Direction
	mode     Mode
	selected map[string]struct{}
}

// NewView starts sorted by creation time, newest first, in list mode.
func NewView(files []models.File) *View {
	return &View{
		files:    slices.Clone(files),
		column:   SortCreated,
		dir:      Desc,
		mode:     ModeList,
		selected: map[string]struct{}{},
	}
}

// Replace swaps in a fresh record set. Selected ids that no longer exist
// are dropped.
func (v *View) Replace(files []models.File) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.files = slices.Clone(files)
	for id := range v.selected {
		if v.index(id) < 0 {
			delete(v.selected, id)
		}
	}
}

// Add puts newly uploaded records into the set.
func (v *View) Add(files ...models.File) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.files = append(v.files, files...)
}

// Remove drops id from the set and the selection.
func (v *View) Remove(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.remove(id)
}

func (v *View) remove(id string) {
	if i := v.index(id); i >= 0 {
		v.files = slices.Delete(v.files, i, i+1)
	}
	delete(v.selected, id)
}

func (v *View) index(id string) int {
	return slices.IndexFunc(v.files, func(f models.File) bool { return f.ID == id })
}

// Get returns the record with id.
func (v *View) Get(id string) (models.File, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if i := v.index(id); i >= 0 {
		return v.files[i], true
	}
	return models.File{}, false
}

func (v *View) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.files)
}

func (v *View) SetQuery(q string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.query = q
}

func (v *View) Query() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.query
}

func (v *View) SetMode(m Mode) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.mode = m
}

func (v *View) Mode() Mode {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mode
}

func (v *View) Sort() (SortColumn, Direction) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.column, v.dir
}

// ToggleSort flips the direction when column is already the sort key;
// otherwise it switches to column ascending.
func (v *View) ToggleSort(column SortColumn) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.column == column {
		if v.dir == Asc {
			v.dir = Desc
		} else {
			v.dir = Asc
		}
		return
	}
	v.column = column
	v.dir = Asc
}

// Visible returns the records whose name contains the query, ignoring
// case, sorted by the current column. The sort is stable in both
// directions.
func (v *View) Visible() []models.File {
	v.mu.Lock()
	defer v.mu.Unlock()

	q := strings.ToLower(v.query)
	out := make([]models.File, 0, len(v.files))
	for _, f := range v.files {
		if q == "" || strings.Contains(strings.ToLower(f.Name), q) {
			out = append(out, f)
		}
	}

	compare := compareBy(v.column)
	sign := 1
	if v.dir == Desc {
		sign = -1
	}
	slices.SortStableFunc(out, func(a, b models.File) int {
		return sign * compare(a, b)
	})
	return out
}

func compareBy(column SortColumn) func(a, b models.File) int {
	switch column {
	case SortName:
		return func(a, b models.File) int { return strings.Compare(a.Name, b.Name) }
	case SortSize:
		return func(a, b models.File) int { return cmp.Compare(a.Size, b.Size) }
	default:
		return func(a, b models.File) int { return a.CreatedAt.Compare(b.CreatedAt) }
	}
}

// Toggle flips the selection of id and reports whether it is now selected.
// Unknown ids are ignored.
func (v *View) Toggle(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.index(id) < 0 {
		return false
	}
	if _, ok := v.selected[id]; ok {
		delete(v.selected, id)
		return false
	}
	v.selected[id] = struct{}{}
	return true
}

// SelectAll selects every record in the set, filtered or not.
func (v *View) SelectAll() {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, f := range v.files {
		v.selected[f.ID] = struct{}{}
	}
}

func (v *View) ClearSelection() {
	v.mu.Lock()
	defer v.mu.Unlock()
	clear(v.selected)
}

func (v *View) IsSelected(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.selected[id]
	return ok
}

// Selected returns the selected ids in record-set order.
func (v *View) Selected() []string {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]string, 0, len(v.selected))
	for _, f := range v.files {
		if _, ok := v.selected[f.ID]; ok {
			out = append(out, f.ID)
		}
	}
	return out
}

// ToggleStar flips the starred flag of id through s. The local record
// changes only when the server accepted the change.
func (v *View) ToggleStar(ctx context.Context, id string, s Starrer) (bool, error) {
	f, ok := v.Get(id)
	if !ok {
		return false, fmt.Errorf("file %s is not in the list", id)
	}

	updated, err := s.SetStarred(ctx, id, !f.Starred)
	if err != nil {
		return f.Starred, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if i := v.index(id); i >= 0 {
		v.files[i].Starred = updated.Starred
	}
	return updated.Starred, nil
}

// BulkDelete deletes every selected record concurrently. Records that were
// deleted leave the set and the selection; failed ones stay selected. The
// returned error joins every failure.
func (v *View) BulkDelete(ctx context.Context, d Deleter) ([]string, error) {
	ids := v.Selected()

	var (
		mu      sync.Mutex
		deleted []string
		errs    []error
	)

	var g errgroup.Group
	for _, id := range ids {
		g.Go(func() error {
			err := d.DeleteFile(ctx, id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", id, err))
				return nil
			}
			deleted = append(deleted, id)
			return nil
		})
	}
	_ = g.Wait()

	v.mu.Lock()
	for _, id := range deleted {
		v.remove(id)
	}
	v.mu.Unlock()

	return deleted, errors.Join(errs...)
}
