package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rolandocepedadev/ccat/internal/client/listing"
	"github.com/rolandocepedadev/ccat/internal/client/models"
)

// now is a seam for tests.
var now = time.Now

const gridColumns = 3

// printFiles renders the visible records and remembers their row numbers.
func (a *App) printFiles() {
	files := a.view.Visible()
	a.rows = make([]string, len(files))
	for i, f := range files {
		a.rows[i] = f.ID
	}

	if len(files) == 0 {
		if q := a.view.Query(); q != "" {
			a.printf("No files match %q\n", q)
		} else {
			a.printf("No files yet, upload your first file with 'upload <path>'\n")
		}
		return
	}

	if a.view.Mode() == listing.ModeGrid {
		a.printGrid(files)
	} else {
		a.printTable(files)
	}

	col, dir := a.view.Sort()
	footer := fmt.Sprintf("%d file(s), sorted by %s %s", len(files), col, dir)
	if sel := len(a.view.Selected()); sel > 0 {
		footer += fmt.Sprintf(", %d selected", sel)
	}
	a.printf("%s\n", footer)
}

func (a *App) marks(f models.File) string {
	m := ""
	if a.view.IsSelected(f.ID) {
		m += "*"
	}
	if f.Starred {
		m += "★"
	}
	return m
}

func (a *App) printTable(files []models.File) {
	t := now()
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\t\tNAME\tSIZE\tMODIFIED\tTYPE")
	for i, f := range files {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			i+1, a.marks(f), f.Name, listing.FormatSize(f.Size), listing.FormatDate(f.CreatedAt, t), f.MimeType)
	}
	_ = tw.Flush()
}

func (a *App) printGrid(files []models.File) {
	tw := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	cells := make([]string, 0, gridColumns)
	for i, f := range files {
		cells = append(cells, fmt.Sprintf("[%d]%s %s (%s)", i+1, a.marks(f), f.Name, listing.FormatSize(f.Size)))
		if len(cells) == gridColumns || i == len(files)-1 {
			fmt.Fprintln(tw, strings.Join(cells, "\t"))
			cells = cells[:0]
		}
	}
	_ = tw.Flush()
}
