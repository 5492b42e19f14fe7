package catalog

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// WriteTable prints the catalog as an aligned table. Column widths are
// measured in terminal cells so wide characters line up.
func WriteTable(w io.Writer, c Catalog) error {
	headers := []string{"CATEGORY", "COUNT", "DESCRIPTION"}
	rows := make([][]string, 0, len(c))
	for _, r := range c {
		rows = append(rows, []string{r.Category, fmt.Sprintf("%d", r.Count), r.Description})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	writeRow := func(cells []string) error {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			if i == len(cells)-1 {
				parts[i] = cell
				continue
			}
			parts[i] = runewidth.FillRight(cell, widths[i])
		}
		_, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
		return err
	}

	if err := writeRow(headers); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writeRow(row); err != nil {
			return err
		}
	}
	return nil
}

// Table returns the catalog rendered by WriteTable.
func Table(c Catalog) string {
	var b strings.Builder
	_ = WriteTable(&b, c)
	return b.String()
}
