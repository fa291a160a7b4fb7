package sheet

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/emelz/wardrobe/internal/models"
)

// WriteCSV encodes items in the two-row-header layout and writes them
// as CSV. It is a local stand-in for the spreadsheet rewrite: the same
// rows a tabular backend would receive, minus the cell merges.
func WriteCSV(w io.Writer, items []models.Item) error {
	types := DiscoverTagTypes(items)
	row1, row2 := BuildHeaderRows(types)

	cw := csv.NewWriter(w)
	if err := cw.Write(row1); err != nil {
		return fmt.Errorf("sheet: write header row 1: %w", err)
	}
	if err := cw.Write(row2); err != nil {
		return fmt.Errorf("sheet: write header row 2: %w", err)
	}
	for _, row := range ItemsToRows(items, types) {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("sheet: write data row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
