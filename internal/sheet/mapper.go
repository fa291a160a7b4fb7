package sheet

import (
	"strings"
	"time"

	"github.com/emelz/wardrobe/internal/models"
)

// MapBaseColumns maps base header names to their column index in row 1.
// Matching is by exact string equality; columns may appear in any order
// and absent columns are simply not mapped.
func MapBaseColumns(row1 []string) map[string]int {
	known := make(map[string]struct{}, len(BaseHeaders))
	for _, h := range BaseHeaders {
		known[h] = struct{}{}
	}
	idx := make(map[string]int)
	for i, name := range row1 {
		if _, ok := known[name]; ok {
			idx[name] = i
		}
	}
	return idx
}

// LocateTagBlock finds the tag block from the two header rows: the
// block starts at the first row 1 cell equal to "tags" after trimming,
// case-insensitively, and spans the rest of row 2. Without a "Tags"
// cell the block is empty and trailing columns are ignored.
func LocateTagBlock(row1, row2 []string) (tagStart int, tagLabels []string) {
	tagStart = -1
	for i, v := range row1 {
		if strings.EqualFold(strings.TrimSpace(v), "tags") {
			tagStart = i
			break
		}
	}
	if tagStart < 0 {
		return len(row2), nil
	}
	if tagStart < len(row2) {
		tagLabels = row2[tagStart:]
	}
	return tagStart, tagLabels
}

// ParseEpoch converts an ISO-8601 timestamp to epoch seconds. A
// trailing "Z" is UTC; timestamps without an offset are taken as UTC.
// Empty or unparsable input yields 0, never an error.
func ParseEpoch(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.Unix()
		}
	}
	return 0
}

// FormatEpoch renders epoch seconds as UTC ISO-8601 with a trailing
// "Z". Zero (unknown) renders as the empty string so it round-trips
// through ParseEpoch.
func FormatEpoch(sec int64) string {
	if sec == 0 {
		return ""
	}
	return time.Unix(sec, 0).UTC().Format(time.RFC3339)
}

// RowToItem converts one data row into an item using the resolved base
// column mapping and tag block. Missing or out-of-bounds cells read as
// empty strings; all cells are trimmed.
func RowToItem(row []string, baseIdx map[string]int, tagStart int, tagLabels []string) models.Item {
	get := func(name string) string {
		i, ok := baseIdx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	return models.Item{
		ID:          get("ID"),
		Title:       get("Title"),
		Category:    get("Category"),
		Filename:    get("Filename"),
		Slug:        get("Slug"),
		Thumbnail:   get("Thumbnail"),
		Image:       get("Image"),
		Notes:       get("Notes"),
		Tags:        AssembleTagsFromRow(row, tagStart, tagLabels),
		CreatedDate: models.Epoch(ParseEpoch(get("Created (UTC ISO8601)"))),
	}
}

// ToItems decodes a full used range (two header rows plus data rows)
// into items. Rows whose cells are all blank after trimming are
// skipped, tolerating trailing blank rows in a sheet's used range.
func ToItems(values [][]string) []models.Item {
	if len(values) < 2 {
		return nil
	}
	row1, row2 := values[0], values[1]
	tagStart, tagLabels := LocateTagBlock(row1, row2)
	baseIdx := MapBaseColumns(row1)

	var items []models.Item
	for _, row := range values[2:] {
		if blankRow(row) {
			continue
		}
		items = append(items, RowToItem(row, baseIdx, tagStart, tagLabels))
	}
	return items
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
