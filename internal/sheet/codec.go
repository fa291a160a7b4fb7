// Package sheet implements the two-row-header spreadsheet layout used
// for wardrobe metadata: a fixed set of base columns followed by a tag
// block with one column per tag type.
package sheet

import (
	"strings"

	"github.com/emelz/wardrobe/internal/models"
)

// UntypedLabel is the sentinel column label for untyped tags. When any
// untyped tag exists it is always the last tag column.
const UntypedLabel = "----"

// BaseHeaders are the fixed base column names in canonical write order.
// Readers match them by exact string equality, not by position.
var BaseHeaders = []string{
	"ID",
	"Title",
	"Category",
	"Filename",
	"Slug",
	"Thumbnail",
	"Image",
	"Notes",
	"Created (UTC ISO8601)",
}

// TagType is one tag column: Key is the lowercased match key, Label the
// first-seen display casing written to the header.
type TagType struct {
	Key   string
	Label string
}

// TagTypes is the ordered tag column layout. Ordering is an explicit
// invariant: discovery order, with the untyped sentinel last.
type TagTypes []TagType

// Labels returns the display labels in column order.
func (tt TagTypes) Labels() []string {
	out := make([]string, len(tt))
	for i, t := range tt {
		out[i] = t.Label
	}
	return out
}

func (tt TagTypes) contains(key string) bool {
	for _, t := range tt {
		if t.Key == key {
			return true
		}
	}
	return false
}

// DiscoverTagTypes walks the items in order and returns the tag column
// layout: one entry per distinct lowercased tag type, keyed on first
// appearance, plus the untyped sentinel appended last when any untyped
// tag was seen. The result is deterministic for a given input.
func DiscoverTagTypes(items []models.Item) TagTypes {
	var types TagTypes
	sawUntyped := false
	for _, it := range items {
		for _, tag := range it.Tags {
			if !tag.Typed() {
				sawUntyped = true
				continue
			}
			if key := tag.Key(); !types.contains(key) {
				types = append(types, TagType{Key: key, Label: tag.Type})
			}
		}
	}
	if sawUntyped && !types.contains(UntypedLabel) {
		types = append(types, TagType{Key: UntypedLabel, Label: UntypedLabel})
	}
	return types
}

// tagValuesByType groups one item's tag values under their type key,
// preserving tag order. Untyped values collect under the sentinel key.
func tagValuesByType(it models.Item, types TagTypes) map[string][]string {
	values := make(map[string][]string)
	for _, tag := range it.Tags {
		key := UntypedLabel
		if tag.Typed() {
			key = tag.Key()
		}
		if !types.contains(key) {
			continue
		}
		if v := strings.TrimSpace(tag.Value); v != "" {
			values[key] = append(values[key], v)
		}
	}
	return values
}

// BuildHeaderRows returns the two header rows for the given layout:
// row 1 holds the base column names followed by a single "Tags" cell
// (remaining tag columns blank, representing the visual merge); row 2
// is blank under the base columns and carries one label per tag column.
func BuildHeaderRows(types TagTypes) (row1, row2 []string) {
	row1 = append(row1, BaseHeaders...)
	if len(types) > 0 {
		row1 = append(row1, "Tags")
		for i := 1; i < len(types); i++ {
			row1 = append(row1, "")
		}
	}
	row2 = make([]string, len(BaseHeaders))
	row2 = append(row2, types.Labels()...)
	return row1, row2
}

// ItemsToRows encodes items as data rows: base columns in canonical
// order, then one cell per tag column with that type's values joined by
// ", ". An unset created date is written as an empty cell.
func ItemsToRows(items []models.Item, types TagTypes) [][]string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		row := []string{
			it.ID,
			it.Title,
			it.Category,
			it.Filename,
			it.Slug,
			it.Thumbnail,
			it.Image,
			it.Notes,
			FormatEpoch(int64(it.CreatedDate)),
		}
		values := tagValuesByType(it, types)
		for _, t := range types {
			row = append(row, strings.Join(values[t.Key], ", "))
		}
		rows = append(rows, row)
	}
	return rows
}

// AssembleTagsFromRow decodes one row's tag block back into a flat tag
// list. tagStart is the first tag column index and tagLabels the row 2
// labels from that index on. Cells are split on commas, parts trimmed
// and empties dropped; parts under the untyped sentinel stay bare, all
// others are typed with the literal column label. Labels never produced
// by this codec's write path are accepted as-is, so hand-edited sheets
// still decode.
func AssembleTagsFromRow(row []string, tagStart int, tagLabels []string) []models.Tag {
	var tags []models.Tag
	for offset, label := range tagLabels {
		idx := tagStart + offset
		if idx >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[idx])
		if cell == "" {
			continue
		}
		for _, part := range strings.Split(cell, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if label == UntypedLabel {
				tags = append(tags, models.Tag{Value: part})
			} else {
				tags = append(tags, models.Tag{Type: label, Value: part})
			}
		}
	}
	return tags
}
