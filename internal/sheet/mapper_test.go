package sheet

import (
	"bytes"
	"encoding/csv"
	"reflect"
	"testing"

	"github.com/emelz/wardrobe/internal/models"
)

func TestToItems_TwoRowHeaderScenario(t *testing.T) {
	values := [][]string{
		{"ID", "Title", "Category", "Tags", "", ""},
		{"", "", "", "color", "size", "----"},
		{"a1", "Red Shirt", "shirts", "red", "M", "Cotton"},
	}
	items := ToItems(values)
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
	it := items[0]
	if it.ID != "a1" || it.Title != "Red Shirt" || it.Category != "shirts" {
		t.Errorf("base fields = %+v", it)
	}
	want := tags("color:red", "size:M", "Cotton")
	if !reflect.DeepEqual(it.Tags, want) {
		t.Errorf("tags = %+v, want %+v", it.Tags, want)
	}
}

func TestToItems_SkipsBlankRows(t *testing.T) {
	values := [][]string{
		{"ID", "Title", "Category", "Filename", "Slug", "Thumbnail", "Image", "Notes", "Created (UTC ISO8601)"},
		{"", "", "", "", "", "", "", "", ""},
		{"a", "A", "shirts", "", "", "", "", "", ""},
		{"", "  ", "", "", "", "", "", "", ""},
		{"b", "", "", "", "", "", "", "", ""},
	}
	items := ToItems(values)
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if items[0].ID != "a" || items[1].ID != "b" {
		t.Errorf("items = %+v", items)
	}
}

func TestToItems_ShortInput(t *testing.T) {
	if got := ToItems(nil); got != nil {
		t.Errorf("ToItems(nil) = %+v, want nil", got)
	}
	if got := ToItems([][]string{{"ID"}}); got != nil {
		t.Errorf("ToItems(one row) = %+v, want nil", got)
	}
}

func TestMapBaseColumns_ExactMatchAnyOrder(t *testing.T) {
	row1 := []string{"Notes", "ID", "title", "Title"}
	idx := MapBaseColumns(row1)
	if idx["Notes"] != 0 || idx["ID"] != 1 || idx["Title"] != 3 {
		t.Errorf("idx = %+v", idx)
	}
	// "title" is not an exact match for any base header.
	if len(idx) != 3 {
		t.Errorf("len(idx) = %d, want 3", len(idx))
	}
}

func TestLocateTagBlock(t *testing.T) {
	row1 := []string{"ID", "Title", " tags ", "", ""}
	row2 := []string{"", "", "color", "size", "----"}
	start, labels := LocateTagBlock(row1, row2)
	if start != 2 {
		t.Errorf("start = %d, want 2", start)
	}
	if !reflect.DeepEqual(labels, []string{"color", "size", "----"}) {
		t.Errorf("labels = %v", labels)
	}
}

func TestLocateTagBlock_NoTagsCell(t *testing.T) {
	row1 := []string{"ID", "Title"}
	row2 := []string{"", "", "stray", "labels"}
	start, labels := LocateTagBlock(row1, row2)
	if start != len(row2) {
		t.Errorf("start = %d, want %d", start, len(row2))
	}
	if len(labels) != 0 {
		t.Errorf("labels = %v, want none", labels)
	}
}

func TestParseEpoch(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"2023-11-14T22:13:20Z", 1700000000},
		{"2023-11-14T22:13:20+00:00", 1700000000},
		{"2023-11-14T23:13:20+01:00", 1700000000},
		{"2023-11-14T22:13:20", 1700000000},
		{"", 0},
		{"not-a-date", 0},
		{"2023-13-99T00:00:00Z", 0},
	}
	for _, c := range cases {
		if got := ParseEpoch(c.in); got != c.want {
			t.Errorf("ParseEpoch(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestFormatEpoch(t *testing.T) {
	if got := FormatEpoch(1700000000); got != "2023-11-14T22:13:20Z" {
		t.Errorf("FormatEpoch = %q", got)
	}
	if got := FormatEpoch(0); got != "" {
		t.Errorf("FormatEpoch(0) = %q, want empty", got)
	}
}

func TestRowToItem_MissingColumnsReadEmpty(t *testing.T) {
	baseIdx := map[string]int{"ID": 0, "Title": 9}
	it := RowToItem([]string{" a1 "}, baseIdx, 1, nil)
	if it.ID != "a1" {
		t.Errorf("ID = %q, want trimmed a1", it.ID)
	}
	if it.Title != "" || it.Category != "" {
		t.Errorf("absent columns should be empty: %+v", it)
	}
	if it.CreatedDate != 0 {
		t.Errorf("created = %d, want 0", it.CreatedDate)
	}
}

func TestWriteCSV_DecodesBackToItems(t *testing.T) {
	items := []models.Item{
		{ID: "a", Title: "A", Category: "shirts", CreatedDate: 1700000000, Tags: tags("color:red", "Wool")},
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, items); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3 (two headers + one row)", len(records))
	}

	decoded := ToItems(records)
	if len(decoded) != 1 {
		t.Fatalf("decoded = %d items, want 1", len(decoded))
	}
	got := decoded[0]
	if got.ID != "a" || got.Category != "shirts" || got.CreatedDate != 1700000000 {
		t.Errorf("decoded item = %+v", got)
	}
	if !reflect.DeepEqual(got.Tags, items[0].Tags) {
		t.Errorf("tags = %+v, want %+v", got.Tags, items[0].Tags)
	}
}
