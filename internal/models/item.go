// Package models defines the domain types for the wardrobe inventory.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Tag is a label attached to an item. A tag is either typed
// ("color:red") or untyped ("Cotton"); untyped tags have an empty Type.
//
// Internally tags are kept as this explicit variant; the colon-joined
// string form exists only at serialization boundaries (JSON documents
// and spreadsheet cells).
type Tag struct {
	Type  string
	Value string
}

// ParseTag converts the wire form of a tag into its variant form.
// The type is everything before the first colon; a tag without a colon
// is untyped.
func ParseTag(s string) Tag {
	if i := strings.Index(s, ":"); i >= 0 {
		return Tag{Type: strings.TrimSpace(s[:i]), Value: s[i+1:]}
	}
	return Tag{Value: s}
}

// Typed reports whether the tag carries a type.
func (t Tag) Typed() bool {
	return t.Type != ""
}

// Key returns the lowercased type used for matching. Display casing is
// preserved in Type.
func (t Tag) Key() string {
	return strings.ToLower(t.Type)
}

// String renders the wire form: "type:value" for typed tags, the bare
// value otherwise.
func (t Tag) String() string {
	if t.Typed() {
		return t.Type + ":" + t.Value
	}
	return t.Value
}

// MarshalJSON emits the colon-joined string form.
func (t Tag) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts the colon-joined string form.
func (t *Tag) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("tag must be a string: %w", err)
	}
	*t = ParseTag(s)
	return nil
}

// Epoch is a UTC timestamp in whole seconds. Scanned items carry the
// file modification time; items read back from JSON written by older
// tooling may carry fractional seconds, which are truncated.
type Epoch int64

// UnmarshalJSON accepts both integer and fractional epoch values.
func (e *Epoch) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("created_date must be numeric: %w", err)
	}
	*e = Epoch(int64(f))
	return nil
}

// Item is one inventoried photographed object and its metadata.
// ID is the sole join key between scan results and stored metadata.
type Item struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Filename    string `json:"filename"`
	Slug        string `json:"slug"`
	Thumbnail   string `json:"thumbnail"`
	Image       string `json:"image"`
	Notes       string `json:"notes"`
	Tags        []Tag  `json:"tags"`
	CreatedDate Epoch  `json:"created_date"`
}

// ChangeRecord reports category drift for one item: stored metadata
// disagrees with the freshly scanned category. It lives only for the
// duration of one generation run and is never persisted.
type ChangeRecord struct {
	ID              string
	ScannedCategory string
	StoredCategory  string
}

// DocumentMetadata describes one generation run.
type DocumentMetadata struct {
	Version     string `json:"version"`
	GeneratedAt string `json:"generated_at"`
	TotalItems  int    `json:"total_items"`
}

// Document is the generation output written to wardrobe_data.json and
// the shape of the local metadata fallback.
type Document struct {
	Metadata   DocumentMetadata `json:"metadata"`
	Categories []string         `json:"categories"`
	Items      []Item           `json:"items"`
}

// ItemsByID maps a document's items by identifier.
func (d *Document) ItemsByID() map[string]Item {
	out := make(map[string]Item, len(d.Items))
	for _, it := range d.Items {
		out[it.ID] = it
	}
	return out
}
