package metastore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSource_MissingFileYieldsEmptyMapping(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "nope.json"))
	got, err := src.Lookup(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestFileSource_ReadsDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wardrobe_data.json")
	doc := `{
		"metadata": {"version": "1.0", "generated_at": "", "total_items": 2},
		"categories": ["pants", "shirts"],
		"items": [
			{"id": "red-shirt", "title": "Red Shirt", "category": "shirts", "tags": ["color:red"], "created_date": 1700000000},
			{"id": "jeans", "title": "Jeans", "category": "pants", "tags": ["Denim"], "created_date": 1700000100.5}
		]
	}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	src := NewFileSource(path)
	got, err := src.Lookup(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	shirt := got["red-shirt"]
	if shirt.Title != "Red Shirt" || len(shirt.Tags) != 1 || shirt.Tags[0].Type != "color" {
		t.Errorf("item = %+v", shirt)
	}
	if got["jeans"].CreatedDate != 1700000100 {
		t.Errorf("fractional created_date = %d, want truncated 1700000100", got["jeans"].CreatedDate)
	}
}

func TestFileSource_MalformedDocumentIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileSource(path).Lookup(context.Background()); err == nil {
		t.Fatal("expected error for malformed document")
	}
}
