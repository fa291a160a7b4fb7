package metastore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/emelz/wardrobe/internal/models"
)

// FileSource reads a previously generated item document from disk. A
// missing file is not an error: it yields an empty mapping, which makes
// the fallback chain total.
type FileSource struct {
	Path string
}

// NewFileSource creates a local-file metadata source.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Name identifies the source in logs.
func (f *FileSource) Name() string {
	return "file:" + f.Path
}

// Lookup reads and decodes the document, mapping its items by id.
func (f *FileSource) Lookup(_ context.Context) (map[string]models.Item, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]models.Item{}, nil
		}
		return nil, fmt.Errorf("metastore: read %s: %w", f.Path, err)
	}
	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("metastore: decode %s: %w", f.Path, err)
	}
	return doc.ItemsByID(), nil
}
