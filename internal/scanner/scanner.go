// Package scanner discovers wardrobe items from the photo directory
// tree. Each immediate subdirectory of the photos root is a category;
// every supported image inside it becomes a minimal item record that
// reconciliation later overlays with stored metadata.
package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/emelz/wardrobe/internal/images"
	"github.com/emelz/wardrobe/internal/models"
	"github.com/emelz/wardrobe/internal/slug"
)

var imageExtensions = map[string]struct{}{
	".heic": {},
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

// Scanner walks a photos directory and produces item records.
type Scanner struct {
	photosDir string
	proc      *images.Processor
	logger    *slog.Logger
}

// New creates a scanner rooted at photosDir.
func New(photosDir string, proc *images.Processor, logger *slog.Logger) *Scanner {
	return &Scanner{photosDir: photosDir, proc: proc, logger: logger}
}

// Scan discovers all items under the photos root. For every photo it
// derives the stable identifier from the filename, takes the category
// from the lowercased parent directory name, attaches a single untyped
// tag carrying the original-cased category, and records the file
// modification time. Image renditions are written as a side effect; a
// photo that cannot be rendered still yields an item.
func (s *Scanner) Scan(ctx context.Context) ([]models.Item, error) {
	entries, err := os.ReadDir(s.photosDir)
	if err != nil {
		return nil, fmt.Errorf("scanner: read photos dir: %w", err)
	}

	var items []models.Item
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		category := entry.Name()
		categoryItems, err := s.scanCategory(filepath.Join(s.photosDir, category), category)
		if err != nil {
			return nil, err
		}
		items = append(items, categoryItems...)
	}
	return items, nil
}

func (s *Scanner) scanCategory(dir, category string) ([]models.Item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scanner: read category %s: %w", category, err)
	}

	s.logger.Info("scanner: category", slog.String("name", category))

	var items []models.Item
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if _, ok := imageExtensions[strings.ToLower(filepath.Ext(name))]; !ok {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			s.logger.Warn("scanner: stat failed",
				slog.String("file", name),
				slog.String("error", err.Error()))
			continue
		}

		base := strings.TrimSuffix(name, filepath.Ext(name))
		if err := s.proc.Process(filepath.Join(dir, name), base); err != nil {
			// Keep the item; the metadata is still valid even when
			// the rendition could not be produced (e.g. HEIC input).
			s.logger.Warn("scanner: image processing failed",
				slog.String("file", name),
				slog.String("error", err.Error()))
		}

		id := slug.Derive(name)
		items = append(items, models.Item{
			ID:          id,
			Title:       slug.Title(name),
			Category:    strings.ToLower(category),
			Filename:    name,
			Slug:        id,
			Thumbnail:   "images/thumbs/" + base + ".jpg",
			Image:       "images/full/" + base + ".jpg",
			Notes:       "",
			Tags:        []models.Tag{{Value: category}},
			CreatedDate: models.Epoch(info.ModTime().Unix()),
		})
	}
	return items, nil
}
