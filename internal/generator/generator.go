// Package generator orchestrates one wardrobe generation run: scan the
// photo tree, resolve stored metadata, reconcile the two, and write the
// site data document plus static assets.
package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/emelz/wardrobe/internal/metastore"
	"github.com/emelz/wardrobe/internal/models"
	"github.com/emelz/wardrobe/internal/scanner"
)

// DataFileName is the item document written into each output directory
// and read back as the local metadata fallback.
const DataFileName = "wardrobe_data.json"

const documentVersion = "1.0"

// Generator produces one person's wardrobe site.
type Generator struct {
	scanner     *scanner.Scanner
	sources     []metastore.Source
	outputDir   string
	templateDir string
	logger      *slog.Logger
}

// New creates a generator. sources is the ordered metadata fallback
// chain; templateDir may be empty to skip asset copying.
func New(sc *scanner.Scanner, sources []metastore.Source, outputDir, templateDir string, logger *slog.Logger) *Generator {
	return &Generator{
		scanner:     sc,
		sources:     sources,
		outputDir:   outputDir,
		templateDir: templateDir,
		logger:      logger,
	}
}

// Run performs a full generation and returns the written document.
func (g *Generator) Run(ctx context.Context) (*models.Document, error) {
	start := time.Now()
	g.logger.Info("generation started", slog.String("output", g.outputDir))

	if g.templateDir != "" {
		assets := filepath.Join(g.templateDir, "per_person_assets")
		if err := copyDir(assets, g.outputDir); err != nil {
			g.logger.Warn("template assets not copied",
				slog.String("dir", assets),
				slog.String("error", err.Error()))
		}
	}

	scanned, err := g.scanner.Scan(ctx)
	if err != nil {
		return nil, err
	}

	stored := metastore.Resolve(ctx, g.logger, g.sources...)
	items, changes := Reconcile(scanned, stored)

	doc := &models.Document{
		Metadata: models.DocumentMetadata{
			Version:     documentVersion,
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
			TotalItems:  len(items),
		},
		Categories: distinctCategories(items),
		Items:      items,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("generator: encode document: %w", err)
	}
	dataPath := filepath.Join(g.outputDir, DataFileName)
	if err := writeFileAtomic(dataPath, data); err != nil {
		return nil, err
	}

	g.logger.Info("generation complete",
		slog.String("path", dataPath),
		slog.Int("items", len(items)),
		slog.Duration("elapsed", time.Since(start)))

	for _, ch := range changes {
		g.logger.Warn("category changed on spreadsheet",
			slog.String("id", ch.ID),
			slog.String("scanned", ch.ScannedCategory),
			slog.String("stored", ch.StoredCategory))
	}
	if orphans := Orphans(scanned, stored); len(orphans) > 0 {
		g.logger.Info("stored metadata without matching photos",
			slog.Int("count", len(orphans)),
			slog.Any("ids", orphans))
	}

	return doc, nil
}

// distinctCategories returns the sorted distinct categories of the
// output items.
func distinctCategories(items []models.Item) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, it := range items {
		if _, ok := seen[it.Category]; ok {
			continue
		}
		seen[it.Category] = struct{}{}
		out = append(out, it.Category)
	}
	sort.Strings(out)
	return out
}
