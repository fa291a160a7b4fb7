// Package metastore resolves previously persisted item metadata from an
// ordered chain of interchangeable backends.
package metastore

import (
	"context"
	"errors"
	"log/slog"

	"github.com/emelz/wardrobe/internal/apperr"
	"github.com/emelz/wardrobe/internal/models"
)

// Source is one metadata backend: given its configured key it returns
// the best-known mapping from item id to item. Lookups are read-only
// and return the mapping whole or not at all.
type Source interface {
	Name() string
	Lookup(ctx context.Context) (map[string]models.Item, error)
}

// Resolve walks the sources in order and returns the first non-empty
// mapping. A failing or empty source is logged and the next one tried;
// when every source fails or comes back empty the result is an empty
// mapping, never an error. Reconciliation then simply sees no prior
// metadata.
func Resolve(ctx context.Context, logger *slog.Logger, sources ...Source) map[string]models.Item {
	for _, src := range sources {
		stored, err := src.Lookup(ctx)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				logger.Info("metastore: no data at source",
					slog.String("source", src.Name()))
			} else {
				logger.Warn("metastore: lookup failed",
					slog.String("source", src.Name()),
					slog.String("error", err.Error()))
			}
			continue
		}
		if len(stored) == 0 {
			logger.Debug("metastore: source empty", slog.String("source", src.Name()))
			continue
		}
		logger.Info("metastore: resolved",
			slog.String("source", src.Name()),
			slog.Int("items", len(stored)))
		return stored
	}
	return map[string]models.Item{}
}
