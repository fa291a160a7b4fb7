package generator

import (
	"sort"

	"github.com/emelz/wardrobe/internal/models"
)

// Reconcile merges freshly scanned items with previously stored
// metadata. The scan decides which ids exist and supplies defaults for
// ids with no prior record; when stored metadata exists for an id it
// replaces the scanned item wholesale; fields are never merged
// individually. Output preserves scan order.
//
// When the stored category disagrees with the scanned one, a change
// record (id, scanned, stored) is emitted. That usually means the photo
// moved between category folders after the metadata was last edited;
// the caller surfaces it for the operator instead of auto-correcting.
//
// Ids present only in stored metadata are not included in the output.
// Reconcile is a pure function: no I/O, no error paths.
func Reconcile(scanned []models.Item, stored map[string]models.Item) ([]models.Item, []models.ChangeRecord) {
	items := make([]models.Item, 0, len(scanned))
	var changes []models.ChangeRecord

	for _, it := range scanned {
		replacement, ok := stored[it.ID]
		if !ok {
			items = append(items, it)
			continue
		}
		if replacement.Category != it.Category {
			changes = append(changes, models.ChangeRecord{
				ID:              it.ID,
				ScannedCategory: it.Category,
				StoredCategory:  replacement.Category,
			})
		}
		items = append(items, replacement)
	}
	return items, changes
}

// Orphans returns the ids present in stored metadata but absent from
// the scanned set, sorted for stable logging. Orphaned metadata is
// never purged from the backing store; it is only reported.
func Orphans(scanned []models.Item, stored map[string]models.Item) []string {
	seen := make(map[string]struct{}, len(scanned))
	for _, it := range scanned {
		seen[it.ID] = struct{}{}
	}
	var out []string
	for id := range stored {
		if _, ok := seen[id]; !ok {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
