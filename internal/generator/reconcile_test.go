package generator

import (
	"reflect"
	"testing"

	"github.com/emelz/wardrobe/internal/models"
)

func TestReconcile_StoredItemReplacesScanned(t *testing.T) {
	scanned := []models.Item{{ID: "a", Category: "shirts", Title: "a"}}
	stored := map[string]models.Item{
		"a": {ID: "a", Category: "jackets", Title: "My favourite jacket", Notes: "hand wash"},
	}

	items, changes := Reconcile(scanned, stored)
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
	if !reflect.DeepEqual(items[0], stored["a"]) {
		t.Errorf("item = %+v, want stored item wholesale", items[0])
	}
	want := []models.ChangeRecord{{ID: "a", ScannedCategory: "shirts", StoredCategory: "jackets"}}
	if !reflect.DeepEqual(changes, want) {
		t.Errorf("changes = %+v, want %+v", changes, want)
	}
}

func TestReconcile_NoDriftNoChangeRecord(t *testing.T) {
	scanned := []models.Item{{ID: "a", Category: "shirts"}}
	stored := map[string]models.Item{"a": {ID: "a", Category: "shirts", Title: "edited"}}

	items, changes := Reconcile(scanned, stored)
	if len(changes) != 0 {
		t.Errorf("changes = %+v, want none", changes)
	}
	if items[0].Title != "edited" {
		t.Errorf("item = %+v", items[0])
	}
}

func TestReconcile_UnknownIDKeepsScanDefaults(t *testing.T) {
	scanned := []models.Item{{ID: "new", Category: "hats", Title: "new hat"}}

	items, changes := Reconcile(scanned, map[string]models.Item{})
	if len(items) != 1 || items[0].Title != "new hat" {
		t.Errorf("items = %+v", items)
	}
	if len(changes) != 0 {
		t.Errorf("changes = %+v, want none", changes)
	}
}

func TestReconcile_PreservesScanOrderAndDropsOrphans(t *testing.T) {
	scanned := []models.Item{
		{ID: "c", Category: "x"},
		{ID: "a", Category: "x"},
		{ID: "b", Category: "x"},
	}
	stored := map[string]models.Item{
		"a":      {ID: "a", Category: "x"},
		"orphan": {ID: "orphan", Category: "y"},
	}

	items, _ := Reconcile(scanned, stored)
	gotOrder := []string{items[0].ID, items[1].ID, items[2].ID}
	if !reflect.DeepEqual(gotOrder, []string{"c", "a", "b"}) {
		t.Errorf("order = %v, want scan order", gotOrder)
	}
	for _, it := range items {
		if it.ID == "orphan" {
			t.Error("orphaned stored item leaked into output")
		}
	}

	orphans := Orphans(scanned, stored)
	if !reflect.DeepEqual(orphans, []string{"orphan"}) {
		t.Errorf("orphans = %v", orphans)
	}
}

func TestReconcile_PureOverSameInput(t *testing.T) {
	scanned := []models.Item{{ID: "a", Category: "shirts"}}
	stored := map[string]models.Item{"a": {ID: "a", Category: "pants"}}

	i1, c1 := Reconcile(scanned, stored)
	i2, c2 := Reconcile(scanned, stored)
	if !reflect.DeepEqual(i1, i2) || !reflect.DeepEqual(c1, c2) {
		t.Error("Reconcile not deterministic")
	}
}
