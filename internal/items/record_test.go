package items

import "testing"

func TestTotalValue(t *testing.T) {
	r := ItemRecord{ID: 1, Name: "Coins", Quantity: 1000, UnitValue: 3}
	if got := r.TotalValue(); got != 3000 {
		t.Errorf("Expected 3000, got %d", got)
	}
}

func TestStoreReplace(t *testing.T) {
	var store Store
	if store.Load() != nil {
		t.Fatal("Expected nil snapshot before first refresh")
	}

	records := []ItemRecord{{ID: 1, Name: "Coins", Quantity: 1, UnitValue: 1}}
	first := store.Replace(records)
	records[0].Name = "changed"

	if got := store.Load(); got != first {
		t.Fatal("Load did not return the installed snapshot")
	}
	if first.Records[0].Name != "Coins" {
		t.Errorf("Snapshot shares storage with caller slice: %q", first.Records[0].Name)
	}

	second := store.Replace(nil)
	if store.Load() != second {
		t.Error("Second Replace was not visible")
	}
	if second.Len() != 0 {
		t.Errorf("Expected empty snapshot, got %d records", second.Len())
	}
	if first.Len() != 1 {
		t.Error("Replacing the store mutated the previous snapshot")
	}
}

func TestNilSnapshotLen(t *testing.T) {
	var s *Snapshot
	if s.Len() != 0 {
		t.Error("Expected zero length for nil snapshot")
	}
}
