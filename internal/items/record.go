package items

import "sync/atomic"

// ItemRecord is one row of a container snapshot.
type ItemRecord struct {
	ID        int
	Name      string
	Quantity  int
	UnitValue int
}

// TotalValue is always derived from the unit value and quantity.
func (r ItemRecord) TotalValue() int {
	return r.UnitValue * r.Quantity
}

// Snapshot is the full set of records from one refresh, in feed order.
type Snapshot struct {
	Records []ItemRecord
}

// NewSnapshot copies records so later changes to the caller's slice are not visible.
func NewSnapshot(records []ItemRecord) *Snapshot {
	cp := make([]ItemRecord, len(records))
	copy(cp, records)
	return &Snapshot{Records: cp}
}

// Len returns the number of records, zero for a nil snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Records)
}

// Store holds the current snapshot. Replace swaps the whole snapshot in one
// step so readers never see a partial refresh.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// Replace installs a new snapshot built from records.
func (s *Store) Replace(records []ItemRecord) *Snapshot {
	snap := NewSnapshot(records)
	s.current.Store(snap)
	return snap
}

// Load returns the current snapshot, or nil if none has been set yet.
func (s *Store) Load() *Snapshot {
	return s.current.Load()
}
