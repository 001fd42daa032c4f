package items

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

type SortKey int

const (
	SortByName SortKey = iota
	SortByQuantity
	SortByValue
)

func (k SortKey) String() string {
	switch k {
	case SortByName:
		return "name"
	case SortByQuantity:
		return "quantity"
	case SortByValue:
		return "value"
	default:
		return fmt.Sprintf("SortKey(%d)", int(k))
	}
}

// ParseSortKey accepts the column names used by the list header.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name":
		return SortByName, nil
	case "quantity", "count", "#":
		return SortByQuantity, nil
	case "value", "price", "$":
		return SortByValue, nil
	default:
		return 0, fmt.Errorf("unknown sort key %q", s)
	}
}

// SortState is the active column and direction of the on-screen list.
type SortState struct {
	Key       SortKey
	Ascending bool
}

// DefaultSortState lists the most valuable items first.
func DefaultSortState() SortState {
	return SortState{Key: SortByValue, Ascending: false}
}

// Request returns the state after the user picks key: the active key flips
// direction, any other key becomes active in ascending order.
func (s SortState) Request(key SortKey) SortState {
	if key == s.Key {
		return SortState{Key: key, Ascending: !s.Ascending}
	}
	return SortState{Key: key, Ascending: true}
}

// Sort returns a sorted copy of records. Equal keys keep their input order.
func Sort(records []ItemRecord, state SortState) []ItemRecord {
	out := make([]ItemRecord, len(records))
	copy(out, records)

	compare := comparator(state.Key)
	dir := 1
	if !state.Ascending {
		dir = -1
	}
	slices.SortStableFunc(out, func(a, b ItemRecord) int {
		return compare(a, b) * dir
	})
	return out
}

// Value compares unit value, not total value.
func comparator(key SortKey) func(a, b ItemRecord) int {
	switch key {
	case SortByName:
		return func(a, b ItemRecord) int { return strings.Compare(a.Name, b.Name) }
	case SortByQuantity:
		return func(a, b ItemRecord) int { return cmp.Compare(a.Quantity, b.Quantity) }
	case SortByValue:
		return func(a, b ItemRecord) int { return cmp.Compare(a.UnitValue, b.UnitValue) }
	default:
		return func(a, b ItemRecord) int { return 0 }
	}
}
