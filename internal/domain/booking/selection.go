package booking

import (
	"cmp"
	"slices"
)

// Eligible returns the tables that seat guests and for which free reports true,
// in their original order.
func Eligible(tables []Table, guests int, free func(Table) bool) []Table {
	var out []Table
	for _, t := range tables {
		if t.Capacity < guests {
			continue
		}
		if free != nil && !free(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// ChooseTableBestFit picks the smallest eligible table. Equal capacities keep
// list order, so the lower position wins.
func ChooseTableBestFit(tables []Table, guests int, free func(Table) bool) (Table, bool) {
	eligible := Eligible(tables, guests, free)
	if len(eligible) == 0 {
		return Table{}, false
	}
	slices.SortStableFunc(eligible, func(a, b Table) int {
		return cmp.Compare(a.Capacity, b.Capacity)
	})
	return eligible[0], true
}

// FreeAt builds the exact-slot availability check from the bookings already
// holding any table at that slot.
func FreeAt(slot Slot, bookings []Booking) func(Table) bool {
	taken := make(map[int]struct{})
	for _, b := range bookings {
		if b.Date == slot.Date && b.Time == slot.Time {
			taken[b.TableID] = struct{}{}
		}
	}
	return func(t Table) bool {
		_, ok := taken[t.ID]
		return !ok
	}
}

// FindTable returns the table with id.
func FindTable(tables []Table, id int) (Table, bool) {
	for _, t := range tables {
		if t.ID == id {
			return t, true
		}
	}
	return Table{}, false
}

// SortBySlot orders bookings by (date, time) ascending, keeping insertion order for ties.
func SortBySlot(bs []Booking) {
	slices.SortStableFunc(bs, func(a, b Booking) int {
		return cmp.Compare(a.Slot().Key(), b.Slot().Key())
	})
}
