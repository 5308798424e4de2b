package grid

import (
	"cmp"
	"slices"
)

// Item is one stream tile, positioned in whole grid cells.
type Item struct {
	ID string `json:"id"`
	X  int    `json:"x"`
	Y  int    `json:"y"`
	W  int    `json:"w"`
	H  int    `json:"h"`
}

// Area returns the number of cells the item covers.
func (it Item) Area() int { return it.W * it.H }

// Right returns the first column past the item.
func (it Item) Right() int { return it.X + it.W }

// Bottom returns the first row past the item.
func (it Item) Bottom() int { return it.Y + it.H }

// SameGeometry reports whether two items cover the same cells.
func (it Item) SameGeometry(o Item) bool {
	return it.X == o.X && it.Y == o.Y && it.W == o.W && it.H == o.H
}

// Intersects reports whether a and b overlap. Items that only share an edge
// do not intersect.
func Intersects(a, b Item) bool {
	return a.X < b.X+b.W && a.X+a.W > b.X && a.Y < b.Y+b.H && a.Y+a.H > b.Y
}

// InBounds reports whether it has a positive size and lies inside the grid.
func InBounds(it Item, m Metrics) bool {
	return it.W >= 1 && it.H >= 1 &&
		it.X >= 0 && it.Y >= 0 &&
		it.X+it.W <= m.Cols && it.Y+it.H <= m.Rows
}

// Clamp returns it forced into the grid: the size is limited to
// [1, Cols] × [1, Rows] and the position moved so the item fits.
func Clamp(it Item, m Metrics) Item {
	m = m.normalized()
	it.W = clampInt(it.W, 1, m.Cols)
	it.H = clampInt(it.H, 1, m.Rows)
	it.X = clampInt(it.X, 0, m.Cols-it.W)
	it.Y = clampInt(it.Y, 0, m.Rows-it.H)
	return it
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// collides reports whether it intersects any placed item with a different ID.
func collides(it Item, placed []Item) bool {
	for _, p := range placed {
		if p.ID != it.ID && Intersects(it, p) {
			return true
		}
	}
	return false
}

// Layout is an ordered list of items.
type Layout []Item

// Clone returns an independent copy of l. A nil layout stays nil.
func (l Layout) Clone() Layout {
	if l == nil {
		return nil
	}
	return slices.Clone(l)
}

// Find returns the item with the given ID.
func (l Layout) Find(id string) (Item, bool) {
	for _, it := range l {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// IDs returns the item IDs in layout order.
func (l Layout) IDs() []string {
	ids := make([]string, len(l))
	for i, it := range l {
		ids[i] = it.ID
	}
	return ids
}

// Occupied returns the total area covered by all items.
func (l Layout) Occupied() int {
	total := 0
	for _, it := range l {
		total += it.Area()
	}
	return total
}

// Equivalent reports whether l and o hold the same IDs with the same
// geometry, ignoring order.
func (l Layout) Equivalent(o Layout) bool {
	if len(l) != len(o) {
		return false
	}
	byID := make(map[string]Item, len(o))
	for _, it := range o {
		byID[it.ID] = it
	}
	if len(byID) != len(o) {
		return false
	}
	for _, it := range l {
		other, ok := byID[it.ID]
		if !ok || !it.SameGeometry(other) {
			return false
		}
	}
	return true
}

// HasIDs reports whether the layout holds exactly the given IDs.
func (l Layout) HasIDs(ids []string) bool {
	want := uniqueIDs(ids)
	if len(want) != len(l) {
		return false
	}
	set := make(map[string]bool, len(want))
	for _, id := range want {
		set[id] = true
	}
	for _, it := range l {
		if !set[it.ID] {
			return false
		}
		delete(set, it.ID)
	}
	return len(set) == 0
}

// sortByPosition orders items top to bottom, then left to right. The sort is
// stable so ties keep their input order.
func sortByPosition(l Layout) {
	slices.SortStableFunc(l, func(a, b Item) int {
		if c := cmp.Compare(a.Y, b.Y); c != 0 {
			return c
		}
		return cmp.Compare(a.X, b.X)
	})
}

// uniqueIDs drops empty and repeated IDs, keeping first occurrences.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
