package grid

import (
	swerrors "github.com/matzehuels/streamwall/pkg/errors"
)

// Result is the outcome of [Repair].
type Result struct {
	// Layout is always renderable, even when Valid is false.
	Layout Layout
	// Valid reports whether Layout passed [Validate].
	Valid bool
	// Iterations is the number of normalize passes that ran.
	Iterations int
}

// Validate checks that every item lies inside the grid, that IDs are unique
// and that no two items overlap. The first violation is returned as an
// INVALID_LAYOUT error.
func Validate(l Layout, m Metrics) error {
	seen := make(map[string]bool, len(l))
	for i, it := range l {
		if seen[it.ID] {
			return swerrors.New(swerrors.ErrCodeInvalidLayout, "duplicate tile %q", it.ID)
		}
		seen[it.ID] = true
		if !InBounds(it, m) {
			return swerrors.New(swerrors.ErrCodeInvalidLayout,
				"tile %q at (%d,%d) size %dx%d outside %dx%d grid",
				it.ID, it.X, it.Y, it.W, it.H, m.Cols, m.Rows)
		}
		for _, other := range l[:i] {
			if Intersects(it, other) {
				return swerrors.New(swerrors.ErrCodeInvalidLayout, "tile %q overlaps %q", it.ID, other.ID)
			}
		}
	}
	return nil
}

// IsValid reports whether [Validate] accepts l.
func IsValid(l Layout, m Metrics) bool {
	return Validate(l, m) == nil
}

// Sanitize drops items whose ID is not in streamIDs, keeps only the first
// item per ID and clamps the rest into the grid. Input order is preserved.
func Sanitize(l Layout, streamIDs []string, m Metrics) Layout {
	known := make(map[string]bool, len(streamIDs))
	for _, id := range streamIDs {
		known[id] = true
	}
	seen := make(map[string]bool, len(l))
	out := make(Layout, 0, len(l))
	for _, it := range l {
		if !known[it.ID] || seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		out = append(out, Clamp(it, m))
	}
	return out
}

// missing returns the stream IDs, in stream order, that l does not contain.
func missing(l Layout, streamIDs []string) []string {
	have := make(map[string]bool, len(l))
	for _, it := range l {
		have[it.ID] = true
	}
	var out []string
	for _, id := range uniqueIDs(streamIDs) {
		if !have[id] {
			out = append(out, id)
		}
	}
	return out
}

// Normalize re-places every item. The prioritized item, if present, goes
// first and keeps its clamped geometry. The others follow in reading order
// and are placed with [FitItem], so they may move or shrink.
func Normalize(l Layout, m Metrics, prioritizedID string) Layout {
	m = m.normalized()

	order := make(Layout, 0, len(l))
	var rest Layout
	for _, it := range l {
		if prioritizedID != "" && it.ID == prioritizedID && len(order) == 0 {
			order = append(order, it)
			continue
		}
		rest = append(rest, it)
	}
	sortByPosition(rest)

	placed := make(Layout, 0, len(l))
	for i, it := range append(order, rest...) {
		if i == 0 && len(order) == 1 {
			slot, _ := FindOpenSlot(it, placed, m)
			placed = append(placed, slot)
			continue
		}
		placed = append(placed, FitItem(it, placed, m))
	}
	return placed
}

// Repair turns l into a valid layout holding exactly streamIDs.
//
// Unknown and duplicate items are dropped and missing streams are seeded as
// 1×1 tiles. The layout is then normalized; while it is invalid the largest
// item shrinks by one cell (width first) and normalization runs again. The
// loop ends on success, after max(8, 10×tiles) passes, or when nothing can
// shrink any more. The last attempt is returned either way.
func Repair(l Layout, streamIDs []string, m Metrics, prioritizedID string) Result {
	m = m.normalized()
	ids := uniqueIDs(streamIDs)

	work := Sanitize(l, ids, m)
	for _, id := range missing(work, ids) {
		work = append(work, Item{ID: id, W: 1, H: 1})
	}

	budget := max(8, 10*len(ids))
	var out Layout
	for i := 1; i <= budget; i++ {
		out = Normalize(work, m, prioritizedID)
		if IsValid(out, m) {
			return Result{Layout: out, Valid: true, Iterations: i}
		}
		next, changed := shrinkLargest(out)
		if !changed {
			return Result{Layout: out, Iterations: i}
		}
		work = next
	}
	return Result{Layout: out, Iterations: budget}
}

// shrinkLargest returns a copy of l with the largest-area item (the first
// one on ties) reduced by one column, or by one row when it is a single
// column wide.
func shrinkLargest(l Layout) (Layout, bool) {
	best := -1
	for i, it := range l {
		if it.Area() <= 1 {
			continue
		}
		if best < 0 || it.Area() > l[best].Area() {
			best = i
		}
	}
	if best < 0 {
		return l, false
	}

	out := l.Clone()
	if out[best].W > 1 {
		out[best].W--
	} else {
		out[best].H--
	}
	return out, true
}

// ResolveResize reflows l around the item activeID after it was resized.
//
// The active item keeps its requested geometry, clamped to the grid. Every
// other item that neither leaves the grid nor overlaps a kept item stays
// exactly where it is; the remaining items are re-placed with [FitItem] in
// reading order. Streams with no item are appended as fitted 1×1 tiles.
//
// The result is not guaranteed to be valid; callers fall back to [Repair].
func ResolveResize(l Layout, streamIDs []string, m Metrics, activeID string) Layout {
	m = m.normalized()
	ids := uniqueIDs(streamIDs)
	san := Sanitize(l, ids, m)

	placed := make(Layout, 0, len(ids))
	var others Layout
	for _, it := range san {
		if it.ID == activeID {
			placed = append(placed, it)
			continue
		}
		others = append(others, it)
	}
	sortByPosition(others)

	var conflicting Layout
	for _, it := range others {
		if collides(it, placed) {
			conflicting = append(conflicting, it)
			continue
		}
		placed = append(placed, it)
	}
	for _, it := range conflicting {
		placed = append(placed, FitItem(it, placed, m))
	}
	for _, id := range missing(san, ids) {
		placed = append(placed, FitItem(Item{ID: id, W: 1, H: 1}, placed, m))
	}

	// Report items in their incoming order so callers see stable output.
	byID := make(map[string]Item, len(placed))
	for _, it := range placed {
		byID[it.ID] = it
	}
	out := make(Layout, 0, len(placed))
	for _, it := range san {
		out = append(out, byID[it.ID])
	}
	for _, id := range missing(san, ids) {
		out = append(out, byID[id])
	}
	return out
}
