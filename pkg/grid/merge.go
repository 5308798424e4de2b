package grid

// BuildPreservingManual reconciles a saved manual layout with the current
// stream set.
//
// Manual items for known streams keep their geometry unless they collide
// with an earlier manual item, in which case they are re-fitted. Streams
// without a manual item take their position from defaultLayout and are fitted
// around everything placed so far, so new streams fill gaps instead of
// displacing arranged tiles. A nil defaultLayout is computed with
// [BuildEven]. Items of removed streams are dropped.
func BuildPreservingManual(streamIDs []string, manual, defaultLayout Layout, m Metrics) Layout {
	m = m.normalized()
	ids := uniqueIDs(streamIDs)
	if defaultLayout == nil {
		defaultLayout = BuildEven(ids, m)
	}

	kept := Sanitize(manual, ids, m)
	placed := make(Layout, 0, len(ids))
	for _, it := range kept {
		if collides(it, placed) {
			it = FitItem(it, placed, m)
		}
		placed = append(placed, it)
	}

	for _, id := range missing(kept, ids) {
		seed, ok := defaultLayout.Find(id)
		if !ok {
			seed = Item{ID: id, W: 1, H: 1}
		}
		placed = append(placed, FitItem(seed, placed, m))
	}
	return placed
}
