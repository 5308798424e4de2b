package grid

// PackMobile stacks the tiles of l into one column without gaps. Tiles keep
// their reading order from l; streams missing from l follow in stream order.
// Every tile becomes 1×1 at x=0 with consecutive rows.
func PackMobile(l Layout, streamIDs []string) Layout {
	ids := uniqueIDs(streamIDs)
	known := make(map[string]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}

	ordered := make(Layout, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, it := range l {
		if !known[it.ID] || seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		ordered = append(ordered, it)
	}
	sortByPosition(ordered)
	for _, id := range ids {
		if !seen[id] {
			ordered = append(ordered, Item{ID: id})
		}
	}

	for i := range ordered {
		ordered[i].X, ordered[i].Y, ordered[i].W, ordered[i].H = 0, i, 1, 1
	}
	return ordered
}
