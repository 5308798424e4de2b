package grid

// BuildEven spreads streamIDs over the grid in order. Each tile targets an
// equal share of the cells still free, rounded down to a square, and is
// placed with [FitItem] starting from the top-left corner.
func BuildEven(streamIDs []string, m Metrics) Layout {
	m = m.normalized()
	ids := uniqueIDs(streamIDs)

	placed := make(Layout, 0, len(ids))
	for i, id := range ids {
		free := m.Capacity() - placed.Occupied()
		target := max(1, free/(len(ids)-i))
		side := isqrt(target)
		seed := Item{ID: id, W: min(side, m.Cols), H: min(side, m.Rows)}
		placed = append(placed, FitItem(seed, placed, m))
	}
	return placed
}

// isqrt returns the integer square root of n, at least 1.
func isqrt(n int) int {
	r := 1
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}
