package grid

// FindOpenSlot searches a position for item at its current size, clamped to
// the grid. The desired row is scanned first, rightwards from the desired
// column; after that every row is scanned from column 0. The first position
// that intersects nothing in placed wins.
//
// When no position is free the clamped item is returned with ok == false and
// may overlap; callers must validate the result.
func FindOpenSlot(item Item, placed []Item, m Metrics) (slot Item, ok bool) {
	m = m.normalized()
	it := Clamp(item, m)

	cand := it
	for x := it.X; x+it.W <= m.Cols; x++ {
		cand.X = x
		if !collides(cand, placed) {
			return cand, true
		}
	}

	for y := 0; y+it.H <= m.Rows; y++ {
		cand.Y = y
		for x := 0; x+it.W <= m.Cols; x++ {
			cand.X = x
			if !collides(cand, placed) {
				return cand, true
			}
		}
	}

	return it, false
}

// FitItem places item among placed, shrinking it when its size does not fit
// anywhere. The desired size is tried first. After that, each candidate
// height is tried with widths from the desired width down to 1, so width is
// always given up before height. Heights that fit below the desired row come
// first, tallest first; taller heights that would have to move the tile up
// follow.
//
// If not even a single cell is free the tile becomes 1×1 at its clamped
// desired position, overlapping whatever is there.
func FitItem(item Item, placed []Item, m Metrics) Item {
	m = m.normalized()
	it := Clamp(item, m)
	if slot, ok := FindOpenSlot(it, placed, m); ok {
		return slot
	}

	desiredY := clampInt(item.Y, 0, m.Rows-1)
	for _, h := range candidateHeights(it.H, m.Rows-desiredY) {
		for w := it.W; w >= 1; w-- {
			if w == it.W && h == it.H {
				continue
			}
			cand := Item{ID: it.ID, X: item.X, Y: desiredY, W: w, H: h}
			if slot, ok := FindOpenSlot(cand, placed, m); ok {
				return slot
			}
		}
	}

	return Clamp(Item{ID: it.ID, X: it.X, Y: it.Y, W: 1, H: 1}, m)
}

// candidateHeights lists heights 1..maxH: those not exceeding below (the rows
// left under the desired row) in descending order, then the rest descending.
func candidateHeights(maxH, below int) []int {
	below = clampInt(below, 1, maxH)
	hs := make([]int, 0, maxH)
	for h := below; h >= 1; h-- {
		hs = append(hs, h)
	}
	for h := maxH; h > below; h-- {
		hs = append(hs, h)
	}
	return hs
}
