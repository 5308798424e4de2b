// Package grid places stream tiles on an integer cell grid.
//
// # Overview
//
// A wall is a grid of Cols × Rows cells. Every stream occupies one [Item], a
// rectangle of whole cells. A layout is valid when every item lies inside the
// grid and no two items overlap:
//
//	+-----+-----+--+
//	|  A  |  B  |C |
//	|     |     +--+
//	+-----+-----+  |
//	|     D     |  |
//	+-----------+--+
//
// The package is a small constraint solver. It never performs I/O and every
// function is synchronous, deterministic and bounded, so callers can run it on
// every container resize or stream-set change.
//
// # Metrics
//
// [ComputeMetrics] derives the grid from the container size in pixels: rows
// target 180px, columns are sized so that a tile's video area keeps 16:9 after
// subtracting the tile header bar, and containers narrower than 768px switch
// to a single-column mobile grid with one row per tile.
//
// # Placement
//
// [FindOpenSlot] scans for the first free position for an item of fixed size.
// [FitItem] additionally shrinks the item (width before height) until it fits,
// falling back to a 1×1 tile.
//
// # Repair and Reflow
//
// [Repair] turns an arbitrary layout into a valid one: it drops unknown and
// duplicate items, clamps everything into bounds, re-places items in reading
// order and, while the result is still invalid, shrinks the largest item by
// one cell. The loop is capped at max(8, 10×tiles) passes and always returns
// something renderable.
//
// [ResolveResize] is the gentler variant used when a tile grows through a
// resize handle: the grown tile is pinned and only tiles it now collides with
// are moved.
//
// # Building Layouts
//
// [BuildEven] spreads tiles evenly over the free cells. [BuildPreservingManual]
// reconciles a saved manual arrangement with the current stream set: manual
// tiles stay, new streams fill the gaps and removed streams disappear.
// [PackMobile] stacks tiles into the single mobile column.
package grid
