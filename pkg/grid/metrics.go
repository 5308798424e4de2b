package grid

import "math"

// Mode is the responsive layout variant selected by container width.
type Mode string

const (
	ModeDesktop Mode = "desktop"
	ModeMobile  Mode = "mobile"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool { return m == ModeDesktop || m == ModeMobile }

// Metrics describes the grid derived from a container size and tile count.
type Metrics struct {
	Cols        int     `json:"cols"`
	Rows        int     `json:"rows"`
	RowHeight   float64 `json:"row_height"`
	LayoutWidth float64 `json:"layout_width"`
	IsMobile    bool    `json:"is_mobile"`
}

// Capacity returns the number of addressable cells.
func (m Metrics) Capacity() int { return m.Cols * m.Rows }

// Mode returns the layout mode the metrics were computed for.
func (m Metrics) Mode() Mode {
	if m.IsMobile {
		return ModeMobile
	}
	return ModeDesktop
}

// normalized guarantees at least one column and one row.
func (m Metrics) normalized() Metrics {
	m.Cols = max(1, m.Cols)
	m.Rows = max(1, m.Rows)
	return m
}

// Params holds the tunables of the metrics calculation.
type Params struct {
	// Breakpoint is the container width in pixels below which the mobile
	// single-column grid is used.
	Breakpoint float64 `json:"breakpoint" mapstructure:"breakpoint"`

	// TargetRowPx is the desired desktop row height in pixels.
	TargetRowPx float64 `json:"target_row_px" mapstructure:"target_row_px"`

	// ChromePx is the fixed tile header height that is not part of the video.
	ChromePx float64 `json:"chrome_px" mapstructure:"chrome_px"`

	// AspectW and AspectH give the video aspect ratio.
	AspectW float64 `json:"aspect_w" mapstructure:"aspect_w"`
	AspectH float64 `json:"aspect_h" mapstructure:"aspect_h"`
}

// DefaultParams returns the standard 16:9 parameters with a 768px breakpoint
// and 180px target rows.
func DefaultParams() Params {
	return Params{
		Breakpoint:  768,
		TargetRowPx: 180,
		ChromePx:    32,
		AspectW:     16,
		AspectH:     9,
	}
}

// withDefaults replaces unusable values by their defaults.
func (p Params) withDefaults() Params {
	d := DefaultParams()
	if !positive(p.Breakpoint) {
		p.Breakpoint = d.Breakpoint
	}
	if !positive(p.TargetRowPx) {
		p.TargetRowPx = d.TargetRowPx
	}
	if !finite(p.ChromePx) || p.ChromePx < 0 {
		p.ChromePx = d.ChromePx
	}
	if !positive(p.AspectW) || !positive(p.AspectH) {
		p.AspectW, p.AspectH = d.AspectW, d.AspectH
	}
	return p
}

// ModeFor returns the layout mode for a container width.
func (p Params) ModeFor(width float64) Mode {
	if sanitize(width) < p.withDefaults().Breakpoint {
		return ModeMobile
	}
	return ModeDesktop
}

// ComputeMetrics derives grid metrics with [DefaultParams].
func ComputeMetrics(width, height float64, tiles int) Metrics {
	return DefaultParams().Compute(width, height, tiles)
}

// Compute derives grid metrics for a container of width × height pixels
// holding the given number of tiles. Zero, negative and NaN sizes are treated
// as zero; the result always has at least one column and one row.
func (p Params) Compute(width, height float64, tiles int) Metrics {
	p = p.withDefaults()
	width, height = sanitize(width), sanitize(height)
	tiles = max(0, tiles)

	if width < p.Breakpoint {
		return Metrics{
			Cols:        1,
			Rows:        max(1, tiles),
			RowHeight:   width*p.AspectH/p.AspectW + p.ChromePx,
			LayoutWidth: width,
			IsMobile:    true,
		}
	}

	rows := spanOf(height / p.TargetRowPx)
	rowHeight := height / float64(rows)
	cols := p.columns(width, rowHeight)

	// Without enough cells every tile would be forced below one cell, so
	// trade row height for capacity.
	if rows*cols < tiles {
		rows = (tiles + cols - 1) / cols
		rowHeight = height / float64(rows)
	}

	return Metrics{
		Cols:        cols,
		Rows:        rows,
		RowHeight:   rowHeight,
		LayoutWidth: width,
	}
}

// columns returns how many aspect-correct tiles of the given row height fit
// across width.
func (p Params) columns(width, rowHeight float64) int {
	contentH := max(1, rowHeight-p.ChromePx)
	tileW := contentH * p.AspectW / p.AspectH
	return spanOf(width / tileW)
}

// maxSpan bounds columns and rows for absurd container sizes.
const maxSpan = 1 << 12

func sanitize(v float64) float64 {
	if !finite(v) || v < 0 {
		return 0
	}
	return v
}

// spanOf floors v into [1, maxSpan].
func spanOf(v float64) int {
	return int(math.Max(1, math.Min(maxSpan, math.Floor(v))))
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func positive(v float64) bool { return finite(v) && v > 0 }
