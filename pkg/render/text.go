package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/streamwall/pkg/grid"
)

const (
	marks     = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	emptyMark = '.'
	overMark  = '#'
)

var palette = []lipgloss.Color{"36", "35", "220", "75", "167", "141", "208", "114", "203", "80"}

// TextOptions configures [Text].
type TextOptions struct {
	Options
	// CellWidth and CellHeight are the characters per grid cell. Zero
	// means 4 by 2, roughly the 16:9 shape of a tile in a terminal.
	CellWidth  int
	CellHeight int
	// Color styles each tile with a lipgloss colour.
	Color bool
	// Highlight is drawn bold, for the tile under interaction.
	Highlight string
}

// Mark returns the legend letter of the i-th tile.
func Mark(i int) rune {
	if i < 0 || i >= len(marks) {
		return overMark
	}
	return rune(marks[i])
}

// Text renders l on an m-sized character grid followed by a legend.
// Overlapping cells show the later tile.
func Text(l grid.Layout, m grid.Metrics, opts TextOptions) string {
	cw, ch := opts.CellWidth, opts.CellHeight
	if cw <= 0 {
		cw = 4
	}
	if ch <= 0 {
		ch = 2
	}
	cols, rows := max(1, m.Cols), max(1, m.Rows)

	owner := make([][]int, rows)
	for y := range owner {
		owner[y] = make([]int, cols)
		for x := range owner[y] {
			owner[y][x] = -1
		}
	}
	for i, it := range l {
		for y := max(0, it.Y); y < min(rows, it.Bottom()); y++ {
			for x := max(0, it.X); x < min(cols, it.Right()); x++ {
				owner[y][x] = i
			}
		}
	}

	var b strings.Builder
	for y := range rows {
		line := renderRow(l, owner[y], cw, opts)
		for range ch {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}

	if len(l) == 0 {
		return b.String()
	}
	b.WriteByte('\n')

	width := 0
	for _, it := range l {
		width = max(width, len(opts.label(it.ID)))
	}
	for i, it := range l {
		name := fmt.Sprintf("%-*s", width, opts.label(it.ID))
		line := fmt.Sprintf("%c  %s  %s", Mark(i), name, geometry(it))
		if opts.Live[it.ID] {
			line += "  live"
		}
		b.WriteString(strings.TrimRight(style(i, it.ID, opts).Render(line), " "))
		b.WriteByte('\n')
	}
	return b.String()
}

// renderRow draws one grid row, styling runs of the same tile together.
func renderRow(l grid.Layout, owners []int, cw int, opts TextOptions) string {
	var b strings.Builder
	for x := 0; x < len(owners); {
		o := owners[x]
		n := 1
		for x+n < len(owners) && owners[x+n] == o {
			n++
		}
		if o < 0 {
			b.WriteString(strings.Repeat(string(emptyMark), n*cw))
		} else {
			run := strings.Repeat(string(Mark(o)), n*cw)
			b.WriteString(style(o, l[o].ID, opts).Render(run))
		}
		x += n
	}
	return b.String()
}

func style(i int, id string, opts TextOptions) lipgloss.Style {
	s := lipgloss.NewStyle()
	if !opts.Color {
		return s
	}
	s = s.Foreground(palette[i%len(palette)])
	if id == opts.Highlight {
		s = s.Bold(true)
	}
	return s
}
