// Package render draws a grid layout for people.
//
// [Text] produces a character grid for terminals, one letter per tile with a
// legend below it, optionally coloured with lipgloss:
//
//	AAAAAABBBBBB....
//	AAAAAABBBBBB....
//	CCCCCCCCCCCC....
//
//	A  youtube:@lofigirl   (0,0) 1x2
//	B  twitch:shroud       (1,0) 1x2
//	C  kick:xqc            (0,2) 2x1
//
// [DOT] produces a Graphviz document with every tile pinned to its grid
// position, and [SVG] renders that document with the neato engine.
package render

import (
	"fmt"

	"github.com/matzehuels/streamwall/pkg/grid"
)

// Options configures rendering.
type Options struct {
	// Labels maps tile IDs to display names. Tiles without a label show
	// their ID.
	Labels map[string]string
	// Live marks tiles whose stream is live.
	Live map[string]bool
}

func (o Options) label(id string) string {
	if l, ok := o.Labels[id]; ok && l != "" {
		return l
	}
	return id
}

func geometry(it grid.Item) string {
	return fmt.Sprintf("(%d,%d) %dx%d", it.X, it.Y, it.W, it.H)
}
