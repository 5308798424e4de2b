package render

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/streamwall/pkg/grid"
)

// Cell size in inches, 16:9.
const (
	cellW = 1.6
	cellH = 0.9
)

var fills = []string{"#cce5df", "#d5e8d4", "#fff2cc", "#dae8fc", "#f8cecc", "#e1d5e7", "#ffe6cc", "#d0e0e3"}

// DOT returns a Graphviz document placing every tile at its grid position.
// Graphviz y grows upwards, so rows are flipped.
func DOT(l grid.Layout, m grid.Metrics, opts Options) string {
	cols, rows := max(1, m.Cols), max(1, m.Rows)
	var buf bytes.Buffer
	buf.WriteString("graph wall {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fixedsize=true, fontsize=14, fontname=\"Helvetica\"];\n")
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  %q [label=\"\", pos=\"%s,%s!\", width=%s, height=%s, style=dashed, color=grey];\n",
		"__grid", num(float64(cols)*cellW/2), num(float64(rows)*cellH/2),
		num(float64(cols)*cellW), num(float64(rows)*cellH))

	for i, it := range l {
		cx := (float64(it.X) + float64(it.W)/2) * cellW
		cy := (float64(rows) - float64(it.Y) - float64(it.H)/2) * cellH
		label := opts.label(it.ID) + "\n" + geometry(it)
		attrs := fmt.Sprintf("label=%q, pos=\"%s,%s!\", width=%s, height=%s, fillcolor=%q",
			label, num(cx), num(cy), num(float64(it.W)*cellW-0.08), num(float64(it.H)*cellH-0.08),
			fills[i%len(fills)])
		if opts.Live[it.ID] {
			attrs += ", color=\"#d62728\", penwidth=3"
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", it.ID, attrs)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func num(f float64) string {
	return strconv.FormatFloat(math.Round(f*1e4)/1e4, 'f', -1, 64)
}

// SVG renders l through Graphviz.
func SVG(ctx context.Context, l grid.Layout, m grid.Metrics, opts Options) ([]byte, error) {
	return RenderSVG(ctx, DOT(l, m, opts))
}

// RenderSVG renders a DOT document to SVG with the neato engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the SVG scales with its
// container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="100%%" preserveAspectRatio="xMidYMid meet">`, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
