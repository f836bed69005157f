package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/flowsheet/pkg/flowsheet"
	"github.com/matzehuels/flowsheet/pkg/unit"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds unit parameters to node labels and stream state to edge
	// labels. When false, nodes show the unit name and edges the stream id.
	Detailed bool
}

var shapes = map[unit.Type]string{
	unit.TypeMixer:         "diamond",
	unit.TypeSplitter:      "diamond",
	unit.TypeHeatExchanger: "ellipse",
	unit.TypeReactor:       "box",
	unit.TypeSeparator:     "box",
}

var fills = map[unit.Type]string{
	unit.TypeMixer:         "#e3f2fd",
	unit.TypeSplitter:      "#e3f2fd",
	unit.TypeHeatExchanger: "#fff3e0",
	unit.TypeReactor:       "#fce4ec",
	unit.TypeSeparator:     "#e8f5e9",
}

// ToDOT converts a flowsheet visualization to Graphviz DOT source. The
// result can be rendered with [RenderSVG]. Nodes and edges keep the order
// of the visualization.
func ToDOT(v flowsheet.Visualization, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph flowsheet {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, n := range v.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, e := range v.Edges {
		label := edgeLabel(v, e, opts.Detailed)
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.Source, e.Target, label)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n flowsheet.Node, detailed bool) []string {
	shape, ok := shapes[n.Type]
	if !ok {
		shape = "box"
	}
	fill, ok := fills[n.Type]
	if !ok {
		fill = "white"
	}
	return []string{
		fmt.Sprintf("label=%q", nodeLabel(n, detailed)),
		"shape=" + shape,
		fmt.Sprintf("fillcolor=%q", fill),
	}
}

func nodeLabel(n flowsheet.Node, detailed bool) string {
	label := n.Data.Label
	if label == "" {
		label = n.ID
	}
	if !detailed {
		return label
	}

	parts := []string{label, string(n.Type)}
	for _, k := range slices.Sorted(maps.Keys(n.Data.Parameters)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Data.Parameters[k]))
	}
	return strings.Join(parts, "\n")
}

func edgeLabel(v flowsheet.Visualization, e flowsheet.Edge, detailed bool) string {
	if !detailed {
		return e.Data.Stream
	}
	st, ok := v.Streams[e.Data.Stream]
	if !ok {
		return e.Data.Stream
	}
	return fmt.Sprintf("%s\n%.3g kg/s\n%.1f K", e.Data.Stream, st.FlowRate, st.Temperature)
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

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

// normalizeViewBox rewrites the root element so the diagram scales with its
// container: origin at zero and width/height matching the view box.
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

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
