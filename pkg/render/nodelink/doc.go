// Package nodelink renders flowsheets as Graphviz node-link diagrams.
//
// # Usage
//
// Convert a [flowsheet.Visualization] to DOT, then render to SVG:
//
//	vis := eng.ExportForVisualization()
//	dot := nodelink.ToDOT(vis, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Units become nodes shaped by type (mixers and splitters as small
// diamonds, exchangers as ellipses, reactors and separators as boxes) and
// connections become edges labeled with their stream id. The diagram flows
// left to right.
//
// # Options
//
//   - Detailed: node labels list unit parameters and edge labels show the
//     stream's flow rate and temperature.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. See the parent render package for PDF and PNG conversion.
//
// [flowsheet.Visualization]: github.com/matzehuels/flowsheet/pkg/flowsheet.Visualization
package nodelink
