// Package render converts flowsheet diagrams into image formats.
//
// The [nodelink] subpackage draws a flowsheet as a Graphviz node-link
// diagram and renders it to SVG in-process. This package converts that SVG
// to PDF or PNG with the external rsvg-convert tool (from librsvg):
//
//	svg, err := nodelink.RenderSVG(ctx, nodelink.ToDOT(vis, nodelink.Options{}))
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [nodelink]: github.com/matzehuels/flowsheet/pkg/render/nodelink
package render
