package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/flowsheet/pkg/errors"
	fio "github.com/matzehuels/flowsheet/pkg/io"
	"github.com/matzehuels/flowsheet/pkg/render"
	"github.com/matzehuels/flowsheet/pkg/render/nodelink"
)

// Render generates the requested artifacts from a solved result. The DOT
// source and the SVG are computed at most once and shared between formats.
func Render(ctx context.Context, result *Result, opts Options) (map[string][]byte, error) {
	dot := nodelink.ToDOT(result.Visualization, nodelink.Options{Detailed: opts.Detailed})
	artifacts := make(map[string][]byte, len(opts.Formats))

	var svg []byte
	svgOnce := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		var err error
		svg, err = nodelink.RenderSVG(ctx, dot)
		return svg, err
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = svgOnce()
		case FormatPDF:
			if data, err = svgOnce(); err == nil {
				data, err = render.ToPDF(ctx, data)
			}
		case FormatPNG:
			if data, err = svgOnce(); err == nil {
				data, err = render.ToPNG(ctx, data, opts.Scale)
			}
		case FormatJSON:
			var buf bytes.Buffer
			err = fio.WriteJSON(&buf, result.Visualization)
			data = buf.Bytes()
		default:
			return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
