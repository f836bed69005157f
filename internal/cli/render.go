package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowsheet/pkg/pipeline"
)

type renderOpts struct {
	solver   solverFlags
	output   string
	formats  string
	detailed bool
	scale    float64
	noCache  bool
	refresh  bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Draw a solved flowsheet",
		Long: `Solve a flowsheet and draw it as a node-link diagram.

Units become nodes and connections become edges labelled with their stream.
--detailed adds unit parameters and stream flow and temperature. PNG and
PDF output require rsvg-convert on PATH.`,
		Example: `  flowsheet render plant.toml
  flowsheet render plant.toml -f svg,png -o out/plant
  flowsheet render plant.toml -f dot --detailed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	opts.solver.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output path without extension (default: input name)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", pipeline.FormatSVG, "output formats: svg, png, pdf, dot, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show unit parameters and stream values")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, path string, opts renderOpts) error {
	formats := parseFormats(opts.formats)
	if err := pipeline.ValidateFormats(formats); err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	def, err := runner.LoadFile(ctx, path)
	if err != nil {
		return err
	}

	spin := newSpinner(ctx, c.errw, "Rendering "+def.Name+"...")
	spin.Start()
	defer spin.Stop()

	res, err := runner.Execute(ctx, pipeline.Options{
		Definition: def,
		Solver:     opts.solver.options(),
		Formats:    formats,
		Detailed:   opts.detailed,
		Scale:      opts.scale,
		Refresh:    opts.refresh,
	})
	if err != nil {
		spin.Stop()
		c.printValidation(res)
		return err
	}

	base := opts.output
	if base == "" {
		base = strings.TrimSuffix(path, filepath.Ext(path))
	}
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	spin.SetMessage("Writing files...")
	written := make([]string, 0, len(formats))
	for _, format := range formats {
		out := base + "." + format
		if err := os.WriteFile(out, res.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		written = append(written, out)
	}
	spin.Stop()
	if spin.Cancelled() {
		return ctx.Err()
	}

	c.out.success("Rendered %s", StyleTitle.Render(def.Name))
	for _, out := range written {
		c.out.file(out)
	}
	c.out.stats(res.Stats.UnitCount, res.Stats.StreamCount, res.CacheInfo.RenderHit)
	return nil
}
