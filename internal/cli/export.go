package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	fio "github.com/matzehuels/flowsheet/pkg/io"
	"github.com/matzehuels/flowsheet/pkg/pipeline"
)

type exportOpts struct {
	solver solverFlags
	output string
	format string
	solved bool
}

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var opts exportOpts

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Convert a flowsheet definition between TOML and JSON",
		Long: `Export a flowsheet definition in another format.

The output format follows the --output extension unless --format is given.
With --solved the flowsheet is solved first and the exported streams carry
the converged values.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), args[0], opts)
		},
	}

	opts.solver.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: toml, json")
	cmd.Flags().BoolVar(&opts.solved, "solved", false, "solve first and export converged streams")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, path string, opts exportOpts) error {
	format, err := exportFormat(opts)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(true)
	if err != nil {
		return err
	}
	defer runner.Close()

	def, err := runner.LoadFile(ctx, path)
	if err != nil {
		return err
	}

	if opts.solved {
		eng, err := runner.Build(def)
		if err != nil {
			return err
		}
		o := pipeline.Options{Definition: def, Solver: opts.solver.options()}
		if err := o.ValidateAndSetDefaults(); err != nil {
			return err
		}
		if _, err := eng.Solve(ctx, o.Solver); err != nil {
			return err
		}
		solved := fio.FromEngine(eng)
		solved.Solver = def.Solver
		solved.Description = def.Description
		def = solved
	}

	if opts.output == "" {
		return fio.Write(c.out.w, def, format)
	}

	f, err := os.Create(opts.output)
	if err != nil {
		return fmt.Errorf("create %s: %w", opts.output, err)
	}
	defer f.Close()
	if err := fio.Write(f, def, format); err != nil {
		return err
	}
	c.out.success("Exported %s", StyleTitle.Render(def.Name))
	c.out.file(opts.output)
	return nil
}

func exportFormat(opts exportOpts) (fio.Format, error) {
	switch {
	case opts.format != "":
		return fio.ParseFormat(opts.format)
	case opts.output != "":
		return fio.FormatFromPath(opts.output)
	default:
		return fio.FormatJSON, nil
	}
}
