package cli

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	fio "github.com/matzehuels/flowsheet/pkg/io"
	"github.com/matzehuels/flowsheet/pkg/pipeline"
	"github.com/matzehuels/flowsheet/pkg/solver"
)

type solveOpts struct {
	solver  solverFlags
	output  string
	json    bool
	noCache bool
	refresh bool
	strict  bool
}

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	var opts solveOpts

	cmd := &cobra.Command{
		Use:   "solve [file]",
		Short: "Solve a flowsheet definition",
		Long: `Solve a flowsheet definition (TOML or JSON) and print the streams and units.

The solve result is cached by definition content and solver options; use
--refresh to recompute or --no-cache to bypass the cache entirely.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSolve(cmd.Context(), args[0], opts)
		},
	}

	opts.solver.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the full JSON result to this file")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the JSON result to stdout instead of tables")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "refuse to solve when validation reports errors")

	return cmd
}

func (c *CLI) runSolve(ctx context.Context, path string, opts solveOpts) error {
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	def, err := runner.LoadFile(ctx, path)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	res, err := runner.Execute(ctx, pipeline.Options{
		Definition: def,
		Solver:     opts.solver.options(),
		Refresh:    opts.refresh,
		Strict:     opts.strict,
	})
	if err != nil {
		c.printValidation(res)
		return err
	}
	prog.done(fmt.Sprintf("Solved %s", def.Name))

	if opts.output != "" || opts.json {
		data, err := pipeline.EncodeResult(res)
		if err != nil {
			return err
		}
		if opts.output != "" {
			if err := os.WriteFile(opts.output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", opts.output, err)
			}
		}
		if opts.json {
			_, err := c.out.w.Write(data)
			return err
		}
	}

	c.printResult(def, res)
	if opts.output != "" {
		c.out.file(opts.output)
	}
	return nil
}

// printResult prints the solve outcome with stream and unit tables.
func (c *CLI) printResult(def *fio.Definition, res *pipeline.Result) {
	p := c.out
	proc := res.Process
	if proc.Converged {
		p.success("%s converged in %d iterations", StyleTitle.Render(def.Name), proc.Iterations)
	} else {
		p.warning("%s did not converge after %d iterations (max residual %.3g kg/s)", def.Name, proc.Iterations, proc.MaxResidual())
	}
	p.stats(res.Stats.UnitCount, res.Stats.StreamCount, res.CacheInfo.SolveHit)
	p.keyValue("Max residual", fmt.Sprintf("%.3g kg/s", proc.MaxResidual()))
	p.newline()

	p.line(streamTable(proc, streamOrder(def, proc)))
	if len(proc.Order) > 0 {
		p.line(unitTable(proc))
	}

	for _, w := range proc.Warnings {
		p.warning("%s", w)
	}
	for _, e := range proc.Errors {
		p.error("%s", e)
	}
	c.printValidation(res)
}

// printValidation lists the validation findings of a run.
func (c *CLI) printValidation(res *pipeline.Result) {
	if res == nil || res.Validation.Valid {
		return
	}
	for _, e := range res.Validation.Errors {
		c.out.warning("validation: %s", e)
	}
	for _, w := range res.Validation.Warnings {
		c.out.warning("validation: %s", w)
	}
}

// streamOrder lists defined streams first, then connection streams, then any
// remaining solved streams sorted by id.
func streamOrder(def *fio.Definition, res *solver.Result) []string {
	seen := make(map[string]bool)
	var order []string
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			order = append(order, id)
		}
	}
	for _, s := range def.Streams {
		add(s.ID)
	}
	for _, conn := range def.Connections {
		add(conn.Stream)
	}
	rest := make([]string, 0, len(res.Streams))
	for id := range res.Streams {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	for _, id := range rest {
		add(id)
	}
	return order
}
