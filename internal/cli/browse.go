package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowsheet/pkg/pipeline"
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		flags   solverFlags
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "browse [file]",
		Short: "Explore solved streams interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), args[0], flags, noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, path string, flags solverFlags, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	def, err := runner.LoadFile(ctx, path)
	if err != nil {
		return err
	}
	res, err := runner.Execute(ctx, pipeline.Options{Definition: def, Solver: flags.options()})
	if err != nil {
		c.printValidation(res)
		return err
	}

	model := NewStreamListModel(def.Name, res.Process, streamOrder(def, res.Process))
	_, err = tea.NewProgram(model, tea.WithContext(ctx), tea.WithOutput(c.out.w)).Run()
	return err
}
