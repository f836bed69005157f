package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowsheet/pkg/errors"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a flowsheet definition without solving it",
		Long: `Validate a flowsheet definition.

Document-level problems (duplicate ids, unknown units, bad fractions) are
reported first; a definition that builds is then checked for structural
problems such as unconnected or under-fed units.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runValidate(ctx context.Context, path string) error {
	runner, err := c.newRunner(true)
	if err != nil {
		return err
	}
	defer runner.Close()

	def, err := runner.LoadFile(ctx, path)
	if err != nil {
		return err
	}
	eng, err := runner.Build(def)
	if err != nil {
		return err
	}

	report := eng.ValidateFlowsheet()
	for _, e := range report.Errors {
		c.out.error("%s", e)
	}
	for _, w := range report.Warnings {
		c.out.warning("%s", w)
	}
	if !report.Valid {
		return errors.New(errors.ErrCodeInvalidInput, "%s: %d validation errors", path, len(report.Errors))
	}

	c.out.success("%s is valid", StyleTitle.Render(def.Name))
	c.out.detail("%d units · %d streams · %d connections", len(def.Units), len(def.Streams), len(def.Connections))
	c.out.nextStep("Solve it", fmt.Sprintf("%s solve %s", appName, path))
	return nil
}
