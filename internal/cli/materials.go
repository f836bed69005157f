package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	fio "github.com/matzehuels/flowsheet/pkg/io"
	"github.com/matzehuels/flowsheet/pkg/material"
)

// materialsCommand creates the materials command.
func (c *CLI) materialsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "materials",
		Short: "List the built-in material presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := material.Defaults()
			if asJSON {
				return fio.WriteJSON(c.out.w, presets)
			}
			c.out.line(materialTable(presets))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print presets as JSON")
	return cmd
}

func materialTable(ms []material.Material) string {
	t := newTable("Material", "MW g/mol", "ρ kg/m³", "μ mPa·s", "Cp J/(kg·K)", "Tc K", "Pc bar")
	for _, m := range ms {
		t.Row(m.Name,
			fmt.Sprintf("%.3f", m.MolecularWeight),
			fmt.Sprintf("%.1f", m.Density),
			fmt.Sprintf("%.3f", m.Viscosity*1000),
			fmt.Sprintf("%.0f", m.HeatCapacity),
			fmt.Sprintf("%.1f", m.CriticalTemperature),
			fmt.Sprintf("%.2f", m.CriticalPressure/1e5))
	}
	return t.Render()
}
