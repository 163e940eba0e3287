package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/devinventory/pkg/manifest"
	"github.com/matzehuels/devinventory/pkg/probe"
	"github.com/matzehuels/devinventory/pkg/report"
)

// listCommand creates the list command, which prints one table.
func (c *CLI) listCommand() *cobra.Command {
	var requirements string

	cmd := &cobra.Command{
		Use:       "list {languages|packages|frameworks|requirements}",
		Short:     "Print one inventory table",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"languages", "packages", "frameworks", "requirements"},
		Example: `  devinventory list languages
  devinventory list requirements -r requirements-dev.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := report.ParseCategory(args[0])
			if err != nil {
				return err
			}
			c.applyOutputFlags(requirements, "", "")

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, true)
			if err != nil {
				return err
			}
			defer runner.Close()

			tables, err := runner.Collect(ctx, report.Mode(cat.String()))
			if err != nil {
				return err
			}

			rows := report.Rows(cat, tables)
			if len(rows) == 0 {
				printInfo("No %s found", cat)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(report.Headers(cat), rows, cellStyle(cat, rows)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&requirements, "requirements", "r", "", "requirements file for the requirements table")
	return cmd
}

// cellStyle dims missing versions and colors the Matches column.
func cellStyle(cat report.Category, rows [][]string) func(row, col int) lipgloss.Style {
	return func(row, col int) lipgloss.Style {
		base := lipgloss.NewStyle()
		if row < 0 || row >= len(rows) || col >= len(rows[row]) {
			return base
		}
		v := rows[row][col]
		switch {
		case v == probe.NotFound || v == manifest.NotInstalled:
			return base.Foreground(colorDim)
		case cat == report.Requirements && col == 3 && v == "true":
			return base.Foreground(colorGreen)
		case cat == report.Requirements && col == 3:
			return base.Foreground(colorRed)
		}
		return base
	}
}
