package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/devinventory/pkg/report"
)

// exportCommand creates the export command for structured documents.
func (c *CLI) exportCommand() *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:       "export {json|yaml}",
		Short:     "Export packages, languages and frameworks as JSON or YAML",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"json", "yaml"},
		Example: `  devinventory export json
  devinventory export yaml -o /tmp/inventory`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := report.ParseDocFormat(args[0])
			if err != nil {
				return err
			}
			c.applyOutputFlags("", outputDir, "")

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, true)
			if err != nil {
				return err
			}
			defer runner.Close()

			spin := newSpinnerWithContext(ctx, "Collecting inventory...")
			spin.Start()
			path, err := runner.ExportDocument(ctx, format)
			spin.Stop()
			if err != nil {
				return err
			}

			printSuccess("Exported %s", format)
			printFile(path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "output directory (default from config, results)")
	return cmd
}
