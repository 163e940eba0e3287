package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/devinventory/pkg/report"
)

// collectFlags holds the flag values for the collect command.
type collectFlags struct {
	mode         string
	requirements string
	outputDir    string
	workbook     string
}

// collectCommand creates the collect command, which writes spreadsheets.
func (c *CLI) collectCommand() *cobra.Command {
	var flags collectFlags

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Collect the inventory and write spreadsheets",
		Long: `Collect probes the machine for the selected mode and writes one spreadsheet
per category into the output directory.

Modes:
  all           every category below
  languages     language runtimes (Python, Node.js, Go, ...)
  frameworks    front-end framework CLIs (Vue.js, React.js, Angular, ...)
  packages      packages reported by "pip list"
  requirements  requirements.txt reconciled against installed packages`,
		Example: `  devinventory collect
  devinventory collect --mode requirements --requirements dev-requirements.txt
  devinventory collect --workbook inventory.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCollect(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.mode, "mode", "m", string(report.ModeAll), "what to collect: all, languages, packages, frameworks, requirements")
	cmd.Flags().StringVarP(&flags.requirements, "requirements", "r", "", "requirements file (default from config, requirements.txt)")
	cmd.Flags().StringVarP(&flags.outputDir, "output-dir", "o", "", "output directory (default from config, results)")
	cmd.Flags().StringVar(&flags.workbook, "workbook", "", "write all sheets into this single workbook")

	return cmd
}

func (c *CLI) runCollect(cmd *cobra.Command, flags collectFlags) error {
	ctx := cmd.Context()

	mode, err := report.ParseMode(flags.mode)
	if err != nil {
		return err
	}
	c.applyOutputFlags(flags.requirements, flags.outputDir, flags.workbook)

	runner, err := c.newRunner(ctx, true)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	spin := newSpinnerWithContext(ctx, fmt.Sprintf("Collecting %s...", mode))
	spin.Start()
	tables, err := runner.Collect(ctx, mode)
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Collected %s", mode))

	paths, err := runner.Export(ctx, mode, tables)
	if err != nil {
		return err
	}

	printSuccess("Exported %s", mode)
	for _, p := range paths {
		printFile(p)
	}
	printCollectStats(mode, tables)
	return nil
}

// applyOutputFlags overrides config values with non-empty flag values.
func (c *CLI) applyOutputFlags(requirements, outputDir, workbook string) {
	if requirements != "" {
		c.cfg.Requirements = requirements
	}
	if outputDir != "" {
		c.cfg.OutputDir = outputDir
	}
	if workbook != "" {
		c.cfg.Workbook = workbook
	}
}

func printCollectStats(mode report.Mode, t report.Tables) {
	var parts []string
	for _, cat := range mode.Categories() {
		parts = append(parts, fmt.Sprintf("%d %s", len(report.Rows(cat, t)), cat))
	}
	printStats(parts...)
}
