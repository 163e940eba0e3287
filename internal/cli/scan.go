package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/devinventory/pkg/scan"
)

// scanCommand creates the scan command.
func (c *CLI) scanCommand() *cobra.Command {
	var (
		writeReport bool
		outputDir   string
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Check every installed package for pip diagnostics",
		Long: `Scan runs "pip show" for each installed package and reports packages whose
output contains WARNING or ERROR. Press Ctrl+C to stop after the package
currently being checked.`,
		Example: `  devinventory scan
  devinventory scan --report -o results`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c.applyOutputFlags("", outputDir, "")

			runner, err := c.newRunner(ctx, true)
			if err != nil {
				return err
			}
			defer runner.Close()

			events, total, err := runner.Scan(ctx)
			if err != nil {
				return err
			}
			loggerFromContext(ctx).Debug("scan started", "packages", total)

			collected := drainScan(cmd.OutOrStdout(), events)

			if writeReport {
				// The report is written even when the scan was interrupted.
				path, err := runner.WriteScanReport(context.WithoutCancel(ctx), collected, time.Now())
				if err != nil {
					return err
				}
				printFile(path)
			}

			findings := scan.Findings(collected)
			if len(findings) == 0 {
				printSuccess("No problems found")
			} else {
				printWarning("%d package(s) reported problems", len(findings))
			}
			return ctx.Err()
		},
	}

	cmd.Flags().BoolVar(&writeReport, "report", false, "write security_check_<timestamp>.txt")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "report directory (default from config, results)")
	return cmd
}

// drainScan prints events as they arrive and returns all of them. It is the
// only writer to w.
func drainScan(w io.Writer, events <-chan scan.Event) []scan.Event {
	var all []scan.Event
	for e := range events {
		all = append(all, e)
		switch e.Kind {
		case scan.EventProgress:
			fmt.Fprintln(w, StyleDim.Render(e.Line()))
		case scan.EventFinding:
			fmt.Fprintln(w, StyleWarning.Render(e.Line()))
		case scan.EventFailure:
			fmt.Fprintln(w, StyleError.Render(e.Line()))
		default:
			fmt.Fprintln(w, e.Line())
		}
	}
	return all
}
