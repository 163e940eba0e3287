package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/devinventory/pkg/monitor"
)

// monitorFlags holds the flag values for the monitor command.
type monitorFlags struct {
	interval  time.Duration
	points    int
	csv       string
	saveCSV   bool
	headless  bool
	count     int
	outputDir string
}

// monitorCommand creates the monitor command.
func (c *CLI) monitorCommand() *cobra.Command {
	var flags monitorFlags

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Watch CPU, memory and disk usage",
		Long: `Monitor samples CPU, memory and disk utilisation once per interval and
draws the last samples live. With --headless it prints one line per sample
instead. The most recent samples can be saved as CSV when the monitor stops.`,
		Example: `  devinventory monitor
  devinventory monitor --interval 500ms --points 60 --save-csv
  devinventory monitor --headless --count 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runMonitor(cmd, flags)
		},
	}

	cmd.Flags().DurationVar(&flags.interval, "interval", 0, "sampling interval (default from config, 1s)")
	cmd.Flags().IntVar(&flags.points, "points", 0, "samples kept in the rolling window (default from config, 30)")
	cmd.Flags().StringVar(&flags.csv, "csv", "", "save the window to this CSV file name in the output directory")
	cmd.Flags().BoolVar(&flags.saveCSV, "save-csv", false, "save the window as performance_monitor_<timestamp>.csv")
	cmd.Flags().BoolVar(&flags.headless, "headless", false, "print samples instead of drawing the live view")
	cmd.Flags().IntVarP(&flags.count, "count", "n", 0, "stop after this many samples (0 runs until interrupted)")
	cmd.Flags().StringVarP(&flags.outputDir, "output-dir", "o", "", "CSV directory (default from config, results)")

	return cmd
}

func (c *CLI) runMonitor(cmd *cobra.Command, flags monitorFlags) error {
	ctx := cmd.Context()
	c.applyOutputFlags("", flags.outputDir, "")

	interval := c.cfg.Monitor.Interval.Std()
	if flags.interval > 0 {
		interval = flags.interval
	}
	points := c.cfg.Monitor.Points
	if flags.points > 0 {
		points = flags.points
	}

	session := monitor.NewSession(monitor.SystemSource{DiskPath: c.cfg.Monitor.DiskPath}, interval)
	session.Buffer = monitor.NewBuffer(points)
	session.Limit = flags.count
	session.Logger = c.Logger

	samples, err := session.Run(ctx)
	if err != nil {
		return err
	}
	defer session.Stop()

	if flags.headless {
		printSamples(cmd.OutOrStdout(), samples)
	} else {
		p := tea.NewProgram(NewMonitorModel(session, samples, points), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil && ctx.Err() == nil {
			return fmt.Errorf("monitor view: %w", err)
		}
	}
	session.Stop()
	session.Wait()

	if flags.csv != "" || flags.saveCSV {
		runner, err := c.newRunner(ctx, true)
		if err != nil {
			return err
		}
		defer runner.Close()

		path, err := runner.WriteMonitorCSV(context.WithoutCancel(ctx), session.Buffer.Snapshot(), flags.csv, time.Now())
		if err != nil {
			return err
		}
		printSuccess("Saved %d samples", session.Buffer.Len())
		printFile(path)
	}
	return ctx.Err()
}

// printSamples writes one line per sample until the channel closes.
func printSamples(w io.Writer, samples <-chan monitor.Sample) {
	for s := range samples {
		fmt.Fprintln(w, formatSample(s))
	}
}

func formatSample(s monitor.Sample) string {
	return fmt.Sprintf("%s  cpu %5.1f%%  mem %5.1f%%  disk %5.1f%%",
		s.Time.Format("15:04:05"), s.CPU, s.Memory, s.Disk)
}
