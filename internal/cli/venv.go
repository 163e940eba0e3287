package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/devinventory/pkg/venv"
)

// venvCommand creates the venv management command.
func (c *CLI) venvCommand() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "venv",
		Short: "Manage Python virtual environments",
	}
	cmd.PersistentFlags().StringVar(&root, "root", "", "environment directory (default from config, venvs)")

	manager := func() *venv.Manager {
		r := c.cfg.Venv.Root
		if root != "" {
			r = root
		}
		return venv.NewManager(r, c.cfg.Venv.Python, c.exec())
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List environments and their interpreter versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := manager()
			envs, err := m.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(envs) == 0 {
				printInfo("No environments in %s", m.Root)
				return nil
			}
			rows := make([][]string, len(envs))
			for i, e := range envs {
				rows[i] = []string{e.Name, e.Version, e.Status, e.Path}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Name", "Python", "Status", "Path"}, rows, venvStyle(envs)))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "create NAME",
		Short: "Create an environment with python -m venv",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spin := newSpinnerWithContext(cmd.Context(), fmt.Sprintf("Creating %s...", args[0]))
			spin.Start()
			env, err := manager().Create(cmd.Context(), args[0])
			spin.Stop()
			if err != nil {
				return err
			}
			printSuccess("Created %s", env.Name)
			printKeyValue("Python", env.Version)
			printFile(env.Path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove NAME",
		Short: "Delete an environment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := manager().Remove(args[0]); err != nil {
				return err
			}
			printSuccess("Removed %s", args[0])
			return nil
		},
	})

	return cmd
}

func venvStyle(envs []venv.Env) func(row, col int) lipgloss.Style {
	return func(row, col int) lipgloss.Style {
		base := lipgloss.NewStyle()
		if col != 2 || row < 0 || row >= len(envs) {
			return base
		}
		if envs[row].Status == venv.StatusOK {
			return base.Foreground(colorGreen)
		}
		return base.Foreground(colorRed)
	}
}
