package cli

import (
	"github.com/spf13/cobra"
)

// completionShells maps each supported shell to its generator.
var completionShells = map[string]func(cmd *cobra.Command) error{
	"bash": func(cmd *cobra.Command) error {
		return cmd.Root().GenBashCompletionV2(cmd.OutOrStdout(), true)
	},
	"zsh": func(cmd *cobra.Command) error {
		return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
	},
	"fish": func(cmd *cobra.Command) error {
		return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
	},
	"powershell": func(cmd *cobra.Command) error {
		return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
	},
}

// completionCommand creates the completion command.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion {bash|zsh|fish|powershell}",
		Short: "Generate shell completion scripts",
		Long: `Print a completion script for the given shell.

  bash        source <(devinventory completion bash)
  zsh         devinventory completion zsh > "${fpath[1]}/_devinventory"
  fish        devinventory completion fish > ~/.config/fish/completions/devinventory.fish
  powershell  devinventory completion powershell | Out-String | Invoke-Expression

Start a new shell afterwards for the completions to load.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return completionShells[args[0]](cmd)
		},
	}
}
