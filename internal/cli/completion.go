package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell
// completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for roadweave.

Bash:
  $ source <(roadweave completion bash)
  $ roadweave completion bash > /etc/bash_completion.d/roadweave

Zsh:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc
  $ roadweave completion zsh > "${fpath[1]}/_roadweave"

Fish:
  $ roadweave completion fish > ~/.config/fish/completions/roadweave.fish

PowerShell:
  PS> roadweave completion powershell | Out-String | Invoke-Expression

Strategy names after "generate" and "pick" complete as well.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
