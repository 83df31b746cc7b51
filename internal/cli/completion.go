package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for crate2nix.

To load completions:

Bash:
  $ source <(crate2nix completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ crate2nix completion bash > /etc/bash_completion.d/crate2nix
  # macOS:
  $ crate2nix completion bash > $(brew --prefix)/etc/bash_completion.d/crate2nix

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ crate2nix completion zsh > "${fpath[1]}/_crate2nix"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ crate2nix completion fish | source

  # To load completions for each session, execute once:
  $ crate2nix completion fish > ~/.config/fish/completions/crate2nix.fish

PowerShell:
  PS> crate2nix completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> crate2nix completion powershell > crate2nix.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}
