// Package completion provides shell completion generation commands.
package completion

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCommand returns the completion command.
func NewCommand(rootCmd *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completions",
		Long: `Generate shell completion scripts for chartkit.

Install instructions:
  Bash:       chartkit completion bash > /etc/bash_completion.d/chartkit
              echo 'source <(chartkit completion bash)' >> ~/.bashrc
  Zsh:        chartkit completion zsh > ~/.zsh/completions/_chartkit
  Fish:       chartkit completion fish > ~/.config/fish/completions/chartkit.fish
  PowerShell: chartkit completion powershell >> $PROFILE`,
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Args:      cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				fmt.Fprintln(out, "# chartkit bash completion")
				fmt.Fprintln(out, "# Install: chartkit completion bash > /etc/bash_completion.d/chartkit")
				fmt.Fprintln(out, "# Or:      echo 'source <(chartkit completion bash)' >> ~/.bashrc")
				fmt.Fprintln(out)
				return rootCmd.GenBashCompletion(out)
			case "zsh":
				fmt.Fprintln(out, "# chartkit zsh completion")
				fmt.Fprintln(out, "# Install: chartkit completion zsh > ~/.zsh/completions/_chartkit")
				fmt.Fprintln(out)
				return rootCmd.GenZshCompletion(out)
			case "fish":
				fmt.Fprintln(out, "# chartkit fish completion")
				fmt.Fprintln(out, "# Install: chartkit completion fish > ~/.config/fish/completions/chartkit.fish")
				fmt.Fprintln(out)
				return rootCmd.GenFishCompletion(out, true)
			case "powershell":
				fmt.Fprintln(out, "# chartkit PowerShell completion")
				fmt.Fprintln(out, "# Install: chartkit completion powershell >> $PROFILE")
				fmt.Fprintln(out)
				return rootCmd.GenPowerShellCompletionWithDesc(out)
			default:
				return fmt.Errorf("unsupported shell: %s (supported: bash, zsh, fish, powershell)", args[0])
			}
		},
	}
	return cmd
}
