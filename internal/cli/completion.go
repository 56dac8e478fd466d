package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for simasm.

To load completions:

Bash:
  $ source <(simasm completion bash)

Zsh:
  $ simasm completion zsh > "${fpath[1]}/_simasm"

Fish:
  $ simasm completion fish | source

PowerShell:
  PS> simasm completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
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

	return cmd
}

// asmFiles limits file completion to assembly sources.
func asmFiles(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{"asm", "s", "simasm"}, cobra.ShellCompDirectiveFilterFileExt
}
