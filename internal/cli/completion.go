package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ehelvetica/webcollage/pkg/compositor"
	"github.com/ehelvetica/webcollage/pkg/layout"
)

// completionCommand prints a shell completion script for webcollage.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for webcollage.

Besides the commands and flags, the scripts complete --catalog with .json and
.json.gz files, --config with .toml run files, the screenshot and image
arguments of montage with directories and --compositor with the backends.

Bash:
  $ source <(webcollage completion bash)

Zsh:
  $ webcollage completion zsh > "${fpath[1]}/_webcollage"

Fish:
  $ webcollage completion fish > ~/.config/fish/completions/webcollage.fish

PowerShell:
  PS> webcollage completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(w, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}

	return cmd
}

// registerCatalogCompletion completes --catalog with catalog files.
func registerCatalogCompletion(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("catalog", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"json", "gz"}, cobra.ShellCompDirectiveFilterFileExt
	})
}

// registerMontageCompletion completes the montage arguments and the flags
// whose values come from a fixed set.
func registerMontageCompletion(cmd *cobra.Command) {
	registerCatalogCompletion(cmd)
	cmd.ValidArgsFunction = func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		if len(args) >= 2 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveFilterDirs
	}
	_ = cmd.RegisterFlagCompletionFunc("config", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"toml"}, cobra.ShellCompDirectiveFilterFileExt
	})
	_ = cmd.RegisterFlagCompletionFunc("data-out", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveFilterDirs
	})
	_ = cmd.RegisterFlagCompletionFunc("compositor", func(_ *cobra.Command, _ []string, prefix string) ([]string, cobra.ShellCompDirective) {
		var names []string
		for name := range compositor.ValidBackends {
			if strings.HasPrefix(name, prefix) {
				names = append(names, name)
			}
		}
		slices.Sort(names)
		return names, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("resolution", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{fmt.Sprintf("%dx%d", layout.DefaultTileWidth, layout.DefaultTileHeight)}, cobra.ShellCompDirectiveNoFileComp
	})
}
