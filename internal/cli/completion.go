package cli

import (
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsonscope/pkg/export"
	"github.com/matzehuels/jsonscope/pkg/pipeline"
)

var completionScripts = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash":       func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	"zsh":        func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	"fish":       func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	"powershell": func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
}

func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion <shell>",
		Short: "Generate shell completion scripts",
		Long: `Print a completion script for bash, zsh, fish or powershell.

  source <(jsonscope completion bash)
  jsonscope completion zsh > "${fpath[1]}/_jsonscope"
  jsonscope completion fish > ~/.config/fish/completions/jsonscope.fish
  jsonscope completion powershell | Out-String | Invoke-Expression

Completions cover commands, flags, --format values and JSON input files.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             slices.Sorted(maps.Keys(completionScripts)),
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return completionScripts[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}
}

// completeJSONFiles offers *.json files for the positional argument at index
// pos. Other positions get no suggestions.
func completeJSONFiles(pos int) cobra.CompletionFunc {
	return func(_ *cobra.Command, args []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
		if len(args) != pos {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return []cobra.Completion{"json"}, cobra.ShellCompDirectiveFilterFileExt
	}
}

// completeViewFormats completes a comma-separated --format list with the
// formats the renderer knows, skipping ones already given.
func completeViewFormats(_ *cobra.Command, _ []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
	done, partial := "", toComplete
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		done, partial = toComplete[:i+1], toComplete[i+1:]
	}
	var given []string
	if done != "" {
		given = parseFormats(done)
	}

	var out []cobra.Completion
	for _, f := range slices.Sorted(maps.Keys(pipeline.ValidFormats)) {
		if strings.HasPrefix(f, partial) && !slices.Contains(given, f) {
			out = append(out, done+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

func completeExportFormats(_ *cobra.Command, _ []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
	return export.Names(), cobra.ShellCompDirectiveNoFileComp
}
