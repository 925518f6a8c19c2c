package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsonscope/pkg/diff"
	"github.com/matzehuels/jsonscope/pkg/mutate"
	"github.com/matzehuels/jsonscope/pkg/value"
)

// divergence is the --json output of the diff command.
type divergence struct {
	Changed bool         `json:"changed"`
	Focus   string       `json:"focus,omitempty"`
	Path    value.Path   `json:"path,omitempty"`
	Before  *value.Value `json:"before,omitempty"`
	After   *value.Value `json:"after,omitempty"`
}

// diffCommand creates the diff command, which reports where a document
// first changed.
func (c *CLI) diffCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "diff <old> <new>",
		Short: "Print the first location where two documents differ",
		Long: `Compare two versions of a document and print the path of the first
difference, the node an explorer would focus after the change. Prints
nothing when the documents are equal. Use "-" for stdin.`,
		Example: `  jsonscope diff old.json new.json
  curl -s api/users | jsonscope diff users.json - --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDiff(cmd, args[0], args[1], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON with the values on both sides")
	return cmd
}

func (c *CLI) runDiff(cmd *cobra.Command, oldPath, newPath string, asJSON bool) error {
	prev, _, err := readDocument(cmd, oldPath)
	if err != nil {
		return err
	}
	next, _, err := readDocument(cmd, newPath)
	if err != nil {
		return err
	}

	path, changed := diff.FirstDivergence(&prev, next)
	c.Logger.Debug("compared documents", "old", oldPath, "new", newPath, "changed", changed)

	out := cmd.OutOrStdout()
	if !asJSON {
		if changed {
			fmt.Fprintln(out, path.String())
		}
		return nil
	}

	res := divergence{Changed: changed}
	if changed {
		res.Focus = path.String()
		res.Path = path
		if v, ok := mutate.Lookup(prev, path); ok {
			res.Before = &v
		}
		if v, ok := mutate.Lookup(next, path); ok {
			res.After = &v
		}
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
