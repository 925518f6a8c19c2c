package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsonscope/pkg/export"
)

// exportCommand creates the export command, a thin wrapper over the export
// registry shared with the HTTP server.
func (c *CLI) exportCommand() *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export a document as JSON, its node graph, or DOT",
		Long: fmt.Sprintf(`Export a document in one of the registered formats: %s.

json re-serializes the document with two-space indentation, graph writes
the node/edge graph without positions, and dot writes Graphviz source for
the laid out view. Reads stdin when no file is given.`, strings.Join(export.Names(), ", ")),
		Example: `  jsonscope export -f graph data.json
  jsonscope export -f dot data.json -o data.dot`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			exp, err := export.Lookup(format)
			if err != nil {
				return err
			}
			doc, _, err := readDocument(cmd, input)
			if err != nil {
				return err
			}

			if output == "" || output == stdinPath {
				return export.Write(cmd.Context(), exp, doc, cmd.OutOrStdout())
			}
			if err := export.WriteFile(cmd.Context(), exp, doc, output); err != nil {
				return err
			}
			c.Logger.Debug("exported document", "format", format, "file", output)
			st := statusFor(cmd)
			st.success("Exported %s", format)
			st.file(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "export format: "+strings.Join(export.Names(), ", "))
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout when empty)")
	cmd.ValidArgsFunction = completeJSONFiles(0)
	_ = cmd.RegisterFlagCompletionFunc("format", completeExportFormats)
	return cmd
}
