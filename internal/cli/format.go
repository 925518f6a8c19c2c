package cli

import (
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/jsonscope/pkg/errors"
	"github.com/matzehuels/jsonscope/pkg/value"
)

// formatCommand creates the format command, which pretty-prints documents
// with two-space indentation.
func (c *CLI) formatCommand() *cobra.Command {
	var write, check bool

	cmd := &cobra.Command{
		Use:   "format [file]",
		Short: "Pretty-print a document with two-space indentation",
		Long: `Re-serialize a document with two-space indentation, keeping key order.
Invalid documents are reported and left untouched. Reads stdin when no file
is given.`,
		Example: `  jsonscope format data.json
  jsonscope format -w data.json
  jsonscope format --check data.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			return c.runFormat(cmd, input, write, check)
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to the file")
	cmd.Flags().BoolVar(&check, "check", false, "exit with an error when the file is not formatted")
	cmd.ValidArgsFunction = completeJSONFiles(0)
	return cmd
}

func (c *CLI) runFormat(cmd *cobra.Command, input string, write, check bool) error {
	if write && (input == "" || input == stdinPath) {
		return errs.New(errs.ErrCodeInvalidInput, "--write needs a file argument")
	}

	doc, text, err := readDocument(cmd, input)
	if err != nil {
		return err
	}
	pretty := value.Pretty(doc) + "\n"
	formatted := strings.TrimRight(text, "\n") == strings.TrimRight(pretty, "\n")

	switch {
	case check:
		if !formatted {
			return errs.New(errs.ErrCodeInvalidFormat, "%s is not formatted", displayName(input))
		}
		return nil
	case !write:
		return writeOutput(cmd, "", []byte(pretty))
	case formatted:
		statusFor(cmd).info("%s is already formatted", input)
		return nil
	}

	if err := replaceFile(input, []byte(pretty)); err != nil {
		return err
	}
	c.Logger.Debug("formatted document", "file", input, "bytes", len(pretty))
	statusFor(cmd).success("Formatted %s", input)
	return nil
}
