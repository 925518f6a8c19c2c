package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/jsonscope/pkg/errors"
	"github.com/matzehuels/jsonscope/pkg/mutate"
	"github.com/matzehuels/jsonscope/pkg/value"
)

// editCommand creates the edit command, which replaces one value by path.
func (c *CLI) editCommand() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "edit <path> <value> [file]",
		Short: "Replace the value at a path",
		Long: `Replace the value at a dotted path such as root.users.0.name and print the
document with two-space indentation.

The new value is parsed as JSON; text that does not parse is stored as a
string, so 42, true and {"a":1} keep their types while hello becomes
"hello". Array elements are addressed by index, and an index equal to the
array length appends. A path that does not resolve is an error.`,
		Example: `  jsonscope edit root.users.0.id 2 users.json
  jsonscope edit root.name 'Ada Lovelace' -w users.json`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 3 {
				input = args[2]
			}
			return c.runEdit(cmd, args[0], args[1], input, write)
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to the file")
	cmd.ValidArgsFunction = completeJSONFiles(2)
	return cmd
}

func (c *CLI) runEdit(cmd *cobra.Command, rawPath, raw, input string, write bool) error {
	if err := errs.ValidateEditPath(rawPath); err != nil {
		return err
	}
	if write && (input == "" || input == stdinPath) {
		return errs.New(errs.ErrCodeInvalidInput, "--write needs a file argument")
	}

	text, err := readInput(cmd, input)
	if err != nil {
		return err
	}
	path := value.ParsePath(rawPath)
	out, applied, err := mutate.Edit(text, path, raw)
	if err != nil {
		return fmt.Errorf("%s: %w", displayName(input), err)
	}
	if !applied {
		return errs.New(errs.ErrCodeNotFound, "%s does not address a value in %s", rawPath, displayName(input))
	}
	c.Logger.Debug("edited document", "path", path.String(), "value", mutate.Literal(raw).String())

	if !write {
		return writeOutput(cmd, "", []byte(out+"\n"))
	}
	if err := replaceFile(input, []byte(out+"\n")); err != nil {
		return err
	}
	st := statusFor(cmd)
	st.success("Set %s", path.String())
	st.file(input)
	return nil
}
