package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/jsonscope/pkg/errors"
	"github.com/matzehuels/jsonscope/pkg/graph"
	"github.com/matzehuels/jsonscope/pkg/match"
)

// maxValueWidth truncates long values in the results table.
const maxValueWidth = 48

// searchCommand creates the search command, which lists the nodes a query
// matches.
func (c *CLI) searchCommand() *cobra.Command {
	var idsOnly bool

	cmd := &cobra.Command{
		Use:   "search <query> [file]",
		Short: "List the nodes whose key or value contains a query",
		Long: `Search a document the way the explorer highlights it: a node matches when
its label or its display value contains the query, ignoring case and
surrounding whitespace. Reads stdin when no file is given.`,
		Example: `  jsonscope search email users.json
  jsonscope search --ids admin config.json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 2 {
				input = args[1]
			}
			return c.runSearch(cmd, args[0], input, idsOnly)
		},
	}

	cmd.Flags().BoolVar(&idsOnly, "ids", false, "print only the matching node IDs, one per line")
	cmd.ValidArgsFunction = completeJSONFiles(1)
	return cmd
}

func (c *CLI) runSearch(cmd *cobra.Command, query, input string, idsOnly bool) error {
	if err := errs.ValidateQuery(query); err != nil {
		return err
	}
	if !match.Active(query) {
		return errs.New(errs.ErrCodeInvalidQuery, "query is blank")
	}
	doc, _, err := readDocument(cmd, input)
	if err != nil {
		return err
	}

	g := graph.Build(doc)
	set := match.Match(g.Nodes, query)
	c.Logger.Debug("searched document", "query", query, "nodes", len(g.Nodes), "matches", set.Len())

	var hits []graph.Node
	for _, n := range g.Nodes {
		if set.Has(n.ID) {
			hits = append(hits, n)
		}
	}

	out := cmd.OutOrStdout()
	if idsOnly {
		for _, n := range hits {
			fmt.Fprintln(out, n.ID)
		}
		return nil
	}
	if len(hits) == 0 {
		fmt.Fprintln(out, StyleDim.Render(fmt.Sprintf("No nodes match %q", query)))
		return nil
	}
	writeMatchTable(out, hits)
	fmt.Fprintln(out, StyleDim.Render(fmt.Sprintf("%s of %d match %q", plural(len(hits), "node"), len(g.Nodes), query)))
	return nil
}

// writeMatchTable prints the matching nodes with their kind and value.
func writeMatchTable(w io.Writer, nodes []graph.Node) {
	rows := make([][]string, len(nodes))
	for i, n := range nodes {
		rows[i] = []string{n.ID, string(n.Kind), truncate(n.DisplayValue, maxValueWidth)}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Path", "Kind", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row >= len(nodes) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			switch col {
			case 0:
				return base.Foreground(colorCyan)
			case 1:
				return base.Inherit(kindStyle(nodes[row].Color))
			}
			return base.Foreground(colorWhite)
		})
	fmt.Fprintln(w, t.Render())
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
