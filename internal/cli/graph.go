package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/jsonscope/pkg/errors"
	"github.com/matzehuels/jsonscope/pkg/pipeline"
	"github.com/matzehuels/jsonscope/pkg/value"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	output   string   // output file, or base path for several formats
	formats  []string // json, dot, svg, png, pdf
	query    string   // search highlighting
	previous string   // earlier version of the document, for the focus
	detailed bool     // add paths to rendered labels
	scale    float64  // PNG resolution factor
	noCache  bool
}

// graphCommand creates the graph command: one full pipeline run whose view
// is written as JSON or rendered.
func (c *CLI) graphCommand() *cobra.Command {
	var formatsStr string
	var opts graphOpts

	cmd := &cobra.Command{
		Use:   "graph [file]",
		Short: "Build, lay out and render the node graph of a document",
		Long: `Build the node graph of a JSON document and write its view.

The json format is the renderer-facing view: positioned nodes with focus and
search state plus the edges between them. dot, svg, png and pdf draw the
same view. Reads stdin when no file is given.

With --previous, the first location where the document differs from the
earlier version is marked as the focus.`,
		Example: `  jsonscope graph data.json
  jsonscope graph data.json -f svg -o data.svg -q email
  jsonscope graph new.json --previous old.json -f json,svg -o out`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			if err := errs.ValidateQuery(opts.query); err != nil {
				return err
			}
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			return c.runGraph(cmd, input, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple); stdout when empty")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), dot, svg, png, pdf (comma-separated)")
	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "highlight nodes whose key or value contains this text")
	cmd.Flags().StringVar(&opts.previous, "previous", "", "earlier version of the document; its first difference becomes the focus")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node paths in rendered labels")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "PNG resolution factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable layout and render caching")

	cmd.ValidArgsFunction = completeJSONFiles(0)
	_ = cmd.RegisterFlagCompletionFunc("format", completeViewFormats)
	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, input string, opts graphOpts) error {
	ctx := withLogger(cmd.Context(), c.Logger)

	text, err := readInput(cmd, input)
	if err != nil {
		return err
	}

	var prev *value.Value
	if opts.previous != "" {
		p, _, err := readDocument(cmd, opts.previous)
		if err != nil {
			return fmt.Errorf("previous document: %w", err)
		}
		prev = &p
	}

	popts := c.pipelineOptions()
	popts.Detailed = opts.detailed
	popts.Scale = opts.scale
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner := c.newRunner(ctx, opts.noCache)
	defer runner.Close()

	prog := newProgress(c.Logger)
	res, err := runner.Execute(ctx, pipeline.Input{Text: text, Previous: prev, Query: opts.query}, popts)
	if err != nil {
		return fmt.Errorf("%s: %w", displayName(input), err)
	}
	if res.Empty {
		return errs.New(errs.ErrCodeEmptyInput, "%s is empty", displayName(input))
	}
	prog.done("built graph",
		"nodes", res.Stats.NodeCount,
		"depth", res.Stats.MaxDepth,
		"layout_cached", res.CacheInfo.LayoutHit)

	// Binary formats never go to stdout; they land next to the input.
	if len(opts.formats) == 1 && (opts.output != "" || !isBinary(opts.formats[0])) {
		return c.renderSingle(ctx, cmd, runner, res, input, opts.formats[0], opts.output, popts)
	}
	return c.renderMultiple(ctx, cmd, runner, res, input, opts, popts)
}

// renderSingle writes one format to the output path, or to stdout.
func (c *CLI) renderSingle(ctx context.Context, cmd *cobra.Command, runner *pipeline.Runner, res *pipeline.Result, input, format, output string, popts pipeline.Options) error {
	data, cached, err := render(ctx, cmd.ErrOrStderr(), runner, res, format, popts)
	if err != nil {
		return err
	}
	if err := writeOutput(cmd, output, data); err != nil {
		return err
	}
	if output != "" && output != stdinPath {
		reportWritten(statusFor(cmd), res, input, []string{output}, cached)
	}
	return nil
}

// renderMultiple writes every format to base.<format>.
func (c *CLI) renderMultiple(ctx context.Context, cmd *cobra.Command, runner *pipeline.Runner, res *pipeline.Result, input string, opts graphOpts, popts pipeline.Options) error {
	base := basePath(opts.output, input)
	var written []string
	allCached := true
	for _, format := range opts.formats {
		data, cached, err := render(ctx, cmd.ErrOrStderr(), runner, res, format, popts)
		if err != nil {
			return fmt.Errorf("%s: %w", format, err)
		}
		path := base + "." + format
		if err := writeOutput(cmd, path, data); err != nil {
			return err
		}
		written = append(written, path)
		allCached = allCached && cached
	}
	reportWritten(statusFor(cmd), res, input, written, allCached)
	return nil
}

// render renders one format through the runner's cache. Formats that need
// Graphviz show a spinner on w.
func render(ctx context.Context, w io.Writer, runner *pipeline.Runner, res *pipeline.Result, format string, popts pipeline.Options) ([]byte, bool, error) {
	if !isBinary(format) && format != pipeline.FormatSVG {
		return runner.RenderWithCacheInfo(ctx, res.View, format, popts)
	}
	return withSpinner(ctx, w, fmt.Sprintf("Rendering %s...", format), func() ([]byte, bool, error) {
		return runner.RenderWithCacheInfo(ctx, res.View, format, popts)
	})
}

func reportWritten(st status, res *pipeline.Result, input string, paths []string, cached bool) {
	st.success("Rendered %s", plural(len(paths), "file"))
	for _, p := range paths {
		st.file(p)
	}
	st.stats(res.Stats.NodeCount, res.Stats.EdgeCount, res.Stats.MaxDepth, res.CacheInfo.LayoutHit && cached)
	if res.Focus != nil {
		st.keyValue("Focus", res.Focus.String())
	}
	if res.Query != "" {
		st.keyValue("Matches", fmt.Sprintf("%d for %q", res.Matches.Len(), res.Query))
	}
	if input != "" && input != stdinPath {
		st.nextStep("Explore interactively", appName+" explore "+input)
	}
}

// isBinary reports whether format should not be written to a terminal.
func isBinary(format string) bool {
	return format == pipeline.FormatPNG || format == pipeline.FormatPDF
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
