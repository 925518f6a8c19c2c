package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/jsonscope/pkg/errors"
	"github.com/matzehuels/jsonscope/pkg/pipeline"
)

// debouncePeriod collapses the burst of events a single save produces.
var debouncePeriod = 150 * time.Millisecond

// watchOpts holds the command-line flags for the watch command.
type watchOpts struct {
	query   string
	output  string // re-rendered on every accepted change
	format  string
	noCache bool
}

// watchCommand creates the watch command, which follows a file as it is
// edited and reports where each save changed it.
func (c *CLI) watchCommand() *cobra.Command {
	opts := watchOpts{format: pipeline.FormatSVG}

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Follow a document and report the focus of every change",
		Long: `Watch a file and re-run the pipeline whenever it is saved. Each accepted
version is compared with the previous one and the first changed path is
logged. Saves that do not parse are reported and do not replace the last
good version. With --output the view is re-rendered after every change.`,
		Example: `  jsonscope watch config.json
  jsonscope watch data.json -o live.svg -q error`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errs.ValidateQuery(opts.query); err != nil {
				return err
			}
			if err := pipeline.ValidateFormat(opts.format); err != nil {
				return err
			}
			return c.runWatch(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "highlight nodes containing this text")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "re-render the view to this file after each change")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "format for --output: json, dot, svg, png, pdf")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable layout and render caching")
	cmd.ValidArgsFunction = completeJSONFiles(0)
	_ = cmd.RegisterFlagCompletionFunc("format", completeViewFormats)
	return cmd
}

// watcher owns the workspace of one watched file.
type watcher struct {
	cmd    *cobra.Command
	path   string
	opts   watchOpts
	popts  pipeline.Options
	runner *pipeline.Runner
	ws     *pipeline.Workspace
}

func (c *CLI) runWatch(cmd *cobra.Command, path string, opts watchOpts) error {
	ctx := withLogger(cmd.Context(), c.Logger)

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	popts := c.pipelineOptions()
	runner := c.newRunner(ctx, opts.noCache)
	defer runner.Close()

	w := &watcher{
		cmd:    cmd,
		path:   abs,
		opts:   opts,
		popts:  popts,
		runner: runner,
		ws:     pipeline.NewWorkspace(runner, popts),
	}
	w.ws.SetQuery(opts.query)
	if err := w.reload(ctx); err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	// Watch the directory: editors often save by renaming a temp file over
	// the original, which drops a watch on the file itself.
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	st := statusFor(cmd)
	st.info("Watching %s", path)
	st.detail("Press Ctrl+C to stop")

	return w.loop(ctx, fsw)
}

func (w *watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) error {
	logger := loggerFromContext(ctx)
	timer := time.NewTimer(debouncePeriod)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			logger.Debug("file event", "op", ev.Op.String())
			timer.Reset(debouncePeriod)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		case <-timer.C:
			if err := w.reload(ctx); err != nil {
				logger.Error("reload failed", "error", errs.UserMessage(err))
			}
		}
	}
}

// reload reads the file into the workspace. A parse error is logged and
// keeps the last good version as the baseline; other errors are returned.
func (w *watcher) reload(ctx context.Context) error {
	logger := loggerFromContext(ctx)
	text, err := readInput(w.cmd, w.path)
	if errs.Is(err, errs.ErrCodeFileNotFound) {
		logger.Warn("file missing, waiting for it to come back", "file", w.path)
		return nil
	}
	if err != nil {
		return err
	}

	res, err := w.ws.SetText(ctx, text)
	switch {
	case res == nil:
		return err
	case res.Empty:
		logger.Warn("document is empty")
		return nil
	case err != nil:
		logger.Error("document does not parse", "error", errs.UserMessage(err))
		return nil
	}

	focus := "none"
	if res.Focus != nil {
		focus = res.Focus.String()
	}
	logger.Info("document updated",
		"focus", focus,
		"nodes", res.Stats.NodeCount,
		"depth", res.Stats.MaxDepth,
		"matches", res.Matches.Len())

	if w.opts.output == "" {
		return nil
	}
	data, _, err := w.runner.RenderWithCacheInfo(ctx, res.View, w.opts.format, w.popts)
	if err != nil {
		return err
	}
	return writeOutput(w.cmd, w.opts.output, data)
}
