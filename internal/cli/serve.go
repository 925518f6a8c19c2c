package cli

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jsonscope/internal/metrics"
	"github.com/matzehuels/jsonscope/internal/server"
	"github.com/matzehuels/jsonscope/pkg/observability"
)

// serveOpts holds the command-line flags for the serve command. Zero values
// fall back to the config file.
type serveOpts struct {
	addr      string
	noMetrics bool
	noCache   bool
}

// serveCommand creates the serve command, which runs the HTTP API with
// live sessions.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and websocket server",
		Long: `Serve the pipeline over HTTP. Clients create a session, push text, queries
and edits, and receive the updated view; a websocket per session streams
every change. Prometheus metrics are exposed on /metrics unless disabled.`,
		Example: `  jsonscope serve
  jsonscope serve --addr 127.0.0.1:9000 --no-metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, "+server.DefaultAddr+")")
	cmd.Flags().BoolVar(&opts.noMetrics, "no-metrics", false, "disable the /metrics endpoint")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable layout and render caching")
	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts serveOpts) error {
	ctx := withLogger(cmd.Context(), c.Logger)

	addr := c.cfg.Server.Addr
	if opts.addr != "" {
		addr = opts.addr
	}

	cfg := server.Config{
		Addr:       addr,
		Runner:     c.newRunner(ctx, opts.noCache),
		Options:    c.pipelineOptions(),
		SessionTTL: time.Duration(c.cfg.Server.SessionTTL),
		Logger:     c.Logger,
	}
	defer cfg.Runner.Close()

	if c.cfg.Server.Metrics && !opts.noMetrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics.New(reg).Install()
		defer observability.Reset()
		cfg.Gatherer = reg
	}

	c.Logger.Info("starting server",
		"addr", addr,
		"cache", c.cfg.Cache.Backend,
		"metrics", cfg.Gatherer != nil,
		"session_ttl", cfg.SessionTTL)
	return server.New(cfg).ListenAndServe(ctx)
}
