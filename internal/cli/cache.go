package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsonscope/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout and render cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached layouts and rendered artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := statusFor(cmd)
			var (
				count int
				where string
			)
			switch c.cfg.Cache.Backend {
			case cache.BackendFile:
				fc, err := cache.NewFileCache(c.cfg.Cache.Dir)
				if err != nil {
					return fmt.Errorf("open cache: %w", err)
				}
				if count, err = fc.Clear(); err != nil {
					return err
				}
				where = "Directory: " + fc.Dir()
			case cache.BackendRedis:
				rc, err := cache.NewRedisCache(cmd.Context(), c.cfg.CacheOptions().Redis)
				if err != nil {
					return err
				}
				defer rc.Close()
				if count, err = rc.Clear(cmd.Context()); err != nil {
					return err
				}
				where = fmt.Sprintf("Redis: %s (prefix %q)", c.cfg.Cache.Redis.Addr, c.cfg.Cache.Redis.Prefix)
			default:
				st.info("The %q cache backend keeps nothing between runs", c.cfg.Cache.Backend)
				return nil
			}

			if count == 0 {
				st.info("Cache is empty")
			} else {
				st.success("Cleared %d cached entries", count)
			}
			st.detail("%s", where)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), c.cfg.Cache.Dir)
			return err
		},
	}
}
