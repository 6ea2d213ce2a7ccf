package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bubblepack/pkg/cache"
	"github.com/matzehuels/bubblepack/pkg/config"
	"github.com/matzehuels/bubblepack/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePruneCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached layout (file backend)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if b := cfg.Cache.Backend; b != "" && b != cache.BackendFile {
				return errors.New(errors.ErrCodeUnsupported, "cache clear supports the file backend, not %q", b)
			}

			dir := cfg.Cache.Dir
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}

			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			count, err := fc.Clear()
			if err != nil {
				return err
			}

			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// cachePruneCommand creates the "cache prune" subcommand.
func (c *CLI) cachePruneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired layouts (sqlite backend)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Cache.Backend != cache.BackendSQLite {
				return errors.New(errors.ErrCodeUnsupported, "cache prune supports the sqlite backend, not %q", cfg.Cache.Backend)
			}

			store, _, err := cache.Open(cmd.Context(), cfg.Cache)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer store.Close()

			sc, ok := store.(*cache.SQLiteCache)
			if !ok {
				return errors.New(errors.ErrCodeInternal, "unexpected cache type %T", store)
			}
			n, err := sc.Cleanup(cmd.Context())
			if err != nil {
				return err
			}
			printSuccess("Pruned %d expired entries", n)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			fmt.Println(cacheLocation(cfg.Cache))
			return nil
		},
	}
}

// cacheLocation describes where a backend stores its entries.
func cacheLocation(opts cache.Options) string {
	switch opts.Backend {
	case cache.BackendSQLite:
		if opts.Path != "" {
			return opts.Path
		}
		return filepath.Join(opts.Dir, "layouts.db")
	case cache.BackendRedis, cache.BackendMongo:
		return opts.URL
	case cache.BackendNone:
		return "(disabled)"
	default:
		if opts.Dir == "" {
			dir, err := config.CacheDir()
			if err != nil {
				return ""
			}
			return dir
		}
		return opts.Dir
	}
}
