package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"apidiff/internal/storage"
)

var historyLimit int

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the changelog cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache size and recent runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCache(func(c *cacheSession) error {
			stats, err := c.cache.Stats()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Entries: %d\n", stats.Entries)
			fmt.Fprintf(out, "Stored bytes: %d\n", stats.StoredBytes)

			runs, err := c.db.RecentRuns(historyLimit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				return nil
			}
			fmt.Fprintln(out, "\nRecent runs:")
			for _, r := range runs {
				hit := ""
				if r.CacheHit {
					hit = " (cached)"
				}
				fmt.Fprintf(out, "  %s  %-6s %4d diffs  %s  %s%s\n",
					r.CreatedAt.Format("2006-01-02 15:04:05"), r.Format, r.DiffCount, r.Duration, r.CacheKey, hit)
			}
			return nil
		})
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [cache-key]",
	Short: "Remove one cached changelog, or all of them",
	Long: `Remove cached changelogs. With a cache key (as listed by "cache stats")
only that entry is dropped; without one the whole cache is cleared.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCache(func(c *cacheSession) error {
			if len(args) == 1 {
				if err := c.cache.Invalidate(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed cache entry %s\n", args[0])
				return nil
			}
			if err := c.cache.InvalidateAll(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared")
			return nil
		})
	},
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove expired cache entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCache(func(c *cacheSession) error {
			n, err := c.cache.CleanupExpiredEntries()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired entries\n", n)
			return nil
		})
	},
}

func init() {
	cacheStatsCmd.Flags().IntVar(&historyLimit, "runs", 10, "Number of recent runs to list")
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd, cachePruneCmd)
	rootCmd.AddCommand(cacheCmd)
}

type cacheSession struct {
	db    *storage.DB
	cache *storage.Cache
}

func withCache(fn func(*cacheSession) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, cache, err := openCache(newLogger(cfg))
	if err != nil {
		return err
	}
	defer db.Close()
	defer cache.Close()
	return fn(&cacheSession{db: db, cache: cache})
}
